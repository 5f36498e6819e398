package draw

// ExtractCycles decomposes a giver->receiver mapping into its disjoint cycles,
// in discovery order over ids, each listed in traversal order without
// repeating the first member. A walk also stops at an id that has no entry in
// the mapping, so partial mappings yield open chains; ids that are not givers
// in the mapping appear in no cycle.
func ExtractCycles(mapping Assignment, ids []string) [][]string {
	visited := make(map[string]bool, len(mapping))
	cycles := make([][]string, 0)

	for _, id := range ids {
		if visited[id] {
			continue
		}
		if _, ok := mapping[id]; !ok {
			continue
		}

		var cycle []string
		for cur := id; !visited[cur]; {
			next, ok := mapping[cur]
			if !ok {
				break
			}
			visited[cur] = true
			cycle = append(cycle, cur)
			cur = next
		}

		cycles = append(cycles, cycle)
	}

	return cycles
}
