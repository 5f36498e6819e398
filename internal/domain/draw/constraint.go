package draw

import "github.com/gravadigital/amigo-secreto-api/internal/domain/participant"

// Assignment maps a giver id to the id of the receiver they drew
type Assignment map[string]string

// Permitted reports whether giver may be assigned receiver:
// receiver != giver and receiver ∉ blacklist(giver).
func Permitted(giver, receiver participant.Participant) bool {
	return giver.CanGiveTo(receiver.ID)
}

// constraintGraph indexes the participants of one engine call and precomputes
// the permitted relation, P[i][j] = Permitted(p_i, p_j).
type constraintGraph struct {
	participants []participant.Participant
	permitted    [][]bool
	outDegree    []int
	inDegree     []int
}

func newConstraintGraph(participants []participant.Participant) *constraintGraph {
	n := len(participants)
	g := &constraintGraph{
		participants: participants,
		permitted:    make([][]bool, n),
		outDegree:    make([]int, n),
		inDegree:     make([]int, n),
	}

	for i := range n {
		g.permitted[i] = make([]bool, n)
		for j := range n {
			if i == j || !Permitted(participants[i], participants[j]) {
				continue
			}
			g.permitted[i][j] = true
			g.outDegree[i]++
			g.inDegree[j]++
		}
	}

	return g
}

func (g *constraintGraph) size() int {
	return len(g.participants)
}

func (g *constraintGraph) permits(giver, receiver int) bool {
	return g.permitted[giver][receiver]
}

// receivers returns the indexes giver may draw, in roster order
func (g *constraintGraph) receivers(giver int) []int {
	out := make([]int, 0, g.outDegree[giver])
	for j, ok := range g.permitted[giver] {
		if ok {
			out = append(out, j)
		}
	}
	return out
}

func (g *constraintGraph) id(i int) string {
	return g.participants[i].ID
}

func (g *constraintGraph) name(i int) string {
	return g.participants[i].Name
}

// reachable returns, for every participant, the set of participants reachable
// through chains of permitted assignments (including itself).
func (g *constraintGraph) reachable() [][]bool {
	n := g.size()
	reach := make([][]bool, n)

	for start := range n {
		visited := make([]bool, n)
		visited[start] = true
		stack := []int{start}

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for next := range n {
				if !visited[next] && g.permitted[cur][next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}

		reach[start] = visited
	}

	return reach
}

// clusters groups participants that can reach each other, in order of first appearance.
// A single cluster means every participant can reach every other one.
func (g *constraintGraph) clusters() [][]int {
	n := g.size()
	reach := g.reachable()
	assigned := make([]bool, n)

	var out [][]int
	for i := range n {
		if assigned[i] {
			continue
		}
		cluster := []int{i}
		assigned[i] = true
		for j := i + 1; j < n; j++ {
			if !assigned[j] && reach[i][j] && reach[j][i] {
				cluster = append(cluster, j)
				assigned[j] = true
			}
		}
		out = append(out, cluster)
	}

	return out
}
