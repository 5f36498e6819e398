package draw

import (
	"slices"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/participant"
)

// closeProbability is the chance of closing a cycle of the given length when
// closing is legal: 50% at length 2, +5% per extra member, capped at 85%.
func closeProbability(length int) float64 {
	return min(0.5+0.05*float64(length-2), 0.85)
}

// MultiCycleDraw partitions the participants into disjoint cycles of length
// >= 2 that together cover everyone. It is the relaxed alternative used when
// no single circle exists.
func (e *Engine) MultiCycleDraw(participants []participant.Participant) (Assignment, bool) {
	return e.multiCycle(newConstraintGraph(participants))
}

// PartialDraw is the degraded fallback: participants that cannot be closed
// into any cycle are left without a receiver. It succeeds when the share of
// participants that give a gift reaches MinCoverage, and returns that share.
func (e *Engine) PartialDraw(participants []participant.Participant) (Assignment, float64, bool) {
	return e.partial(newConstraintGraph(participants))
}

func (e *Engine) multiCycle(g *constraintGraph) (Assignment, bool) {
	if g.size() < 2 {
		return nil, false
	}

	for attempt := 0; attempt < e.opts.MultiCycleAttempts; attempt++ {
		if a := e.cover(g, false); a != nil {
			return a, true
		}
	}
	return nil, false
}

func (e *Engine) partial(g *constraintGraph) (Assignment, float64, bool) {
	n := g.size()
	if n < 2 {
		return nil, 0, false
	}

	var best Assignment
	for attempt := 0; attempt < e.opts.MultiCycleAttempts; attempt++ {
		a := e.cover(g, true)
		if len(a) == n {
			return a, 1, true
		}
		if len(a) > len(best) {
			best = a
		}
	}

	coverage := float64(len(best)) / float64(n)
	if len(best) == 0 || coverage < e.opts.MinCoverage {
		return nil, coverage, false
	}
	return best, coverage, true
}

// cover runs one outer attempt. With dropStuck unset any cycle that cannot be
// closed fails the attempt (nil); with it set, the stuck start is left out.
func (e *Engine) cover(g *constraintGraph, dropStuck bool) Assignment {
	remaining := make([]int, g.size())
	for i := range remaining {
		remaining[i] = i
	}

	result := make(Assignment, g.size())
	for len(remaining) > 0 {
		cycle, ok := e.growCycle(g, remaining)
		if !ok {
			if !dropStuck {
				return nil
			}
			start := cycle[0]
			remaining = slices.DeleteFunc(remaining, func(i int) bool { return i == start })
			continue
		}

		for k, giver := range cycle {
			result[g.id(giver)] = g.id(cycle[(k+1)%len(cycle)])
		}
		remaining = slices.DeleteFunc(remaining, func(i int) bool {
			return slices.Contains(cycle, i)
		})
	}

	return result
}

// growCycle extends a cycle from a random start among remaining. The returned
// cycle always begins with its start, also when ok is false.
func (e *Engine) growCycle(g *constraintGraph, remaining []int) ([]int, bool) {
	start := remaining[e.rng.Intn(len(remaining))]
	cycle := []int{start}
	inCycle := map[int]bool{start: true}
	candidates := make([]int, 0, len(remaining))

	for {
		tail := cycle[len(cycle)-1]
		canClose := len(cycle) >= 2 && g.permits(tail, start)

		if len(cycle) == len(remaining) {
			return cycle, canClose
		}

		candidates = candidates[:0]
		for _, c := range remaining {
			if !inCycle[c] && g.permits(tail, c) {
				candidates = append(candidates, c)
			}
		}

		if len(candidates) == 0 {
			return cycle, canClose
		}

		if canClose && e.rng.Float64() < closeProbability(len(cycle)) {
			return cycle, true
		}

		next := candidates[e.rng.Intn(len(candidates))]
		cycle = append(cycle, next)
		inCycle[next] = true
	}
}
