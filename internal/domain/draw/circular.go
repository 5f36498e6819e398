package draw

import "github.com/gravadigital/amigo-secreto-api/internal/domain/participant"

// CircularDraw looks for one circle through every participant. Each attempt
// shuffles the roster and accepts the ring only if every link is permitted;
// a forbidden link discards the whole attempt. maxAttempts <= 0 uses the
// engine's budget. ok is false when the budget runs out.
func (e *Engine) CircularDraw(participants []participant.Participant, maxAttempts int) (Assignment, bool) {
	if maxAttempts <= 0 {
		maxAttempts = e.opts.MaxAttempts
	}
	return e.circular(newConstraintGraph(participants), maxAttempts)
}

func (e *Engine) circular(g *constraintGraph, maxAttempts int) (Assignment, bool) {
	n := g.size()
	if n < 2 {
		return nil, false
	}

	order := make([]int, n)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		for i := range order {
			order[i] = i
		}

		// Fisher-Yates
		for i := n - 1; i > 0; i-- {
			j := e.rng.Intn(i + 1)
			order[i], order[j] = order[j], order[i]
		}

		if !e.ringPermitted(g, order) {
			continue
		}

		a := make(Assignment, n)
		for i, giver := range order {
			a[g.id(giver)] = g.id(order[(i+1)%n])
		}
		return a, true
	}

	return nil, false
}

func (e *Engine) ringPermitted(g *constraintGraph, order []int) bool {
	n := len(order)
	for i, giver := range order {
		if !g.permits(giver, order[(i+1)%n]) {
			return false
		}
	}
	return true
}
