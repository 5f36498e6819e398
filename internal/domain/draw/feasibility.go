package draw

import (
	"fmt"
	"strings"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/participant"
)

// MinParticipants is the smallest group a circular draw accepts
const MinParticipants = 3

// Code classifies why a group cannot be drawn as a single circle
type Code string

const (
	CodeTooFewParticipants Code = "too_few_participants"
	CodeCannotGive         Code = "cannot_give"
	CodeCannotReceive      Code = "cannot_receive"
	CodeMutualDeadlock     Code = "mutual_deadlock"
	CodeIsolatedClusters   Code = "isolated_clusters"
	CodeNoCircularDraw     Code = "no_circular_draw"
)

// Validation is the result of the feasibility analysis
type Validation struct {
	Valid  bool   `json:"is_valid"`
	Code   Code   `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
	// CanRelax is set when a draw with several disjoint cycles may still cover everyone
	CanRelax bool `json:"can_relax"`
	// Participants names the participants the reason is about
	Participants []string   `json:"participants,omitempty"`
	Clusters     [][]string `json:"clusters,omitempty"`
}

// Validate decides whether a single circular draw is possible. Checks run in
// order and the first failure is reported:
//  1. at least MinParticipants
//  2. everyone has a permitted receiver
//  3. everyone is a permitted receiver of someone
//  4. no pair is forced to draw each other
//  5. a bounded circular probe, then a reachability diagnosis
func (e *Engine) Validate(participants []participant.Participant) Validation {
	n := len(participants)
	if n < MinParticipants {
		return Validation{
			Code:   CodeTooFewParticipants,
			Reason: fmt.Sprintf("At least %d participants are required for the draw (currently %d)", MinParticipants, n),
		}
	}

	g := newConstraintGraph(participants)

	for i := range n {
		if g.outDegree[i] == 0 {
			return Validation{
				Code:         CodeCannotGive,
				Reason:       fmt.Sprintf("%s has excluded every other participant and cannot give a gift to anyone", g.name(i)),
				Participants: []string{g.name(i)},
			}
		}
	}

	for j := range n {
		if g.inDegree[j] == 0 {
			return Validation{
				Code:         CodeCannotReceive,
				Reason:       fmt.Sprintf("Every other participant has excluded %s, so nobody can give them a gift", g.name(j)),
				Participants: []string{g.name(j)},
			}
		}
	}

	// NOTE: if A can only give to B and B can only give to A, the pair closes a
	// 2-cycle and can never be part of a single circle of length n > 2.
	for i := range n {
		if g.outDegree[i] != 1 {
			continue
		}
		j := g.receivers(i)[0]
		if g.outDegree[j] == 1 && g.permits(j, i) {
			return Validation{
				Code: CodeMutualDeadlock,
				Reason: fmt.Sprintf("%s and %s can only draw each other, so they cannot be part of a single gift circle; a draw with separate circles may still work",
					g.name(i), g.name(j)),
				CanRelax:     true,
				Participants: []string{g.name(i), g.name(j)},
			}
		}
	}

	if _, ok := e.circular(g, e.opts.ProbeAttempts); ok {
		return Validation{Valid: true}
	}

	clusters := g.clusters()
	if len(clusters) > 1 {
		names := make([][]string, len(clusters))
		parts := make([]string, len(clusters))
		canRelax := true
		for k, cluster := range clusters {
			names[k] = make([]string, len(cluster))
			for m, i := range cluster {
				names[k][m] = g.name(i)
			}
			parts[k] = "[" + strings.Join(names[k], ", ") + "]"
			if len(cluster) < 2 {
				canRelax = false
			}
		}

		reason := "The exclusions split the group into separate clusters that cannot be joined into a single gift circle: " +
			strings.Join(parts, ", ")
		if canRelax {
			reason += "; a draw with separate circles may still work"
		}

		return Validation{
			Code:     CodeIsolatedClusters,
			Reason:   reason,
			CanRelax: canRelax,
			Clusters: names,
		}
	}

	return Validation{
		Code:     CodeNoCircularDraw,
		Reason:   "No single gift circle was found with the current exclusions; try again or allow a draw with separate circles",
		CanRelax: true,
	}
}
