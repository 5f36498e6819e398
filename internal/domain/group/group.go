package group

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/participant"
)

var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrDuplicateName       = errors.New("a participant with this name already exists")
	ErrSelfExclusion       = errors.New("a participant cannot exclude themselves")
	ErrNoDraw              = errors.New("the group has not been drawn yet")
)

// Group is an explicit gift exchange state: the roster plus the latest draw.
type Group struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Participants []participant.Participant `json:"participants"`
	DrawResults  map[string]string         `json:"draw_results,omitempty"`
	// DrawID is regenerated on every draw so that exported artifacts can be keyed by it
	DrawID    string     `json:"draw_id,omitempty"`
	DrawMode  string     `json:"draw_mode,omitempty"`
	Coverage  float64    `json:"coverage,omitempty"`
	DrawnAt   *time.Time `json:"drawn_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewGroup crea un grupo vacío
func NewGroup(name string) *Group {
	now := time.Now()
	return &Group{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Participants: make([]participant.Participant, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddParticipant appends a new participant and discards the current draw.
// Names are unique within the group, ignoring case.
func (g *Group) AddParticipant(name, phone string) (participant.Participant, error) {
	p, err := participant.New(name, phone)
	if err != nil {
		return participant.Participant{}, err
	}

	for _, existing := range g.Participants {
		if existing.SameName(p.Name) {
			return participant.Participant{}, fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
		}
	}

	g.Participants = append(g.Participants, p)
	g.ClearDraw()
	return p, nil
}

// RemoveParticipant removes the participant and every exclusion that pointed at them
func (g *Group) RemoveParticipant(id string) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return ErrParticipantNotFound
	}

	g.Participants = slices.Delete(g.Participants, idx, idx+1)
	for _, p := range g.Participants {
		p.Blacklist.Remove(id)
	}

	g.ClearDraw()
	return nil
}

// SetBlacklist replaces the exclusion set of a participant
func (g *Group) SetBlacklist(id string, excluded []string) error {
	idx := g.indexOf(id)
	if idx < 0 {
		return ErrParticipantNotFound
	}

	set := participant.NewExclusionSet()
	for _, ex := range excluded {
		if ex == id {
			return ErrSelfExclusion
		}
		if g.indexOf(ex) < 0 {
			return fmt.Errorf("%w: %s", ErrParticipantNotFound, ex)
		}
		set.Add(ex)
	}

	g.Participants[idx].Blacklist = set
	g.ClearDraw()
	return nil
}

// ApplyDraw stores a draw result and stamps a new draw id
func (g *Group) ApplyDraw(results map[string]string, mode string, coverage float64, at time.Time) {
	g.DrawResults = make(map[string]string, len(results))
	for giver, receiver := range results {
		g.DrawResults[giver] = receiver
	}
	g.DrawID = uuid.New().String()
	g.DrawMode = mode
	g.Coverage = coverage
	g.DrawnAt = &at
	g.touch()
}

// ClearDraw drops the current draw; roster edits make it stale.
func (g *Group) ClearDraw() {
	g.DrawResults = nil
	g.DrawID = ""
	g.DrawMode = ""
	g.Coverage = 0
	g.DrawnAt = nil
	g.touch()
}

func (g *Group) HasDraw() bool {
	return len(g.DrawResults) > 0
}

func (g *Group) Participant(id string) (participant.Participant, bool) {
	idx := g.indexOf(id)
	if idx < 0 {
		return participant.Participant{}, false
	}
	return g.Participants[idx], true
}

// Receiver returns who the giver drew
func (g *Group) Receiver(giverID string) (participant.Participant, error) {
	if !g.HasDraw() {
		return participant.Participant{}, ErrNoDraw
	}
	receiverID, ok := g.DrawResults[giverID]
	if !ok {
		return participant.Participant{}, ErrParticipantNotFound
	}
	receiver, ok := g.Participant(receiverID)
	if !ok {
		return participant.Participant{}, ErrParticipantNotFound
	}
	return receiver, nil
}

// ParticipantIDs returns ids in roster order
func (g *Group) ParticipantIDs() []string {
	ids := make([]string, len(g.Participants))
	for i, p := range g.Participants {
		ids[i] = p.ID
	}
	return ids
}

// NameOf returns the display name for id, or id itself when unknown
func (g *Group) NameOf(id string) string {
	if p, ok := g.Participant(id); ok {
		return p.Name
	}
	return id
}

// Clone returns a deep copy
func (g *Group) Clone() *Group {
	out := *g
	out.Participants = make([]participant.Participant, len(g.Participants))
	for i, p := range g.Participants {
		out.Participants[i] = p.Clone()
	}
	if g.DrawResults != nil {
		out.DrawResults = make(map[string]string, len(g.DrawResults))
		for k, v := range g.DrawResults {
			out.DrawResults[k] = v
		}
	}
	if g.DrawnAt != nil {
		at := *g.DrawnAt
		out.DrawnAt = &at
	}
	return &out
}

func (g *Group) indexOf(id string) int {
	return slices.IndexFunc(g.Participants, func(p participant.Participant) bool {
		return p.ID == id
	})
}

func (g *Group) touch() {
	g.UpdatedAt = time.Now()
}
