package postgres

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/participant"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/migrations"
)

// toModel converts a domain group into its rows. Every id must be a UUID.
func toModel(g *group.Group) (*migrations.Group, error) {
	groupID, err := uuid.Parse(g.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid group id %q: %w", g.ID, err)
	}

	m := &migrations.Group{
		ID:        groupID,
		Name:      g.Name,
		DrawMode:  migrations.DrawMode(g.DrawMode),
		Coverage:  g.Coverage,
		DrawnAt:   g.DrawnAt,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}

	if g.DrawID != "" {
		drawID, err := uuid.Parse(g.DrawID)
		if err != nil {
			return nil, fmt.Errorf("invalid draw id %q: %w", g.DrawID, err)
		}
		m.DrawID = &drawID
	}

	m.Participants = make([]migrations.Participant, len(g.Participants))
	for i, p := range g.Participants {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid participant id %q: %w", p.ID, err)
		}
		m.Participants[i] = migrations.Participant{
			ID:        id,
			GroupID:   groupID,
			Name:      p.Name,
			Phone:     p.Phone,
			Position:  i,
			Blacklist: pq.StringArray(p.Blacklist.IDs()),
		}
	}

	m.Assignments = make([]migrations.DrawAssignment, 0, len(g.DrawResults))
	for _, giver := range g.ParticipantIDs() {
		receiver, ok := g.DrawResults[giver]
		if !ok {
			continue
		}
		giverID, _ := uuid.Parse(giver)
		receiverID, err := uuid.Parse(receiver)
		if err != nil {
			return nil, fmt.Errorf("invalid receiver id %q: %w", receiver, err)
		}
		m.Assignments = append(m.Assignments, migrations.DrawAssignment{
			GroupID:    groupID,
			GiverID:    giverID,
			ReceiverID: receiverID,
		})
	}

	return m, nil
}

// toDomain rebuilds the group from its rows, participants in roster order
func toDomain(m *migrations.Group) *group.Group {
	g := &group.Group{
		ID:           m.ID.String(),
		Name:         m.Name,
		Participants: make([]participant.Participant, 0, len(m.Participants)),
		DrawMode:     string(m.DrawMode),
		Coverage:     m.Coverage,
		DrawnAt:      m.DrawnAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.DrawID != nil {
		g.DrawID = m.DrawID.String()
	}

	rows := slices.Clone(m.Participants)
	slices.SortStableFunc(rows, func(a, b migrations.Participant) int {
		return a.Position - b.Position
	})
	for _, row := range rows {
		g.Participants = append(g.Participants, participant.Participant{
			ID:        row.ID.String(),
			Name:      row.Name,
			Phone:     row.Phone,
			Blacklist: participant.NewExclusionSet(row.Blacklist...),
		})
	}

	if len(m.Assignments) > 0 {
		g.DrawResults = make(map[string]string, len(m.Assignments))
		for _, a := range m.Assignments {
			g.DrawResults[a.GiverID.String()] = a.ReceiverID.String()
		}
	}

	return g
}
