package services

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/amigo-secreto-api/internal/auth"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/draw"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/report"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/memory"
)

type fixture struct {
	svc    *GroupService
	repo   *memory.GroupRepository
	tokens *auth.TokenManager
	store  *report.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:   memory.NewGroupRepository(),
		tokens: auth.NewTokenManager("test-secret", time.Hour),
		store:  report.NewMemoryStore(time.Hour),
	}
	f.svc = NewGroupService(f.repo, f.tokens, f.store, draw.DefaultOptions(), "https://amigo.example.com")
	return f
}

func (f *fixture) create(t *testing.T, names ...string) *group.Group {
	t.Helper()

	in := make([]ParticipantInput, len(names))
	for i, name := range names {
		in[i] = ParticipantInput{Name: name}
	}
	created, err := f.svc.CreateGroup(CreateGroupRequest{Name: "Natal", Participants: in})
	require.NoError(t, err)
	return created.Group
}

func idOf(t *testing.T, g *group.Group, name string) string {
	t.Helper()
	for _, p := range g.Participants {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("participant %s not found", name)
	return ""
}

func boolPtr(b bool) *bool {
	return &b
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateGroup(CreateGroupRequest{
		Name: "Natal",
		Participants: []ParticipantInput{
			{Name: "Ana", Phone: "+55 11 98765-4321"},
			{Name: "Bia"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, created.Group.Participants, 2)
	claims, err := f.tokens.Verify(created.Token, created.Group.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Group.ID, claims.GroupID)

	stored, err := f.svc.GetGroup(created.Group.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Group.ParticipantIDs(), stored.ParticipantIDs())
}

func TestCreateGroupRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateGroup(CreateGroupRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateGroup(CreateGroupRequest{Name: "Natal", Participants: []ParticipantInput{{Name: "Ana", Phone: "abc"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateGroup(CreateGroupRequest{Name: "Natal", Participants: []ParticipantInput{{Name: "Ana"}, {Name: "ana"}}})
	assert.ErrorIs(t, err, group.ErrDuplicateName)
}

func TestParticipantLifecycle(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "Ana", "Bia")

	caio, err := f.svc.AddParticipant(g.ID, ParticipantInput{Name: "Caio"})
	require.NoError(t, err)

	_, err = f.svc.AddParticipant(g.ID, ParticipantInput{Name: "CAIO"})
	assert.ErrorIs(t, err, group.ErrDuplicateName)

	_, err = f.svc.AddParticipant("missing", ParticipantInput{Name: "Duda"})
	assert.ErrorIs(t, err, group.ErrGroupNotFound)

	ana := idOf(t, g, "Ana")
	p, err := f.svc.UpdateBlacklist(g.ID, ana, []string{caio.ID})
	require.NoError(t, err)
	assert.True(t, p.Excludes(caio.ID))

	_, err = f.svc.UpdateBlacklist(g.ID, ana, []string{"bia"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateBlacklist(g.ID, ana, []string{ana})
	assert.ErrorIs(t, err, group.ErrSelfExclusion)

	require.NoError(t, f.svc.RemoveParticipant(g.ID, caio.ID))
	stored, err := f.svc.GetGroup(g.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Participants, 2)
	assert.Zero(t, stored.Participants[0].Blacklist.Len(), "exclusions of removed participants are dropped")

	assert.ErrorIs(t, f.svc.RemoveParticipant(g.ID, caio.ID), group.ErrParticipantNotFound)
}

func TestDrawCircular(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "Ana", "Bia", "Caio", "Duda", "Edu")

	res, err := f.svc.Draw(g.ID, DrawRequest{Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, draw.ModeCircular, res.Mode)
	assert.Equal(t, int64(42), res.Seed)
	assert.Equal(t, 1.0, res.Coverage)
	require.Len(t, res.Cycles, 1)
	assert.Len(t, res.Cycles[0].Members, 5)
	assert.NotEmpty(t, res.Group.DrawID)

	stored, err := f.svc.GetGroup(g.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Group.DrawResults, stored.DrawResults)
}

func TestDrawIsReplayableBySeed(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "Ana", "Bia", "Caio", "Duda", "Edu", "Fabi")

	first, err := f.svc.Draw(g.ID, DrawRequest{Seed: 7})
	require.NoError(t, err)
	second, err := f.svc.Draw(g.ID, DrawRequest{Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, first.Group.DrawResults, second.Group.DrawResults)
	assert.NotEqual(t, first.Group.DrawID, second.Group.DrawID, "a redraw stamps a new draw id")
}

func TestDrawTooFewParticipants(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "Ana", "Bia")

	_, err := f.svc.Draw(g.ID, DrawRequest{})

	var infeasible *draw.InfeasibleError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, draw.CodeTooFewParticipants, infeasible.Validation.Code)

	stored, err := f.svc.GetGroup(g.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasDraw())
}

func TestDrawDeadlockFallsBackToSeparateCycles(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "A", "B", "C", "D")
	a, b, c, d := idOf(t, g, "A"), idOf(t, g, "B"), idOf(t, g, "C"), idOf(t, g, "D")

	_, err := f.svc.UpdateBlacklist(g.ID, a, []string{c, d})
	require.NoError(t, err)
	_, err = f.svc.UpdateBlacklist(g.ID, b, []string{c, d})
	require.NoError(t, err)

	v, err := f.svc.ValidateGroup(g.ID)
	require.NoError(t, err)
	assert.Equal(t, draw.CodeMutualDeadlock, v.Code)
	assert.True(t, v.CanRelax)

	_, err = f.svc.Draw(g.ID, DrawRequest{Relaxed: boolPtr(false), Seed: 3})
	assert.ErrorIs(t, err, draw.ErrInfeasible)

	res, err := f.svc.Draw(g.ID, DrawRequest{Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, draw.ModeMultiCycle, res.Mode)
	assert.Len(t, res.Cycles, 2)
	assert.Equal(t, b, res.Group.DrawResults[a])

	view, err := f.svc.Cycles(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "multi_cycle", view.Mode)
	assert.Len(t, view.Cycles, 2)
	assert.Empty(t, view.Unassigned)
}

func TestRosterChangesDiscardDraw(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "Ana", "Bia", "Caio")

	_, err := f.svc.Draw(g.ID, DrawRequest{Seed: 1})
	require.NoError(t, err)

	_, err = f.svc.AddParticipant(g.ID, ParticipantInput{Name: "Duda"})
	require.NoError(t, err)

	_, err = f.svc.Cycles(g.ID)
	assert.ErrorIs(t, err, group.ErrNoDraw)
	_, err = f.svc.Links(g.ID)
	assert.ErrorIs(t, err, group.ErrNoDraw)
}

func TestLinksAndReveal(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.CreateGroup(CreateGroupRequest{
		Name: "Natal",
		Participants: []ParticipantInput{
			{Name: "Ana", Phone: "+55 11 98765-4321"},
			{Name: "Bia"},
			{Name: "Caio"},
		},
	})
	require.NoError(t, err)
	g := created.Group

	res, err := f.svc.Draw(g.ID, DrawRequest{Seed: 5})
	require.NoError(t, err)

	links, err := f.svc.Links(g.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)

	assert.Contains(t, links[0].WhatsApp, "https://wa.me/5511987654321?text=")
	assert.Empty(t, links[1].WhatsApp)

	for _, l := range links {
		parsed, err := url.Parse(l.Link)
		require.NoError(t, err)

		revealed, err := f.svc.Reveal(parsed.Query().Get("u"), parsed.Query().Get("f"))
		require.NoError(t, err)
		assert.Equal(t, l.Name, revealed.Giver)
		assert.Equal(t, res.Group.NameOf(res.Group.DrawResults[l.ParticipantID]), revealed.Receiver)
	}

	_, err = f.svc.Reveal("", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReportAndExport(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "Ana", "Bia", "Caio")

	_, err := f.svc.Report(g.ID)
	assert.ErrorIs(t, err, group.ErrNoDraw)

	res, err := f.svc.Draw(g.ID, DrawRequest{Seed: 9})
	require.NoError(t, err)

	r, err := f.svc.Report(g.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Filename(res.Group.DrawID), r.Filename)

	export, err := f.svc.ExportReport(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Filename, export.Key)

	stored, ok := f.store.Get(r.Filename)
	require.True(t, ok)
	assert.Equal(t, r.Content, stored)
}

func TestExportDisabled(t *testing.T) {
	f := newFixture(t)
	f.svc = NewGroupService(f.repo, f.tokens, nil, draw.DefaultOptions(), "https://amigo.example.com")
	g := f.create(t, "Ana", "Bia", "Caio")
	_, err := f.svc.Draw(g.ID, DrawRequest{})
	require.NoError(t, err)

	_, err = f.svc.ExportReport(context.Background(), g.ID)
	assert.ErrorIs(t, err, report.ErrExportDisabled)
}

func TestDeleteGroup(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, "Ana")

	require.NoError(t, f.svc.DeleteGroup(g.ID))
	_, err := f.svc.GetGroup(g.ID)
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
	assert.ErrorIs(t, f.svc.DeleteGroup(g.ID), group.ErrGroupNotFound)
}
