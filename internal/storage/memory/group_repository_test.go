package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
)

func TestCreateAndGetReturnCopies(t *testing.T) {
	repo := NewGroupRepository()
	g := group.NewGroup("Natal")
	_, err := g.AddParticipant("Ana", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(g))

	_, err = g.AddParticipant("Bia", "")
	require.NoError(t, err)

	stored, err := repo.GetByID(g.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Participants, 1)

	stored.Name = "changed"
	again, err := repo.GetByID(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Natal", again.Name)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := NewGroupRepository()
	g := group.NewGroup("Natal")

	assert.ErrorIs(t, repo.Update(g), group.ErrGroupNotFound)
	require.NoError(t, repo.Create(g))

	g.Name = "Natal 2026"
	require.NoError(t, repo.Update(g))
	stored, err := repo.GetByID(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Natal 2026", stored.Name)

	require.NoError(t, repo.Delete(g.ID))
	assert.ErrorIs(t, repo.Delete(g.ID), group.ErrGroupNotFound)
	_, err = repo.GetByID(g.ID)
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestGetAllNewestFirst(t *testing.T) {
	repo := NewGroupRepository()
	older := group.NewGroup("older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := group.NewGroup("newer")
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Name)
}

func TestDeleteInactive(t *testing.T) {
	repo := NewGroupRepository()
	stale := group.NewGroup("stale")
	stale.UpdatedAt = time.Now().Add(-48 * time.Hour)
	fresh := group.NewGroup("fresh")
	require.NoError(t, repo.Create(stale))
	require.NoError(t, repo.Create(fresh))

	removed, err := repo.DeleteInactive(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.GetByID(fresh.ID)
	assert.NoError(t, err)
	_, err = repo.GetByID(stale.ID)
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestRunJanitorStopsWithContext(t *testing.T) {
	repo := NewGroupRepository()
	stale := group.NewGroup("stale")
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(stale))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunJanitor(ctx, repo, time.Minute, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := repo.GetByID(stale.ID)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestConcurrentAccess(t *testing.T) {
	repo := NewGroupRepository()
	g := group.NewGroup("Natal")
	require.NoError(t, repo.Create(g))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, err := repo.GetByID(g.ID)
			if err != nil {
				return
			}
			stored.Name = "renamed"
			_ = repo.Update(stored)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Name)
}
