// Package memory guarda los grupos en el proceso, sin persistencia.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
)

// GroupRepository implements group.Repository over a map. Groups are cloned
// on the way in and out so callers never share state with the store.
type GroupRepository struct {
	mu     sync.RWMutex
	groups map[string]*group.Group
	log    *log.Logger
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		groups: make(map[string]*group.Group),
		log:    logger.Repository("memory_group"),
	}
}

func (r *GroupRepository) Create(g *group.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups[g.ID] = g.Clone()
	r.log.Debug("Group created", "group_id", g.ID)
	return nil
}

func (r *GroupRepository) GetByID(id string) (*group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[id]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	return g.Clone(), nil
}

func (r *GroupRepository) GetAll() ([]*group.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*group.Group, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g.Clone())
	}
	slices.SortFunc(out, func(a, b *group.Group) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *GroupRepository) Update(g *group.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[g.ID]; !ok {
		return group.ErrGroupNotFound
	}
	r.groups[g.ID] = g.Clone()
	return nil
}

func (r *GroupRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[id]; !ok {
		return group.ErrGroupNotFound
	}
	delete(r.groups, id)
	return nil
}

// DeleteInactive removes groups not updated since before
func (r *GroupRepository) DeleteInactive(before time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, g := range r.groups {
		if g.UpdatedAt.Before(before) {
			delete(r.groups, id)
			removed++
		}
	}
	return removed, nil
}

// RunJanitor deletes groups idle for longer than ttl every interval until ctx is done
func RunJanitor(ctx context.Context, j group.Janitor, ttl, interval time.Duration) {
	log := logger.Repository("janitor")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("Janitor stopped")
			return
		case <-ticker.C:
			removed, err := j.DeleteInactive(time.Now().Add(-ttl))
			if err != nil {
				log.Error("Failed to clean up inactive groups", "error", err)
				continue
			}
			if removed > 0 {
				log.Info("Cleaned up inactive groups", "count", removed)
			}
		}
	}
}

// Container wraps the repository with the same surface as the postgres one
type Container struct {
	groups *GroupRepository
}

func NewContainer() *Container {
	return &Container{groups: NewGroupRepository()}
}

func (c *Container) Groups() group.Repository {
	return c.groups
}

func (c *Container) Janitor() group.Janitor {
	return c.groups
}

func (c *Container) Health(context.Context) error {
	return nil
}

func (c *Container) Info() map[string]any {
	c.groups.mu.RLock()
	defer c.groups.mu.RUnlock()

	return map[string]any{
		"type":   "memory",
		"groups": len(c.groups.groups),
	}
}

func (c *Container) Close() error {
	return nil
}
