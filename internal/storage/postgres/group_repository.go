package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/migrations"
)

// GroupRepository implements group.Repository using GORM
type GroupRepository struct {
	db  *gorm.DB
	log *log.Logger
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{
		db:  db,
		log: logger.Repository("group"),
	}
}

func (r *GroupRepository) Create(g *group.Group) error {
	r.log.Debug("Creating group", "group_id", g.ID, "name", g.Name)

	m, err := toModel(g)
	if err != nil {
		return err
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		return r.writeRoster(tx, m)
	})
	if err != nil {
		r.log.Error("Failed to create group", "group_id", g.ID, "error", err)
		return translate(err, "create group")
	}

	r.log.Info("Group created", "group_id", g.ID, "participants", len(m.Participants))
	return nil
}

func (r *GroupRepository) GetByID(id string) (*group.Group, error) {
	groupID, err := uuid.Parse(id)
	if err != nil {
		r.log.Debug("Invalid group id format", "group_id", id)
		return nil, group.ErrGroupNotFound
	}

	var m migrations.Group
	err = r.preload(r.db).First(&m, "id = ?", groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Group not found", "group_id", id)
			return nil, group.ErrGroupNotFound
		}
		r.log.Error("Failed to get group", "group_id", id, "error", err)
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return toDomain(&m), nil
}

func (r *GroupRepository) GetAll() ([]*group.Group, error) {
	var models []migrations.Group
	if err := r.preload(r.db).Order("created_at DESC").Find(&models).Error; err != nil {
		r.log.Error("Failed to get groups", "error", err)
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}

	groups := make([]*group.Group, len(models))
	for i := range models {
		groups[i] = toDomain(&models[i])
	}

	r.log.Debug("Retrieved all groups", "count", len(groups))
	return groups, nil
}

// Update rewrites the group row, its roster and its draw in one transaction
func (r *GroupRepository) Update(g *group.Group) error {
	m, err := toModel(g)
	if err != nil {
		return err
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&migrations.Group{}).Where("id = ?", m.ID).Updates(map[string]any{
			"name":       m.Name,
			"draw_id":    m.DrawID,
			"draw_mode":  m.DrawMode,
			"coverage":   m.Coverage,
			"drawn_at":   m.DrawnAt,
			"updated_at": m.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return group.ErrGroupNotFound
		}

		if err := tx.Where("group_id = ?", m.ID).Delete(&migrations.DrawAssignment{}).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(m.Participants))
		for i, p := range m.Participants {
			keep[i] = p.ID
		}
		removed := tx.Where("group_id = ?", m.ID)
		if len(keep) > 0 {
			removed = removed.Where("id NOT IN ?", keep)
		}
		if err := removed.Delete(&migrations.Participant{}).Error; err != nil {
			return err
		}

		return r.writeRoster(tx, m)
	})
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return err
		}
		r.log.Error("Failed to update group", "group_id", g.ID, "error", err)
		return translate(err, "update group")
	}

	r.log.Debug("Group updated", "group_id", g.ID, "participants", len(m.Participants), "assignments", len(m.Assignments))
	return nil
}

func (r *GroupRepository) Delete(id string) error {
	groupID, err := uuid.Parse(id)
	if err != nil {
		return group.ErrGroupNotFound
	}

	res := r.db.Delete(&migrations.Group{}, "id = ?", groupID)
	if res.Error != nil {
		r.log.Error("Failed to delete group", "group_id", id, "error", res.Error)
		return fmt.Errorf("failed to delete group: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return group.ErrGroupNotFound
	}

	r.log.Info("Group deleted", "group_id", id)
	return nil
}

// DeleteInactive removes groups not updated since before
func (r *GroupRepository) DeleteInactive(before time.Time) (int, error) {
	res := r.db.Where("updated_at < ?", before).Delete(&migrations.Group{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete inactive groups: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *GroupRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Assignments")
}

// writeRoster upserts participants, then inserts the draw
func (r *GroupRepository) writeRoster(tx *gorm.DB, m *migrations.Group) error {
	if len(m.Participants) > 0 {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "position", "blacklist"}),
		}).Create(&m.Participants).Error
		if err != nil {
			return err
		}
	}

	if len(m.Assignments) > 0 {
		if err := tx.Create(&m.Assignments).Error; err != nil {
			return err
		}
	}
	return nil
}

func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", group.ErrDuplicateName, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
