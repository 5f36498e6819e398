package migrations

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Custom types for GORM

type DrawMode string

const (
	DrawModeCircular   DrawMode = "circular"
	DrawModeMultiCycle DrawMode = "multi_cycle"
	DrawModePartial    DrawMode = "partial"
)

func (dm *DrawMode) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*dm = ""
		return nil
	case string:
		*dm = DrawMode(v)
		return nil
	case []byte:
		*dm = DrawMode(v)
		return nil
	}
	return fmt.Errorf("cannot scan %T into DrawMode", value)
}

func (dm DrawMode) Value() (driver.Value, error) {
	if dm == "" {
		return nil, nil
	}
	return string(dm), nil
}

// Group is a gift exchange and the metadata of its latest draw
type Group struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	DrawID    *uuid.UUID `gorm:"type:uuid" json:"draw_id,omitempty"`
	DrawMode  DrawMode   `gorm:"type:draw_mode" json:"draw_mode,omitempty"`
	Coverage  float64    `gorm:"not null;default:0" json:"coverage"`
	DrawnAt   *time.Time `json:"drawn_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Participants []Participant    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Assignments  []DrawAssignment `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

// Participant is a member of a group. Position keeps the roster order.
type Participant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	GroupID   uuid.UUID      `gorm:"type:uuid;not null" json:"group_id"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `json:"phone,omitempty"`
	Position  int            `gorm:"not null;default:0" json:"position"`
	Blacklist pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"blacklist"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Participant) TableName() string {
	return "participants"
}

// DrawAssignment is one giver -> receiver link of the current draw
type DrawAssignment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null" json:"group_id"`
	GiverID    uuid.UUID `gorm:"type:uuid;not null" json:"giver_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null" json:"receiver_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DrawAssignment) TableName() string {
	return "draw_assignments"
}

// AllModels returns a slice of all models for migration
func AllModels() []any {
	return []any{
		&Group{},
		&Participant{},
		&DrawAssignment{},
	}
}

// TableNames lists the tables created by AllModels
func TableNames() []string {
	return []string{
		Group{}.TableName(),
		Participant{}.TableName(),
		DrawAssignment{}.TableName(),
	}
}
