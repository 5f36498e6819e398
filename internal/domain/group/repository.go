package group

import "time"

// Repository persists groups. Implementations return ErrGroupNotFound for unknown ids.
type Repository interface {
	Create(g *Group) error
	GetByID(id string) (*Group, error)
	GetAll() ([]*Group, error)
	Update(g *Group) error
	Delete(id string) error
}

// Janitor removes groups nobody touched since before
type Janitor interface {
	DeleteInactive(before time.Time) (int, error)
}
