package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/logger"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/migrations"
)

// Container owns the connection and the repositories built on it
type Container struct {
	db     *gorm.DB
	log    *log.Logger
	groups *GroupRepository
}

// NewContainer connects, runs the migrations and builds the repositories
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")

	db, err := Connect(cfg, DefaultConnectionConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = Close(db)
		return nil, err
	}

	c := NewContainerWithDB(db)
	if err := c.Health(context.Background()); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized")
	return c, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:     db,
		log:    logger.Repository("postgres_container"),
		groups: NewGroupRepository(db),
	}
}

func (c *Container) Groups() group.Repository {
	return c.groups
}

// Janitor exposes the idle-group cleanup
func (c *Container) Janitor() group.Janitor {
	return c.groups
}

// Health pings the database and checks every table is reachable
func (c *Container) Health(ctx context.Context) error {
	if err := HealthCheck(ctx, c.db); err != nil {
		return err
	}

	for _, table := range migrations.TableNames() {
		var count int64
		if err := c.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			c.log.Error("Table health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
	}

	m := GetMetrics(c.db)
	c.log.Debug("Database connection metrics",
		"open_connections", m.OpenConnections,
		"in_use_connections", m.InUseConnections,
		"idle_connections", m.IdleConnections)
	return nil
}

// Stats reports table and session figures for operators
func (c *Container) Stats(ctx context.Context) ([]TableStats, *ConnectionStats, error) {
	tables, err := GetTableStats(ctx, c.db)
	if err != nil {
		return nil, nil, err
	}
	conns, err := GetConnectionStats(ctx, c.db)
	if err != nil {
		return nil, nil, err
	}
	return tables, conns, nil
}

// Info describes the backend for the health endpoint
func (c *Container) Info() map[string]any {
	return map[string]any{
		"type":     "postgres",
		"database": GetMetrics(c.db),
	}
}

func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container")
	return Close(c.db)
}
