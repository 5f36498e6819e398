package storage

import (
	"context"
	"fmt"

	"github.com/gravadigital/amigo-secreto-api/internal/config"
	"github.com/gravadigital/amigo-secreto-api/internal/domain/group"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/memory"
	"github.com/gravadigital/amigo-secreto-api/internal/storage/postgres"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypePostgres represents PostgreSQL storage
	StorageTypePostgres StorageType = "postgres"
	// StorageTypeMemory keeps groups in process; they are lost on restart
	StorageTypeMemory StorageType = "memory"
)

// Container is what the application needs from a storage backend
type Container interface {
	Groups() group.Repository
	Janitor() group.Janitor
	Health(ctx context.Context) error
	Info() map[string]any
	Close() error
}

// Factory provides a factory pattern for creating storage containers
type Factory struct {
	storageType StorageType
}

// NewFactory creates a new storage factory
func NewFactory(storageType StorageType) *Factory {
	return &Factory{storageType: storageType}
}

// CreateContainer creates a storage container based on the configured type
func (f *Factory) CreateContainer(cfg *config.Config) (Container, error) {
	switch f.storageType {
	case StorageTypePostgres:
		return postgres.NewContainer(cfg)
	case StorageTypeMemory:
		return memory.NewContainer(), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}

// GetSupportedTypes returns a list of supported storage types
func GetSupportedTypes() []StorageType {
	return []StorageType{StorageTypePostgres, StorageTypeMemory}
}

// ValidateStorageType validates if a storage type is supported
func ValidateStorageType(storageType string) (StorageType, error) {
	st := StorageType(storageType)
	for _, supported := range GetSupportedTypes() {
		if st == supported {
			return st, nil
		}
	}
	return "", fmt.Errorf("unsupported storage type: %s. Supported types: %v", storageType, GetSupportedTypes())
}
