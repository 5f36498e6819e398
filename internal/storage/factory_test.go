package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/amigo-secreto-api/internal/config"
)

func TestValidateStorageType(t *testing.T) {
	st, err := ValidateStorageType("memory")
	require.NoError(t, err)
	assert.Equal(t, StorageTypeMemory, st)

	_, err = ValidateStorageType("redis")
	assert.Error(t, err)
}

func TestCreateMemoryContainer(t *testing.T) {
	c, err := NewFactory(StorageTypeMemory).CreateContainer(&config.Config{})
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "memory", c.Info()["type"])
	assert.NotNil(t, c.Groups())
	assert.NotNil(t, c.Janitor())
}

func TestCreateUnknownContainer(t *testing.T) {
	_, err := NewFactory("redis").CreateContainer(&config.Config{})
	assert.Error(t, err)
}
