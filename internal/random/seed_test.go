package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedVaries(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNewSourceReplaysFixedSeed(t *testing.T) {
	first, seed, err := NewSource(77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), seed)

	second, _, err := NewSource(77)
	require.NoError(t, err)

	for range 10 {
		assert.Equal(t, first.Int63(), second.Int63())
	}
}

func TestNewSourceDrawsSeed(t *testing.T) {
	rng, seed, err := NewSource(0)
	require.NoError(t, err)

	assert.NotNil(t, rng)
	assert.NotZero(t, seed)
}
