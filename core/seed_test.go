package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeed(t *testing.T) {
	seen := make(map[uint64]struct{})
	for range 64 {
		seed, err := NewSeed()
		require.NoError(t, err)
		assert.LessOrEqual(t, seed, uint64(math.MaxInt64))
		seen[seed] = struct{}{}
	}
	assert.Greater(t, len(seen), 60, "crypto seeds should practically never repeat")
}
