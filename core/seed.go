package core

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
)

// NewSeed generates a random seed using crypto/rand.
// The seed fits in 63 bits so it round-trips through signed database columns.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]) & math.MaxInt64, nil
}
