package engine

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// Chooser picks one of n tied candidates
type Chooser interface {
	Intn(n int) int
}

type frandChooser struct{}

func (frandChooser) Intn(n int) int {
	return frand.Intn(n)
}

// Chooser backed by the process-wide cryptographic generator
func DefaultChooser() Chooser {
	return frandChooser{}
}

// Reproducible chooser, not safe for concurrent use
func SeededChooser(seed uint64) Chooser {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}
