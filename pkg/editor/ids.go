package editor

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// UUIDSource mints random UUIDs.
type UUIDSource struct{}

func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// SequenceSource mints prefix-1, prefix-2, ... for reproducible runs.
type SequenceSource struct {
	prefix string
	n      atomic.Uint64
}

func NewSequenceSource(prefix string) *SequenceSource {
	return &SequenceSource{prefix: prefix}
}

func (s *SequenceSource) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.n.Add(1))
}
