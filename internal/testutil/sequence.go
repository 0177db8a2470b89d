package testutil

import "sync/atomic"

// Sequence is a monotonic counter for trace sequence numbers.
// The first call to Next returns 1. Safe for concurrent use.
type Sequence struct {
	n atomic.Int64
}

// NewSequence returns a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next increments the sequence and returns the new value.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the last value handed out, or 0.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}
