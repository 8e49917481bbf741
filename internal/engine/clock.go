package engine

import "sync/atomic"

// Sequence numbers engine requests for log correlation.
//
// Thread-safety: Sequence is safe for concurrent use (atomic operations).
type Sequence struct {
	n atomic.Int64
}

// NewSequence creates a sequence whose first Next() is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next request number.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the last issued request number without advancing.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}
