package store

import "sync/atomic"

// Sequencer provides monotonically increasing revision numbers.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next revision number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }
