// Package pulse carries pulse widths from the edge interrupt handler to the
// dispatch loop through a single shared slot.
package pulse

import (
	"sync/atomic"
	"time"
)

// Slot is a single-slot, overwrite-on-write latch. The producer runs at
// interrupt priority and stores one width per signal edge; the consumer
// polls with Take. If a second edge arrives before the previous width is
// taken, the earlier value is overwritten and permanently lost. That drop
// semantic is the contract: the decoder bounds worst-case latency instead
// of worst-case pulse loss, and classifiers recover from a missed pulse the
// same way they recover from noise.
type Slot struct {
	width atomic.Uint32
}

// Put records the most recent pulse width, replacing any untaken value.
func (s *Slot) Put(width int) {
	s.width.Store(uint32(width))
}

// Take atomically removes and returns the pending pulse width. The swap
// makes read-and-clear a single operation with respect to the producer;
// edges stored during the subsequent dispatch simply overwrite each other.
func (s *Slot) Take() (width int, ok bool) {
	w := s.width.Swap(0)
	return int(w), w != 0
}

// Timer converts a stream of edge timestamps into the widths between
// consecutive edges, for either signal polarity.
type Timer struct {
	last time.Duration
}

// Edge records one signal edge at the given timestamp and returns the width
// in microseconds since the previous edge. The first edge after
// construction yields an arbitrarily large width, which every classifier
// rejects as out of band.
func (t *Timer) Edge(timestamp time.Duration) int {
	width := timestamp - t.last
	t.last = timestamp
	return int(width / time.Microsecond)
}
