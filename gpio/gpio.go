// Package gpio attaches the decoder to an OOK radio receiver's data pin
// through the Linux GPIO character device. Each edge on the pin is reported
// with its kernel timestamp; the caller turns consecutive timestamps into
// pulse widths.
package gpio

import "time"

// Defaults for a bare 433 MHz receiver module wired to a Raspberry Pi.
const (
	DefaultChip = "gpiochip0"
	DefaultPin  = 27
)

// An EdgeFunc is called once per detected signal edge, for either polarity,
// with the event's kernel timestamp. It runs on the event delivery
// goroutine and must not block.
type EdgeFunc func(timestamp time.Duration)

// Fake replays scripted edge timestamps, for tests without hardware.
type Fake struct {
	Edges []time.Duration
}

// Replay delivers every scripted edge to fn in order.
func (f *Fake) Replay(fn EdgeFunc) {
	for _, ts := range f.Edges {
		fn(ts)
	}
}

// Close makes Fake satisfy the same contract as Receiver.
func (f *Fake) Close() error {
	return nil
}
