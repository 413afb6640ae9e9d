//go:build linux

package gpio

import (
	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
)

// Receiver watches a receiver data pin and reports every edge.
type Receiver struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewReceiver requests the pin as an input with both-edge event detection
// and delivers each edge's kernel timestamp to fn.
func NewReceiver(chip string, pin int, fn EdgeFunc) (*Receiver, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, errors.Wrap(err, "open gpio chip")
	}

	line, err := c.RequestLine(pin, gpiocdev.AsInput,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			fn(evt.Timestamp)
		}),
	)
	if err != nil {
		c.Close()
		return nil, errors.Wrapf(err, "request data pin %d", pin)
	}

	return &Receiver{chip: c, line: line}, nil
}

// Close releases the pin and the chip.
func (r *Receiver) Close() error {
	if r.line != nil {
		if err := r.line.Close(); err != nil {
			r.chip.Close()
			return errors.Wrap(err, "close data pin")
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			return errors.Wrap(err, "close gpio chip")
		}
	}
	return nil
}
