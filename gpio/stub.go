//go:build !linux

package gpio

import "github.com/pkg/errors"

// Receiver is not available on non-Linux platforms.
type Receiver struct{}

// NewReceiver returns an error on non-Linux platforms: the GPIO character
// device is Linux-only.
func NewReceiver(chip string, pin int, fn EdgeFunc) (*Receiver, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Close is not implemented on non-Linux platforms.
func (r *Receiver) Close() error {
	return nil
}
