// OregonBridge - A GPIO receiver and decoder for Oregon Scientific weather sensors.
// Copyright (C) 2026 Davide Vertuani
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package decode implements the protocol-agnostic half of Oregon Scientific
// OOK reception: a fixed-capacity bit buffer fed one Manchester-decoded bit
// at a time, and the driver that steps a protocol-specific pulse classifier
// over an incoming stream of pulse widths.
package decode

// BufferSize is the packet buffer capacity in bytes. The longest payload
// produced by any supported sensor family fits with room to spare.
const BufferSize = 24

// State enumerates the positions of a classifier's pulse state machine.
// Unknown is the initial and post-reset state, Done is terminal until the
// buffer is explicitly reset. The T* states are protocol-specific waypoints
// between preamble detection and bit accumulation.
type State byte

const (
	Unknown State = iota
	T0
	T1
	T2
	T3
	Ok
	Done
)

// Outcome reports the effect of classifying a single pulse.
type Outcome int

const (
	// Fail indicates a timing violation, the decoder must be reset.
	Fail Outcome = iota - 1
	// Again indicates more pulses are needed.
	Again
	// Complete indicates a full packet has been accumulated.
	Complete
)

// Buffer accumulates decoded bits into packet bytes. Bits are shifted in
// from the high end of the current byte, so the first bit received within a
// byte ends up as its least significant bit. Field extraction and checksum
// arithmetic in the device packages depend on this exact packing order.
type Buffer struct {
	Data      [BufferSize]byte
	TotalBits int
	Bits      int
	Pos       int

	// Flip doubles as the Manchester parity accumulator while bits are
	// being received and as the preamble pulse counter before that.
	Flip byte

	State State
}

// Reset returns the buffer to its just-constructed state: empty data,
// zeroed counters, state Unknown.
func (b *Buffer) Reset() {
	b.Data = [BufferSize]byte{}
	b.TotalBits = 0
	b.Bits = 0
	b.Pos = 0
	b.Flip = 0
	b.State = Unknown
}

// GotBit appends one bit to the packet buffer. Overrunning the buffer
// discards the packet entirely and resets to Unknown.
func (b *Buffer) GotBit(value byte) {
	b.TotalBits++
	b.Data[b.Pos] = b.Data[b.Pos]>>1 | value<<7

	if b.Bits++; b.Bits >= 8 {
		b.Bits = 0
		if b.Pos++; b.Pos >= BufferSize {
			b.Reset()
			return
		}
	}
	b.State = Ok
}

// Manchester appends one bit using the Manchester decode rule: a long pulse
// (value 1) flips the accumulated bit, a repeated short pair (value 0)
// repeats it.
func (b *Buffer) Manchester(value byte) {
	b.Flip ^= value
	b.GotBit(b.Flip)
}

// AlignTail shifts all accumulated bits down so the tail is byte-aligned
// when the final byte is only partially filled. If max is non-zero and more
// than max bytes have accumulated, the oldest bytes are discarded. Not used
// by the v1/v2.1 classifiers, but required by families that trail partial
// bytes.
func (b *Buffer) AlignTail(max int) {
	if b.Bits != 0 {
		b.Data[b.Pos] >>= 8 - b.Bits
		for i := 0; i < b.Pos; i++ {
			b.Data[i] = b.Data[i]>>b.Bits | b.Data[i+1]<<(8-b.Bits)
		}
		b.Bits = 0
	}

	if max > 0 && b.Pos > max {
		n := b.Pos - max
		b.Pos = max
		for i := 0; i < b.Pos; i++ {
			b.Data[i] = b.Data[i+n]
		}
	}
}

// ReverseBits reverses the bit order within each filled byte.
func (b *Buffer) ReverseBits() {
	for i := 0; i < b.Pos; i++ {
		v := b.Data[i]
		for j := 0; j < 8; j++ {
			b.Data[i] = b.Data[i]<<1 | v&1
			v >>= 1
		}
	}
}

// ReverseNibbles swaps the nibbles of each filled byte.
func (b *Buffer) ReverseNibbles() {
	for i := 0; i < b.Pos; i++ {
		b.Data[i] = b.Data[i]<<4 | b.Data[i]>>4
	}
}

// Finish pads out any partially filled byte with zero bits and marks the
// buffer complete.
func (b *Buffer) Finish() {
	for b.Bits != 0 {
		b.GotBit(0)
	}
	b.State = Done
}

// Bytes returns the filled portion of the packet buffer. The returned slice
// aliases the buffer and is only valid until the next Reset.
func (b *Buffer) Bytes() []byte {
	return b.Data[:b.Pos]
}

// A Classifier consumes one pulse width at a time, driving its embedded
// Buffer according to the timing envelope of one protocol family.
type Classifier interface {
	// Classify advances the state machine by one pulse of the given
	// width in microseconds.
	Classify(width int) Outcome

	// Buf exposes the buffer the classifier accumulates into.
	Buf() *Buffer
}

// NextPulse feeds a single pulse width to the classifier and reports
// whether a complete packet is buffered. A timing violation resets the
// classifier silently; decoding resumes with the next plausible preamble.
func NextPulse(c Classifier, width int) bool {
	buf := c.Buf()
	if buf.State != Done {
		switch c.Classify(width) {
		case Fail:
			buf.Reset()
		case Complete:
			buf.Finish()
		}
	}
	return buf.State == Done
}
