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

// Package osv2 decodes the Oregon Scientific v2.1 protocol family. The
// transmitter sends every data bit twice, so the classifier commits only
// every other bit it is offered, and packets end with a long trailing sync
// period rather than a fixed bit count.
package osv2

import (
	"github.com/davidevertuani/OregonBridge/checksum"
	"github.com/davidevertuani/OregonBridge/decode"
	"github.com/davidevertuani/OregonBridge/protocol"
)

func init() {
	protocol.Register("v2.1", NewDevice)
}

const (
	// In-band pulse widths in microseconds.
	MinWidth = 200
	MaxWidth = 1200

	// LongWidth separates short from long pulses.
	LongWidth = 700

	// SyncWidth is the minimum RF-off period accepted as the trailing
	// sync marker, valid once MinPacket bytes have accumulated.
	SyncWidth = 2500
	MinPacket = 8

	// PreamblePulses is the minimum run of long pulses before a short
	// pulse is taken as the end of the preamble.
	PreamblePulses = 24
)

// Classifier is the v2.1 pulse-width state machine.
//
// The v2.1 preamble is a run of alternating bits observed here as
// consecutive long pulses. A long pulse in the Ok state is treated as a
// collapsed short+long pair and emits a bit directly; preserve this
// asymmetry as is, changing it alters which real-world waveforms decode.
type Classifier struct {
	decode.Buffer
}

func (c *Classifier) Buf() *decode.Buffer {
	return &c.Buffer
}

// gotBit offers one bit to the buffer. Only every other offered bit is
// committed, de-duplicating the doubled transmission; all offered bits
// still advance the counters and the byte position.
func (c *Classifier) gotBit(value byte) {
	if c.TotalBits&1 == 0 {
		c.Data[c.Pos] = c.Data[c.Pos]>>1 | value<<7
	}
	c.TotalBits++
	c.Pos = c.TotalBits >> 4
	if c.Pos >= decode.BufferSize {
		c.Reset()
		return
	}
	c.State = decode.Ok
}

func (c *Classifier) manchester(value byte) {
	c.Flip ^= value
	c.gotBit(c.Flip)
}

func (c *Classifier) Classify(width int) decode.Outcome {
	switch {
	case MinWidth <= width && width < MaxWidth:
		long := width >= LongWidth

		switch c.State {
		case decode.Unknown:
			switch {
			case long:
				c.Flip++
			case c.Flip >= PreamblePulses:
				// Preamble complete, wait for the sync nibble.
				c.Flip = 0
				c.State = decode.T0
			default:
				return decode.Fail
			}
		case decode.Ok:
			if long {
				c.manchester(1)
			} else {
				c.State = decode.T0
			}
		case decode.T0:
			if long {
				return decode.Fail
			}
			c.manchester(0)
		}
	case width >= SyncWidth && c.Pos >= MinPacket:
		// Trailing sync-off marker.
		return decode.Complete
	default:
		return decode.Fail
	}

	return decode.Again
}

// Device interprets v2.1 packets. The leading two bytes identify the sensor
// model and locate the checksum nibble; temperature, humidity, id, channel
// and battery status follow in fixed nibble positions.
type Device struct {
	Classifier
}

func NewDevice() protocol.Device {
	return new(Device)
}

func (d *Device) NextPulse(width int) bool {
	return decode.NextPulse(&d.Classifier, width)
}

func (d *Device) Decoder() *decode.Buffer {
	return &d.Buffer
}

func (Device) Version() string {
	return "v2.1"
}

// ChecksumPos returns the nibble offset of the checksum for the sensor
// model identified by the leading two bytes, or 0 when the model is
// unknown. The buffer begins with the synthetic 'A' nibble, so positions
// are one greater than layouts that strip it.
func ChecksumPos(data []byte) int {
	switch uint16(data[0])<<8 | uint16(data[1]) {
	case 0xEA4C: // THN132N
		return 16
	case 0x1A2D: // THGR228N
		return 16
	}
	return 0
}

// Model resolves the sensor model name from the leading two bytes.
func (Device) Model(data []byte) string {
	switch uint16(data[0])<<8 | uint16(data[1]) {
	case 0xEA4C:
		return "THN132N"
	case 0x1A2D:
		return "THGR228N"
	}
	return "UNKNOWN"
}

// ValidateChecksum sums all nibbles preceding the checksum position,
// subtracts 0x0A for the synthetic leading nibble, and compares modulo 256.
// When the position is odd the checksum value spans two adjacent nibbles.
func (Device) ValidateChecksum(data []byte) bool {
	pos := ChecksumPos(data)
	if pos == 0 || len(data) <= (pos+1)>>1 {
		return false
	}

	sum := checksum.SumNibbles(data, pos) - 0x0A

	var want byte
	if pos&1 == 1 {
		want = data[(pos+1)>>1]>>4 | (data[pos>>1]&0x0F)<<4
	} else {
		want = data[pos>>1]
	}

	return sum == want
}

// Temperature returns the signed temperature in tenths of a degree from
// nibbles 9 to 11, with the sign in nibble 13:
//
//	1A 2D 20 8B 58 21 40 C7 4C 8C
//	xx xx xx xx cx ab xs xx xx xx -> (s) ab.c = +21.5
func (Device) Temperature(data []byte) float64 {
	sign := 1.0
	if data[6]&0x08 != 0 {
		sign = -1.0
	}
	temp := float64(data[5]>>4)*10 + float64(data[5]&0x0F) + float64(data[4]>>4)/10
	return sign * temp
}

// Humidity returns the relative humidity percentage from nibbles 12 and 15.
func (Device) Humidity(data []byte) int {
	return int(data[7]&0x0F)*10 + int(data[6]>>4)
}

// Battery reports true while the battery level is good.
func (Device) Battery(data []byte) bool {
	return data[4]&0x04 == 0
}

// ID returns the rolling device id.
func (Device) ID(data []byte) byte {
	return data[3]
}

// Channel decodes the one-hot channel nibble to a channel number.
func (Device) Channel(data []byte) int {
	return int(byte(1) << (data[2]>>4 - 1))
}
