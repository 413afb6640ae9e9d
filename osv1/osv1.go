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

// Package osv1 decodes the legacy Oregon Scientific v1 protocol family:
// fixed 32-bit packets preceded by a short-pulse preamble and a pair of
// millisecond-scale calibration pulses.
package osv1

import (
	"github.com/davidevertuani/OregonBridge/checksum"
	"github.com/davidevertuani/OregonBridge/decode"
	"github.com/davidevertuani/OregonBridge/protocol"
)

func init() {
	protocol.Register("v1", NewDevice)
}

const (
	// PacketBits is the fixed packet length; accumulating this many bits
	// completes the decode.
	PacketBits = 32

	// In-band pulse widths in microseconds. Anything outside fails.
	MinWidth = 900
	MaxWidth = 7000

	// LongWidth separates short from long pulses.
	LongWidth = 2300

	// PreamblePulses is the minimum run of short pulses before the long
	// start bit is accepted.
	PreamblePulses = 22
)

// Classifier is the v1 pulse-width state machine.
//
// After the preamble and start bit, the transmitter sends an RF-on
// calibration pulse of roughly 5.7 ms (T1) followed by an RF-off period
// (T2) whose length encodes the first data bit: about 5.2 ms when the first
// bit is 1, about 6.6 ms when it is 0, since a leading zero produces no
// early transition.
type Classifier struct {
	decode.Buffer
}

func (c *Classifier) Buf() *decode.Buffer {
	return &c.Buffer
}

func (c *Classifier) Classify(width int) decode.Outcome {
	if width < MinWidth || width > MaxWidth {
		return decode.Fail
	}
	long := width >= LongWidth

	switch c.State {
	case decode.Unknown:
		switch {
		case !long:
			c.Flip++
		case c.Flip >= PreamblePulses:
			// Start bit.
			c.Flip = 0
			c.State = decode.T1
		default:
			return decode.Fail
		}
	case decode.Ok:
		if long {
			c.Manchester(1)
		} else {
			c.State = decode.T0
		}
	case decode.T0:
		if long {
			return decode.Fail
		}
		c.Manchester(0)
	case decode.T1:
		// RF-on calibration pulse.
		if width < 5550 || width > 6000 {
			return decode.Fail
		}
		c.State = decode.T2
	case decode.T2:
		// RF-off period, length determines the first data bit.
		switch {
		case 4800 <= width && width <= 5400:
			c.Flip = 1
			c.State = decode.T0
		case 6480 <= width && width <= 6880:
			c.GotBit(0)
		default:
			return decode.Fail
		}
	}

	if c.TotalBits >= PacketBits {
		return decode.Complete
	}
	return decode.Again
}

// Device interprets v1 packets: 4 bytes carrying channel, rolling id,
// temperature, flags and a byte-sum checksum.
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
	return "v1"
}

// Model returns a fixed label: v1 packets carry no model identifier.
func (Device) Model(data []byte) string {
	return "Generic OS v1"
}

// ValidateChecksum sums the first three bytes modulo 256 and compares
// against the fourth.
func (Device) ValidateChecksum(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return checksum.SumBytes(data[:3]) == data[3]
}

// Temperature returns the signed temperature in tenths of a degree.
// Nibbles 3 to 5 hold the BCD digits, the sign sits in the flags nibble:
//
//	44 53 02 99
//	xx bc sa xx -> (s) ab.c = +25.3
func (Device) Temperature(data []byte) float64 {
	sign := 1.0
	if data[2]&0x20 != 0 {
		sign = -1.0
	}
	temp := float64(data[2]&0x0F)*10 + float64(data[1]>>4) + float64(data[1]&0x0F)/10
	return sign * temp
}

// Humidity always returns 0: v1 sensors do not report humidity.
func (Device) Humidity(data []byte) int {
	return 0
}

// Battery reports true while the battery level is good.
func (Device) Battery(data []byte) bool {
	return data[2]&0x80 == 0
}

// ID returns the rolling device id from the second nibble.
func (Device) ID(data []byte) byte {
	return data[0] & 0x0F
}

// Channel maps the first nibble to a channel number. v1 sensors report
// channel 1 as either 0x0 or 0x2.
func (Device) Channel(data []byte) int {
	switch data[0] >> 4 {
	case 0x0, 0x2:
		return 1
	case 0x4:
		return 2
	case 0x8:
		return 3
	}
	return 0
}
