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

package protocol

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// A HandlerFunc receives each validated reading together with a view of the
// raw packet it was extracted from. It is invoked synchronously, at most
// once per validated packet, and never for packets failing their checksum.
type HandlerFunc func(Reading, []byte)

// Dispatcher feeds a shared pulse stream to an ordered set of device
// models. All registered devices run their state machines against the same
// pulses; a given waveform only matches one family's timing envelope.
type Dispatcher struct {
	devices []Device
	handler HandlerFunc
}

func NewDispatcher(handler HandlerFunc, devices ...Device) *Dispatcher {
	return &Dispatcher{
		devices: devices,
		handler: handler,
	}
}

// Register appends a device to the dispatch set.
func (d *Dispatcher) Register(dev Device) {
	d.devices = append(d.devices, dev)
}

// Next feeds one pulse width to every registered device. When a device
// completes a packet its buffer is copied out and reset before validation,
// so the classifier always starts the next packet fresh regardless of
// checksum outcome. Checksum failures are discarded silently; absence of a
// handler call is the only signal.
func (d *Dispatcher) Next(width int) {
	for _, dev := range d.devices {
		if !dev.NextPulse(width) {
			continue
		}

		buf := dev.Decoder()
		data := append([]byte(nil), buf.Bytes()...)
		buf.Reset()

		if !dev.ValidateChecksum(data) {
			log.WithFields(log.Fields{
				"version": dev.Version(),
				"data":    fmt.Sprintf("%02X", data),
			}).Debug("checksum mismatch")
			continue
		}

		reading := NewReading(dev, data)

		log.WithFields(log.Fields{
			"version": dev.Version(),
			"model":   reading.Model,
			"data":    fmt.Sprintf("%02X", data),
		}).Debug("packet validated")

		if d.handler != nil {
			d.handler(reading, data)
		}
	}
}
