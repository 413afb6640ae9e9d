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

package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/davidevertuani/OregonBridge/gpio"
	"github.com/davidevertuani/OregonBridge/mqtt"
	"github.com/davidevertuani/OregonBridge/protocol"
	"github.com/davidevertuani/OregonBridge/pulse"

	_ "github.com/davidevertuani/OregonBridge/osv1"
	_ "github.com/davidevertuani/OregonBridge/osv2"
)

var rcvr Receiver

type Receiver struct {
	slot  pulse.Slot
	timer pulse.Timer
	kick  chan struct{}

	d   *protocol.Dispatcher
	pin *gpio.Receiver
	pub mqtt.Publisher
}

func (rcvr *Receiver) NewReceiver() {
	rcvr.kick = make(chan struct{}, 1)
	rcvr.d = protocol.NewDispatcher(rcvr.handle)

	// If the msgtype "all" is given alone, register every known family.
	types := make(map[string]bool)
	for _, name := range strings.Split(*msgType, ",") {
		types[strings.TrimSpace(name)] = true
	}
	if _, all := types["all"]; all && len(types) == 1 {
		delete(types, "all")
		types["v1"] = true
		types["v2.1"] = true
	}

	for name := range types {
		dev, err := protocol.New(name)
		if err != nil {
			log.Fatal(err)
		}
		rcvr.d.Register(dev)
	}

	if *broker != "" {
		pub, err := mqtt.NewBrokerPublisher(*broker, *topic)
		if err != nil {
			log.WithError(err).Fatal("connect to broker")
		}
		rcvr.pub = pub
	}

	pin, err := gpio.NewReceiver(*gpioChip, *gpioPin, rcvr.edge)
	if err != nil {
		log.WithError(err).Fatal("attach to receiver pin")
	}
	rcvr.pin = pin

	log.WithFields(log.Fields{
		"chip":      *gpioChip,
		"pin":       *gpioPin,
		"protocols": strings.Join(protocol.Versions(), ","),
	}).Info("listening")
}

// edge runs on the gpio event goroutine at delivery priority. The slot
// keeps only the most recent pulse width; edges arriving while a dispatch
// cycle is in flight overwrite each other rather than queue. The kick is
// dropped when the loop is already scheduled.
func (rcvr *Receiver) edge(timestamp time.Duration) {
	rcvr.slot.Put(rcvr.timer.Edge(timestamp))
	select {
	case rcvr.kick <- struct{}{}:
	default:
	}
}

// drain consumes pending pulse widths one at a time until the slot is
// empty. Each width runs a full dispatch cycle before the next take, so
// a classifier never sees two widths from the same drain interleaved.
func (rcvr *Receiver) drain() {
	for {
		width, ok := rcvr.slot.Take()
		if !ok {
			return
		}
		rcvr.d.Next(width)
	}
}

func (rcvr *Receiver) handle(r protocol.Reading, data []byte) {
	log.WithFields(log.Fields{
		"model":   r.Model,
		"id":      r.ID,
		"channel": r.Channel,
	}).Info("reading")

	if err := encoder.Encode(r); err != nil {
		log.WithError(err).Error("encode reading")
	}

	if rcvr.pub != nil {
		if err := rcvr.pub.Publish(r); err != nil {
			log.WithError(err).Error("publish reading")
		}
	}
}

func (rcvr *Receiver) Run() {
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigint:
			return
		case <-rcvr.kick:
			rcvr.drain()
		}
	}
}

func (rcvr *Receiver) Close() {
	if rcvr.pin != nil {
		rcvr.pin.Close()
	}
	if rcvr.pub != nil {
		rcvr.pub.Close()
	}
}

func main() {
	flag.Parse()
	EnvOverride()

	if *configPath != "" {
		cfg, err := LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		applyConfig(cfg)
	}

	HandleFlags()

	rcvr.NewReceiver()
	defer rcvr.Close()

	rcvr.Run()
}
