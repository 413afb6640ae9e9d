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
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/davidevertuani/OregonBridge/csv"
	"github.com/davidevertuani/OregonBridge/gpio"
	"github.com/davidevertuani/OregonBridge/mqtt"
)

var configPath = flag.String("config", "", "TOML config file, explicitly set flags take precedence")

var msgType = flag.String("msgtype", "all", "comma-separated protocol families to decode: all, v1, v2.1")

var format = flag.String("format", "plain", "decoded reading output format: plain, csv or json")

var gpioChip = flag.String("gpiochip", gpio.DefaultChip, "GPIO character device the receiver data pin is wired to")
var gpioPin = flag.Int("gpiopin", gpio.DefaultPin, "GPIO pin number of the receiver data line")

var broker = flag.String("broker", "", "MQTT broker to republish readings to, ex. tcp://127.0.0.1:1883 (empty to disable)")
var topic = flag.String("topic", mqtt.DefaultTopic, "MQTT topic readings are published under")

var verbose = flag.Bool("verbose", false, "enable debug logging, including raw packet hex dumps")

// JSON and CSV encoders both implement this interface so decoded reading
// output formatting stays uniform.
type Encoder interface {
	Encode(interface{}) error
}

var encoder Encoder = PlainEncoder{}

// PlainEncoder prints each reading's String form to stdout.
type PlainEncoder struct{}

func (PlainEncoder) Encode(v interface{}) error {
	_, err := fmt.Println(v)
	return err
}

// EnvOverride applies OREGON_-prefixed environment variables to their
// matching flags. Values set this way count as explicitly set.
func EnvOverride() {
	flag.VisitAll(func(f *flag.Flag) {
		envName := "OREGON_" + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue == "" {
			return
		}
		if err := flag.Set(f.Name, flagValue); err != nil {
			log.Printf(
				"Environment variable %q failed to override flag %q with value %q: %q\n",
				envName, f.Name, flagValue, err,
			)
		} else {
			log.Printf("Environment variable %q overrides flag %q with %q\n", envName, f.Name, flagValue)
		}
	})
}

func HandleFlags() {
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	*format = strings.ToLower(*format)
	switch *format {
	case "plain":
		encoder = PlainEncoder{}
	case "csv":
		encoder = csv.NewEncoder(os.Stdout)
	case "json":
		encoder = json.NewEncoder(os.Stdout)
	default:
		log.Fatalf("invalid format: %q", *format)
	}
}
