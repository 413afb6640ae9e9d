// Package mqtt republishes validated sensor readings to an MQTT broker.
// The decode path never depends on this package; it is one possible handler
// wired up by the receiver.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/davidevertuani/OregonBridge/protocol"
)

// DefaultTopic is the topic readings are published under.
const DefaultTopic = "sensors/oregon/readings"

// Publisher publishes readings to a broker.
type Publisher interface {
	// Publish sends one reading. Failures must not crash the receive
	// loop; the reading is simply lost.
	Publish(r protocol.Reading) error

	// Close disconnects from the broker.
	Close() error
}

// Payload is the JSON message structure.
type Payload struct {
	Sensor SensorPayload `json:"sensor"`
}

// SensorPayload carries one reading.
type SensorPayload struct {
	Timestamp   string  `json:"timestamp"`
	Version     string  `json:"version"`
	Model       string  `json:"model"`
	ID          uint8   `json:"id"`
	Channel     int     `json:"channel"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity,omitempty"`
	Battery     string  `json:"battery"`
}

// FormatPayload creates the JSON payload for a reading.
func FormatPayload(r protocol.Reading) ([]byte, error) {
	battery := "low"
	if r.Battery {
		battery = "good"
	}

	payload := Payload{
		Sensor: SensorPayload{
			Timestamp:   r.Time.UTC().Format(time.RFC3339),
			Version:     r.Version,
			Model:       r.Model,
			ID:          r.ID,
			Channel:     r.Channel,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			Battery:     battery,
		},
	}
	return json.Marshal(payload)
}
