// Package protocol defines the device model interface shared by the Oregon
// Scientific protocol families, the registry they install themselves into,
// and the dispatcher that feeds a pulse stream to every registered device.
package protocol

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/davidevertuani/OregonBridge/decode"
)

const (
	TimeFormat = "2006-01-02T15:04:05.000"
)

var (
	deviceMutex sync.Mutex
	devices     = make(map[string]NewDeviceFunc)
)

type NewDeviceFunc func() Device

// Register makes a device model available by protocol version name. Device
// packages call this from init and are pulled in with underscore imports:
//
//	import _ "github.com/davidevertuani/OregonBridge/osv2"
func Register(name string, deviceFn NewDeviceFunc) {
	deviceMutex.Lock()
	defer deviceMutex.Unlock()

	if deviceFn == nil {
		panic("protocol: new device func is nil")
	}
	if _, dup := devices[name]; dup {
		panic(fmt.Sprintf("protocol: device already registered (%s)", name))
	}
	devices[name] = deviceFn
}

// New looks up a registered device model by name and constructs it.
func New(name string) (Device, error) {
	deviceMutex.Lock()
	defer deviceMutex.Unlock()

	if deviceFn, exists := devices[name]; exists {
		return deviceFn(), nil
	}
	return nil, fmt.Errorf("invalid device type: %q", name)
}

// Versions lists the registered protocol version names.
func Versions() (names []string) {
	deviceMutex.Lock()
	defer deviceMutex.Unlock()

	for name := range devices {
		names = append(names, name)
	}
	return
}

// A Device wraps one pulse classifier and interprets the packets it
// produces. Field extractors assume the packet has already passed
// ValidateChecksum; their behavior on unvalidated or short packets is
// undefined.
type Device interface {
	// NextPulse feeds one pulse width in microseconds to the device's
	// classifier and reports whether a complete packet is buffered.
	NextPulse(width int) bool

	// Decoder exposes the classifier's bit buffer.
	Decoder() *decode.Buffer

	// ValidateChecksum reports whether the packet's checksum matches.
	ValidateChecksum(data []byte) bool

	Version() string
	Model(data []byte) string
	ID(data []byte) byte
	Channel(data []byte) int
	Battery(data []byte) bool
	Temperature(data []byte) float64
	Humidity(data []byte) int
}

// A Reading is one validated sensor measurement. It is never mutated after
// construction; ownership passes to the handler.
type Reading struct {
	Time        time.Time
	Version     string
	Model       string
	ID          uint8
	Channel     int
	Temperature float64
	Humidity    int
	Battery     bool
}

// NewReading extracts all fields of a validated packet.
func NewReading(d Device, data []byte) (r Reading) {
	r.Time = time.Now()
	r.Version = d.Version()
	r.Model = d.Model(data)
	r.ID = d.ID(data)
	r.Channel = d.Channel(data)
	r.Battery = d.Battery(data)
	r.Temperature = d.Temperature(data)
	r.Humidity = d.Humidity(data)

	return
}

func (r Reading) String() string {
	battery := "low"
	if r.Battery {
		battery = "good"
	}

	return fmt.Sprintf("{Time:%s Version:%s Model:%s ID:%d Channel:%d Temperature:%.1f Humidity:%d Battery:%s}",
		r.Time.Format(TimeFormat), r.Version, r.Model, r.ID, r.Channel, r.Temperature, r.Humidity, battery,
	)
}

func (r Reading) Record() (rec []string) {
	rec = append(rec, r.Time.Format(time.RFC3339Nano))
	rec = append(rec, r.Version)
	rec = append(rec, r.Model)
	rec = append(rec, strconv.FormatUint(uint64(r.ID), 10))
	rec = append(rec, strconv.FormatInt(int64(r.Channel), 10))
	rec = append(rec, strconv.FormatFloat(r.Temperature, 'f', 1, 64))
	rec = append(rec, strconv.FormatInt(int64(r.Humidity), 10))
	rec = append(rec, strconv.FormatBool(r.Battery))

	return
}
