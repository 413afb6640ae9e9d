package mqtt

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/davidevertuani/OregonBridge/protocol"
)

// BrokerPublisher publishes to an actual MQTT broker.
type BrokerPublisher struct {
	client paho.Client
	topic  string
}

// NewBrokerPublisher connects to the given broker and publishes readings on
// topic.
func NewBrokerPublisher(broker, topic string) (*BrokerPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("oregonbridge").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, errors.New("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, errors.Wrap(err, "connect to broker")
	}

	return &BrokerPublisher{
		client: client,
		topic:  topic,
	}, nil
}

// Publish sends one reading to the broker. QoS 0: a sensor retransmits
// every few tens of seconds, losing one reading is cheaper than queueing.
func (p *BrokerPublisher) Publish(r protocol.Reading) error {
	payload, err := FormatPayload(r)
	if err != nil {
		return errors.Wrap(err, "format payload")
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return errors.New("publish timeout")
	}
	if err := token.Error(); err != nil {
		return errors.Wrap(err, "publish")
	}

	return nil
}

// Close disconnects from the broker.
func (p *BrokerPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
