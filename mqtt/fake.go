package mqtt

import "github.com/davidevertuani/OregonBridge/protocol"

// FakePublisher records published readings, for tests without a broker.
type FakePublisher struct {
	Published []protocol.Reading
	Closed    bool

	// PublishError, if set, is returned by Publish.
	PublishError error
}

func (f *FakePublisher) Publish(r protocol.Reading) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Published = append(f.Published, r)
	return nil
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}
