package events

import (
	"context"
	"encoding/json"
)

// Bus is a byte-oriented broadcast channel such as Redis pub/sub.
type Bus interface {
	Publish(ctx context.Context, payload []byte) error
	Subscribe(ctx context.Context, handle func([]byte)) error
}

// BusPublisher serializes events onto a Bus.
type BusPublisher struct {
	bus Bus
}

// NewBusPublisher creates a publisher over bus.
func NewBusPublisher(bus Bus) *BusPublisher {
	return &BusPublisher{bus: bus}
}

// Publish marshals event and sends it on the bus.
func (p *BusPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.bus.Publish(ctx, payload)
}

// Relay decodes bus messages and hands them to sink until ctx ends.
// Messages that fail to decode are dropped.
func Relay(ctx context.Context, bus Bus, sink Publisher) error {
	return bus.Subscribe(ctx, func(payload []byte) {
		var event Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return
		}
		_ = sink.Publish(ctx, event)
	})
}
