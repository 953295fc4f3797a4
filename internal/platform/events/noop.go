package events

import (
	"context"
	"sync"
)

// NoopPublisher is used when NATS is not configured.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}

// Published is one event captured by a RecordingPublisher.
type Published struct {
	Topic string
	Event any
}

// RecordingPublisher keeps published events in memory. Tests use it to
// assert on what a service emitted.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (r *RecordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{Topic: topic, Event: event})
	return nil
}

func (r *RecordingPublisher) Close() error {
	return nil
}

// Events returns a copy of everything published so far.
func (r *RecordingPublisher) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns the topics published so far, in order.
func (r *RecordingPublisher) Topics() []string {
	var topics []string
	for _, e := range r.Events() {
		topics = append(topics, e.Topic)
	}
	return topics
}
