package eventstest

import (
	"context"
	"encoding/json"
	"sync"

	"hotel-rooms/events"
)

var _ events.Publisher = (*Recorder)(nil)

// Recorder is an events.Publisher that keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Recorded
}

type Recorded struct {
	Key  string
	Body json.RawMessage
}

func (r *Recorder) PublishJSON(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Recorded{Key: key, Body: b})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Keys returns the routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		keys = append(keys, e.Key)
	}
	return keys
}
