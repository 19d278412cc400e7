package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
)

// EventRecorder is an in-memory events.Publisher.
type EventRecorder struct {
	mu     sync.Mutex
	Events []events.Event
	Err    error
}

var _ events.Publisher = (*EventRecorder)(nil)

func (r *EventRecorder) Publish(_ context.Context, evts ...events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, evts...)
	return nil
}

// Types lists recorded event types in publish order.
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}

func (r *EventRecorder) Count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}
