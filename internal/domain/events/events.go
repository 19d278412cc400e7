package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published after a write commits.
const (
	TypeAttemptRecorded    = "attempt.recorded"
	TypeLessonCompleted    = "lesson.completed"
	TypeBlockCompleted     = "block.completed"
	TypeAchievementEarned  = "achievement.earned"
	TypeSessionEnded       = "session.ended"
	TypeBlockTestSubmitted = "block_test.submitted"
	TypeUserProvisioned    = "user.provisioned"
	TypePaymentConfirmed   = "payment.confirmed"
)

type Event struct {
	Type   string         `json:"type"`
	UserID uuid.UUID      `json:"user_id"`
	At     time.Time      `json:"at"`
	Data   map[string]any `json:"data,omitempty"`
}

func New(typ string, userID uuid.UUID, at time.Time, data map[string]any) Event {
	return Event{Type: typ, UserID: userID, At: at.UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, evts ...Event) error
}

type Subscriber interface {
	StartForwarder(ctx context.Context, onEvent func(Event)) error
}

// Bus is what the redis client provides.
type Bus interface {
	Publisher
	Subscriber
	Close() error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...Event) error { return nil }

// Nop drops every event.
func Nop() Publisher { return nopPublisher{} }
