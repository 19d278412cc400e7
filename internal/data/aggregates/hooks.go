package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/lexiprogress-backend/internal/observability"
)

// Hooks receives aggregate outcomes. Operation-level calls fire for every
// write; the domain counters fire only after a commit.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)

	IncAttempt(correct bool)
	IncAchievementAwarded(achievementType string)
	IncBlockTestSubmitted(passed bool)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) IncAttempt(bool)                                {}
func (noopHooks) IncAchievementAwarded(string)                   {}
func (noopHooks) IncBlockTestSubmitted(bool)                     {}

// metricsHooks forwards to a non-nil registry.
type metricsHooks struct {
	m *observability.Metrics
}

// NewObservabilityHooks returns hooks that record into metrics, or no-op
// hooks when metrics are disabled.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{m: metrics}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h metricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(strings.TrimSpace(name)) }
func (h metricsHooks) IncRetry(name string)    { h.m.IncAggregateRetry(strings.TrimSpace(name)) }
func (h metricsHooks) IncAttempt(correct bool) { h.m.IncAttempt(correct) }

func (h metricsHooks) IncAchievementAwarded(achievementType string) {
	h.m.IncAchievementAwarded(strings.TrimSpace(achievementType))
}

func (h metricsHooks) IncBlockTestSubmitted(passed bool) { h.m.IncBlockTestSubmitted(passed) }
