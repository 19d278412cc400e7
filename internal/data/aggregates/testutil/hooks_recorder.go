package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/lexiprogress-backend/internal/data/aggregates"
)

// HooksRecorder captures aggregate hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations   []OperationEvent
	Conflicts    []string
	Retries      []string
	Attempts     []bool
	Achievements []string
	BlockTests   []bool
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{
		Name:     name,
		Status:   status,
		Duration: dur,
	})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

func (h *HooksRecorder) IncAttempt(correct bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Attempts = append(h.Attempts, correct)
}

func (h *HooksRecorder) IncAchievementAwarded(achievementType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Achievements = append(h.Achievements, achievementType)
}

func (h *HooksRecorder) IncBlockTestSubmitted(passed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.BlockTests = append(h.BlockTests, passed)
}

// OperationStatuses returns the recorded statuses for name, oldest first.
func (h *HooksRecorder) OperationStatuses(name string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, op := range h.Operations {
		if op.Name == name {
			out = append(out, op.Status)
		}
	}
	return out
}
