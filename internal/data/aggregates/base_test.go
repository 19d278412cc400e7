package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/lexiprogress-backend/internal/domain/events"

	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

func TestExecuteWriteReportsOutcomeToHooks(t *testing.T) {
	cases := []struct {
		name      string
		body      error
		wantCode  domainagg.ErrorCode
		status    string
		conflicts int
		retries   int
	}{
		{name: "success", status: "success"},
		{name: "invariant", body: InvariantError("lesson without block"), wantCode: domainagg.CodeInvariantViolation, status: string(domainagg.CodeInvariantViolation)},
		{name: "conflict", body: ConflictError("stale version"), wantCode: domainagg.CodeConflict, status: string(domainagg.CodeConflict), conflicts: 1},
		{name: "retryable", body: RetryableError("lock timeout"), wantCode: domainagg.CodeRetryable, status: string(domainagg.CodeRetryable), retries: 1},
		{name: "not found", body: NotFoundError("word", uuid.Nil), wantCode: domainagg.CodeNotFound, status: string(domainagg.CodeNotFound)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			op := "aggregate.test." + tc.name
			err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner, Hooks: hooks}, op, func(_ dbctx.Context) error {
				return tc.body
			})
			if tc.body == nil {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
			} else if !domainagg.IsCode(err, tc.wantCode) {
				t.Fatalf("code: want=%s got=%v", tc.wantCode, err)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Name != op || hooks.Operations[0].Status != tc.status {
				t.Fatalf("operations: %+v", hooks.Operations)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("counters: conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
			}
		})
	}
}

func TestExecuteWriteDefaultsBlankOpName(t *testing.T) {
	hooks := &spyHooks{}
	if err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner, Hooks: hooks}, "  ", func(dbctx.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if hooks.Operations[0].Name != "aggregate.write" {
		t.Fatalf("op name: got=%s", hooks.Operations[0].Name)
	}
}

func TestGormTxRunnerWithoutDB(t *testing.T) {
	r := NewGormTxRunner(nil)
	if err := r.InTx(context.Background(), nil); err != nil {
		t.Fatalf("nil body should be a no-op, got %v", err)
	}
	err := r.InTx(context.Background(), func(dbctx.Context) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("want internal error, got %v", err)
	}
}

func TestAggregateErrorStatus(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := aggregateErrorStatus(InvariantError("x")); got != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("invariant status: got=%s", got)
	}
	if got := aggregateErrorStatus(ConflictError("x")); got != string(domainagg.CodeConflict) {
		t.Fatalf("conflict status: got=%s", got)
	}
	if got := aggregateErrorStatus(RetryableError("x")); got != string(domainagg.CodeRetryable) {
		t.Fatalf("retry status: got=%s", got)
	}
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodeRetryable) {
		t.Fatalf("deadline status: got=%s", got)
	}
}

var spyTxRunner = TxRunnerFunc(func(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
})

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.Retries = append(h.Retries, name)
}

func (h *spyHooks) IncAttempt(bool)              {}
func (h *spyHooks) IncAchievementAwarded(string) {}
func (h *spyHooks) IncBlockTestSubmitted(bool)   {}

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, ...events.Event) error {
	p.calls++
	return errors.New("redis down")
}

func TestPublishAfterCommitSwallowsPublisherErrors(t *testing.T) {
	pub := &failingPublisher{}
	publishAfterCommit(context.Background(), BaseDeps{Events: pub}, "aggregate.test.publish", []events.Event{
		events.New(events.TypeAttemptRecorded, uuid.New(), time.Now(), nil),
	})
	if pub.calls != 1 {
		t.Fatalf("publish calls: want=1 got=%d", pub.calls)
	}

	publishAfterCommit(context.Background(), BaseDeps{Events: pub}, "aggregate.test.publish", nil)
	if pub.calls != 1 {
		t.Fatalf("empty batch should not publish, calls=%d", pub.calls)
	}
}

func TestBaseDepsNowPrefersExplicitInstant(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	deps := BaseDeps{Now: func() time.Time { return fixed }}.withDefaults()
	if got := deps.now(time.Time{}); !got.Equal(fixed) {
		t.Fatalf("default now: got=%s", got)
	}
	at := fixed.Add(time.Hour)
	if got := deps.now(at); !got.Equal(at) {
		t.Fatalf("explicit now: got=%s", got)
	}
}
