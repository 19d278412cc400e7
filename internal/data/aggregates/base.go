package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/yungbote/lexiprogress-backend/internal/domain/events"
	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
	"github.com/yungbote/lexiprogress-backend/internal/platform/logger"
)

var tracer = otel.Tracer("lexiprogress/aggregates")

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Events   events.Publisher
	Now      func() time.Time
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Events == nil {
		d.Events = events.Nop()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d BaseDeps) now(at time.Time) time.Time {
	if !at.IsZero() {
		return at.UTC()
	}
	return d.Now().UTC()
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}

	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeInternal) {
			span.RecordError(mapped)
			span.SetStatus(codes.Error, status)
			deps.Log.Error("aggregate write failed", "op", op, "error", mapped)
		}
	}
	span.SetAttributes(attribute.String("aggregate.status", status))
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

// publishAfterCommit hands committed events to the publisher. Delivery
// failures are logged; the write has already succeeded.
func publishAfterCommit(ctx context.Context, deps BaseDeps, op string, evts []events.Event) {
	deps = deps.withDefaults()
	if len(evts) == 0 {
		return
	}
	if err := deps.Events.Publish(ctx, evts...); err != nil {
		deps.Log.Warn("event publish failed", "op", op, "events", len(evts), "error", err)
	}
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
