package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}

// TraceData holds the correlation ids attached by the trace middleware.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func TraceID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.TraceID
	}
	return ""
}

func RequestID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}

// LogFields returns the correlation ids present on ctx as logger key/value pairs.
func LogFields(ctx context.Context) []interface{} {
	var kv []interface{}
	if id := TraceID(ctx); id != "" {
		kv = append(kv, "trace_id", id)
	}
	if id := RequestID(ctx); id != "" {
		kv = append(kv, "request_id", id)
	}
	if uid := UserID(ctx); uid != uuid.Nil {
		kv = append(kv, "user_id", uid.String())
	}
	return kv
}
