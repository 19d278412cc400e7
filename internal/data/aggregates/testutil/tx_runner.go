package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/lexiprogress-backend/internal/data/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

// Phase names a point in a fake transaction's lifecycle.
type Phase string

const (
	PhaseBegin    Phase = "begin"
	PhaseCommit   Phase = "commit"
	PhaseRollback Phase = "rollback"
)

// InjectedTxRunner is a TxRunner that never touches a database. Failures can
// be injected at begin or commit, and every phase reached is recorded in Log.
// The body runs with a dbctx.Context whose Tx is nil.
type InjectedTxRunner struct {
	FailBegin  error
	FailCommit error

	mu  sync.Mutex
	Log []Phase
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.record(PhaseBegin)
	if r.FailBegin != nil {
		return r.FailBegin
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.record(PhaseRollback)
			return err
		}
	}
	if r.FailCommit != nil {
		r.record(PhaseRollback)
		return r.FailCommit
	}
	r.record(PhaseCommit)
	return nil
}

// Count reports how many times phase was reached.
func (r *InjectedTxRunner) Count(phase Phase) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.Log {
		if p == phase {
			n++
		}
	}
	return n
}

func (r *InjectedTxRunner) record(p Phase) {
	r.mu.Lock()
	r.Log = append(r.Log, p)
	r.mu.Unlock()
}
