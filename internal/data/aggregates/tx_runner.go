package aggregates

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/lexiprogress-backend/internal/platform/dbctx"
)

// TxRunner is the transaction boundary every aggregate write goes through.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// TxRunnerFunc adapts a plain function to TxRunner.
type TxRunnerFunc func(ctx context.Context, fn func(dbc dbctx.Context) error) error

func (f TxRunnerFunc) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return f(ctx, fn)
}

type TxOption func(*gormTxRunner)

// WithIsolation requests a specific isolation level for every transaction.
// Leave unset for sqlite, which only accepts the default.
func WithIsolation(level sql.IsolationLevel) TxOption {
	return func(r *gormTxRunner) { r.opts = &sql.TxOptions{Isolation: level} }
}

type gormTxRunner struct {
	db   *gorm.DB
	opts *sql.TxOptions
}

func NewGormTxRunner(db *gorm.DB, opts ...TxOption) TxRunner {
	r := &gormTxRunner{db: db}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	switch {
	case fn == nil:
		return nil
	case r == nil || r.db == nil:
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured for transactions", nil)
	}
	body := func(tx *gorm.DB) error { return fn(dbctx.Context{Ctx: ctx, Tx: tx}) }
	if r.opts != nil {
		return r.db.WithContext(ctx).Transaction(body, r.opts)
	}
	return r.db.WithContext(ctx).Transaction(body)
}
