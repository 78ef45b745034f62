// Package tx propagates a SQL transaction through context so a service can
// commit several store writes as one atomic unit without the stores knowing
// about each other. A store that finds a transaction in context executes
// against it; otherwise it falls back to its own *sql.DB.
package tx

import (
	"context"
	"database/sql"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner starts transactions for services. The SQL implementation wraps a
// *sql.DB; tests and memory stores use the no-op Passthrough.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs the callback inside a database transaction, committing on
// nil and rolling back on error or panic.
type SQLRunner struct {
	DB *sql.DB
}

func (r SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	dbTx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = dbTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(WithTx(ctx, dbTx)); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Passthrough satisfies Runner without a database. Memory stores guard their
// own atomicity with a mutex, so the callback simply runs in place.
type Passthrough struct{}

func (Passthrough) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
