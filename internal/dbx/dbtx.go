// Package dbx lets repositories run against either a plain connection pool
// or an open transaction, and gives services one way to scope work to a
// transaction.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is what repositories query through. *sql.DB and *sql.Tx both
// implement it, so the same repository serves both.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. An error or panic from fn
// rolls back; the panic continues afterwards. Errors from fn are returned
// unwrapped; begin and commit failures are wrapped.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//		if _, err := repos.Conversations(tx).Get(ctx, id); err != nil {
//			return err
//		}
//		return repos.Conversations(tx).AppendMessage(ctx, id, msg)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		// Commit released the tx either way; a Rollback now is a no-op.
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// WithTxValue is WithTx for fn that produces a value. The zero value is
// returned unless the transaction committed.
func WithTxValue[T any](ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) (T, error)) (T, error) {
	var out T
	err := WithTx(ctx, db, opts, func(ctx context.Context, tx DBTX) error {
		v, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
