// Package dbx provides tiny DB abstractions shared by the repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// and a helper to run functions inside a transaction. The repository
// manager vends repositories bound to any DBTX, so a caller can group
// several repository calls into one transaction via WithTx.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql the repositories use.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txBeginner is the part of *sql.DB that starts transactions.
type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
// A handle that cannot begin a transaction (an open *sql.Tx, or a
// backend without transactions) runs fn directly on the handle itself.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return rm.Tokens(tx).SetStatus(ctx, id, models.TokenRevoked)
//	})
func WithTx(ctx context.Context, db DBTX, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	b, ok := db.(txBeginner)
	if !ok {
		return fn(ctx, db)
	}

	tx, err := b.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
