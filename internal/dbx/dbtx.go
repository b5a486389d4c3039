// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// a helper to run functions inside a transaction, and a serialized
// read-modify-write runner built on top of it.
package dbx

import (
	"context"
	"database/sql"
	"sync"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxStarter is anything that can open a transaction; *sql.DB and *sql.Conn do.
type TxStarter interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db TxStarter, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
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

// Serial runs transactions one at a time within the process. SQLite already
// serializes writers across processes; the mutex keeps two goroutines of the
// same process from both reading a list before either writes it back.
type Serial struct {
	mu sync.Mutex
	db TxStarter
}

func NewSerial(db TxStarter) *Serial {
	return &Serial{db: db}
}

// Update runs fn inside a transaction while holding the process-wide lock.
func (s *Serial) Update(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WithTx(ctx, s.db, nil, fn)
}

// View runs fn inside a transaction without taking the lock, so several
// reads of related keys observe one snapshot.
func (s *Serial) View(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, s.db, nil, fn)
}
