package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkwell/inkwell-backend/internal/blog"
)

// Executor is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Stores resolve their executor per call so the same store works inside and
// outside a transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

func executorFrom(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return db
}

// TxManager runs functions inside a database transaction carried on the
// context, so every store call made within fn joins the same transaction.
// Nested calls reuse the outer transaction; commit and rollback stay with the
// outermost caller.
type TxManager struct {
	db *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return &blog.StorageError{Op: "begin transaction", Err: err}
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &blog.StorageError{Op: "rollback transaction", Err: fmt.Errorf("%v (after: %w)", rbErr, err)}
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &blog.StorageError{Op: "commit transaction", Err: err}
	}
	return nil
}
