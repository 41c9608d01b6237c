package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"wordquiz/internal/domain"
	"wordquiz/internal/repository"
)

const errUniqueViolation = "23505"

// dbtx is satisfied by both *sql.DB and *sql.Tx
type dbtx interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Store implements repository.Store on top of database/sql.
// Queries are written so they run unchanged on PostgreSQL and SQLite.
type Store struct {
	db dbtx
}

// New creates a store bound to an open database handle
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// WithTx executes fn within a database transaction
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return errors.New("already in transaction")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.TxError{Op: "begin", Err: err}
	}

	if err = fn(&Store{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return &domain.TxError{Op: "rollback", Err: fmt.Errorf("%v after: %w", rbErr, err)}
		}
		return &domain.TxError{Op: "rollback", Err: err}
	}

	if err = tx.Commit(); err != nil {
		return &domain.TxError{Op: "commit", Err: err}
	}

	return nil
}

// isUniqueViolation recognises unique constraint errors from every supported driver
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == errUniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == errUniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
