// Package dbx holds the Postgres plumbing shared by the repositories: the
// embedded schema migrations, a JSONB column type and a transaction helper.
package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// JSON stores V in a jsonb column.
type JSON[V any] struct {
	V V
}

func NewJSON[V any](v V) JSON[V] { return JSON[V]{V: v} }

func (j JSON[V]) Value() (driver.Value, error) {
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (j *JSON[V]) Scan(src any) error {
	var zero V
	switch v := src.(type) {
	case nil:
		j.V = zero
		return nil
	case []byte:
		return json.Unmarshal(v, &j.V)
	case string:
		return json.Unmarshal([]byte(v), &j.V)
	default:
		return errors.New("dbx: unsupported jsonb source")
	}
}

// IsUniqueViolation reports whether err is a Postgres unique_violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a Postgres foreign_key_violation
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// IsNoRows reports whether err is sql.ErrNoRows
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// WithTx runs fn inside a transaction. fn's error or a panic rolls back.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit transaction", errx.TypeInternal)
	}
	return nil
}
