package repo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type scanner interface {
	Scan(dest ...any) error
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool     { return pqCode(err) == pqUniqueViolation }
func isForeignKeyViolation(err error) bool { return pqCode(err) == pqForeignKeyViolation }

// insertError translates a failed insert into an event's child table: a unique
// violation becomes dup, a dangling event id ErrEventNotFound.
func insertError(err, dup error, msg string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return dup
	case isForeignKeyViolation(err):
		return ErrEventNotFound
	}
	return errors.Wrap(err, msg)
}

// withTx runs fn in a transaction on the master, committing when fn returns nil.
func (r *Postgres) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func bumpCounter(ctx context.Context, tx *sql.Tx, column string, eventID int64, delta int) error {
	if delta == 0 {
		return nil
	}
	// column is one of two constants below, never user input
	res, err := tx.ExecContext(ctx,
		`UPDATE events SET `+column+` = GREATEST(`+column+` + $1, 0), updated_at = NOW() WHERE id = $2`,
		delta, eventID,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to update %s", column)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

const (
	registrationCountColumn = "registration_count"
	submissionCountColumn   = "submission_count"
)
