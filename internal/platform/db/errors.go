package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/odyssey-erp/salesbook/internal/shared"
)

const uniqueViolation = "23505"

// ErrUniqueViolation reports that a write collided with a unique constraint.
var ErrUniqueViolation = errors.New("unique violation")

// ConstraintError carries the name of the violated constraint.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("platform/db: constraint %s: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return ErrUniqueViolation }

// Translate maps driver errors to the sentinel errors repositories expose:
// pgx.ErrNoRows becomes shared.ErrNotFound and SQLSTATE 23505 becomes a *ConstraintError.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

// ViolatedConstraint returns the constraint name when err is a unique violation.
func ViolatedConstraint(err error) (string, bool) {
	var cerr *ConstraintError
	if errors.As(err, &cerr) {
		return cerr.Constraint, true
	}
	return "", false
}
