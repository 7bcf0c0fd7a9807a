package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")

	ErrDuplicateUsername = fmt.Errorf("%w: username", ErrDuplicate)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrNotFound is returned by write paths whose target row disappeared.
	// Read paths return (nil, nil) instead.
	ErrNotFound = errors.New("record not found")

	// ErrBidResolved is returned by Accept when the task already has a
	// winning bid or the target bid was rejected.
	ErrBidResolved = errors.New("bid already resolved")
)

const uniqueViolation = "23505"

// constraintViolated returns the name of the unique constraint err violated,
// or "" when err is not a unique violation.
func constraintViolated(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if pgErr.ConstraintName == "" {
			return "unknown"
		}
		return pgErr.ConstraintName
	}
	return ""
}
