package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert loses the race on a unique
	// constraint, e.g. two bookings for the same (mentor, slot_start).
	ErrDuplicate = errors.New("duplicate record")
)

// isUniqueViolation recognises unique-constraint failures from both backing
// stores: pgconn error 23505 for PostgreSQL, message match for SQLite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed: UNIQUE")
}
