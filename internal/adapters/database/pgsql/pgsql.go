// Package pgsql implements the persistence ports over PostgreSQL using pgx.
// The schema lives in migrations/ and is applied by golang-migrate at
// startup.
package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pg error code for unique constraint violations
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique constraint violation, the
// database-level backstop for duplicate ids.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
