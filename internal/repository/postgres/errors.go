package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Return pg error if err is a pg error with one of codes
func asPgError(err error, codes ...string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}

	for _, code := range codes {
		if pgErr.Code == code {
			return pgErr, true
		}
	}

	return nil, false
}

func isUniqueViolation(err error) bool {
	_, ok := asPgError(err, pgerrcode.UniqueViolation)
	return ok
}

// Foreign key violation, returns violated constraint name
func foreignKeyViolation(err error) (string, bool) {
	pgErr, ok := asPgError(err, pgerrcode.ForeignKeyViolation)
	if !ok {
		return "", false
	}
	return pgErr.ConstraintName, true
}
