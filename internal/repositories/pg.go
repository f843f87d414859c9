package repositories

import (
	"errors"

	domainErrors "vaultpay/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes we branch on.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
	pgDeadlockDetected = "40P01"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// uniqueViolation reports whether err is a unique constraint violation and
// returns the violated constraint name so callers can tell which index fired.
func uniqueViolation(err error) (constraint string, ok bool) {
	if pgErr, found := pgError(err); found && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// translateLockError maps lock wait timeouts and deadlocks to ErrContention
// so callers surface a retryable busy signal instead of a raw SQL error.
func translateLockError(err error) error {
	if err == nil {
		return nil
	}
	if pgErr, ok := pgError(err); ok {
		switch pgErr.Code {
		case pgLockNotAvailable, pgDeadlockDetected:
			return domainErrors.ErrContention
		}
	}
	return err
}
