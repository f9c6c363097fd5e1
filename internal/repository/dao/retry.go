package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsWriteConflict reports whether err is a Postgres error that a retry of the
// whole transaction can resolve: serialization failures, deadlocks, and
// duplicate ticket numbers raced in by a concurrent purchase.
func IsWriteConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	case pgerrcode.UniqueViolation:
		return pgErr.ConstraintName == "idx_tickets_lottery_number"
	}

	return false
}
