package dao

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsWriteConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"serialization failure",
			&pgconn.PgError{Code: pgerrcode.SerializationFailure},
			true,
		},
		{
			"deadlock",
			&pgconn.PgError{Code: pgerrcode.DeadlockDetected},
			true,
		},
		{
			"ticket number collision",
			&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_tickets_lottery_number"},
			true,
		},
		{
			"unrelated unique violation",
			&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_pkey"},
			false,
		},
		{
			"other pg error",
			&pgconn.PgError{Code: pgerrcode.UndefinedTable},
			false,
		},
		{
			"wrapped pg error",
			fmt.Errorf("tx failed: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}),
			true,
		},
		{
			"plain error",
			errors.New("boom"),
			false,
		},
		{
			"nil",
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsWriteConflict(tt.err))
		})
	}
}
