package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dealheat/dealheat-go/internal/model"
)

func TestIsTransientConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"serialization failure",
			&pgconn.PgError{Code: "40001"},
			true,
		},
		{
			"deadlock",
			&pgconn.PgError{Code: "40P01"},
			true,
		},
		{
			"unique violation on votes pair",
			&pgconn.PgError{Code: "23505", ConstraintName: "votes_deal_user_unique"},
			true,
		},
		{
			"unique violation on unrelated constraint",
			&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			false,
		},
		{
			"wrapped serialization failure",
			fmt.Errorf("cast vote: %w", &pgconn.PgError{Code: "40001"}),
			true,
		},
		{
			"check violation",
			&pgconn.PgError{Code: "23514"},
			false,
		},
		{
			"domain error",
			model.ErrVotingFrozen,
			false,
		},
		{
			"plain error",
			errors.New("connection refused"),
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
			if got := IsTransientConflict(tt.err); got != tt.want {
				t.Errorf("IsTransientConflict = %v, want %v", got, tt.want)
			}
		})
	}
}
