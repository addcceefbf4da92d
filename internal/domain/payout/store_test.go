package payout

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_calc_runs_one_running"}
	if !isUniqueViolation(dup) {
		t.Fatalf("expected 23505 to be reported as a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert run: %w", dup)) {
		t.Fatalf("expected wrapped 23505 to be reported as a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation must not be treated as a duplicate run")
	}
	if isUniqueViolation(errors.New("connection reset")) {
		t.Fatalf("plain error must not be treated as a duplicate run")
	}
	if isUniqueViolation(nil) {
		t.Fatalf("nil error must not be treated as a duplicate run")
	}
}
