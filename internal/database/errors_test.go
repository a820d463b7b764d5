package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows to match")
	}
	if !IsNoRows(fmt.Errorf("get user: %w", pgx.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to match")
	}
	if IsNoRows(errors.New("boom")) {
		t.Fatalf("expected unrelated error not to match")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	if !IsUniqueViolation(unique) {
		t.Fatalf("expected unique violation to match")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", unique)) {
		t.Fatalf("expected wrapped unique violation to match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}) {
		t.Fatalf("expected fk violation not to match")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Fatalf("expected unrelated error not to match")
	}
}
