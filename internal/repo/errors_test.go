package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique", err: fmt.Errorf("insert appointment: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNotFoundMapping(t *testing.T) {
	if err := notFound(pgx.ErrNoRows); !errors.Is(err, ErrNotFound) {
		t.Fatalf("notFound(ErrNoRows) = %v, want ErrNotFound", err)
	}
	if !IsNotFound(fmt.Errorf("get: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped ErrNoRows should be reported as not found")
	}
	other := errors.New("conn reset")
	if err := notFound(other); err != other {
		t.Fatalf("notFound should pass other errors through, got %v", err)
	}
}

func TestStatusValidity(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusRescheduled, StatusCompleted, StatusCanceled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if AppointmentStatus("Done").Valid() {
		t.Error("unknown status reported valid")
	}
	if !PaymentConfirmed.Settled() || !PaymentPaid.Settled() || PaymentPending.Settled() {
		t.Error("Settled mismatch")
	}
}
