package reqctx

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubClaims struct {
	id      uuid.UUID
	role    string
	expired bool
}

func (s stubClaims) GetUserID() uuid.UUID     { return s.id }
func (s stubClaims) GetSessionID() *uuid.UUID { return nil }
func (s stubClaims) GetRole() string          { return s.role }
func (s stubClaims) IsExpired() bool          { return s.expired }

func TestSubjectFromContext(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		ctx      context.Context
		wantSub  string
		wantOK   bool
		wantRole string
	}{
		{"anonymous", context.Background(), "", false, ""},
		{"valid", WithClaims(context.Background(), stubClaims{id: id, role: "admin"}), id.String(), true, "admin"},
		{"expired", WithClaims(context.Background(), stubClaims{id: id, role: "admin", expired: true}), "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, ok := SubjectFromContext(tt.ctx)
			if sub != tt.wantSub || ok != tt.wantOK {
				t.Errorf("SubjectFromContext() = (%q, %v), want (%q, %v)", sub, ok, tt.wantSub, tt.wantOK)
			}
			if got := RoleFromContext(tt.ctx); got != tt.wantRole {
				t.Errorf("RoleFromContext() = %q, want %q", got, tt.wantRole)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
	ctx := WithRequestMeta(context.Background(), &RequestMeta{RequestID: "req-1", RequestedAt: time.Now()})
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q, want req-1", got)
	}
}
