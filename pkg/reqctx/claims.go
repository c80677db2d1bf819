package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// AuthClaims is what the services need from a verified token.
type AuthClaims interface {
	GetUserID() uuid.UUID
	GetSessionID() *uuid.UUID
	GetRole() string
	IsExpired() bool
}

func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, keyClaims, claims)
}

// ClaimsFromContext returns nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, _ := ctx.Value(keyClaims).(AuthClaims)
	return claims
}

func IsAuthenticated(ctx context.Context) bool {
	claims := ClaimsFromContext(ctx)
	return claims != nil && !claims.IsExpired()
}

// SubjectFromContext returns the caller's user id as a string, the form it
// takes in appointment ownership.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if !IsAuthenticated(ctx) {
		return "", false
	}
	return ClaimsFromContext(ctx).GetUserID().String(), true
}

func RoleFromContext(ctx context.Context) string {
	if !IsAuthenticated(ctx) {
		return ""
	}
	return ClaimsFromContext(ctx).GetRole()
}
