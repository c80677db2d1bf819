package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	SessionID *uuid.UUID
	Role      string

	Issuer   string
	Audience string

	IssuedAt    time.Time
	NotBefore   time.Time
	ExpiresAt   time.Time
	TokenID     string // jti
	Subject     string
	RawFooter   []byte
	RawClaimsJS []byte
}

func (c *Claims) GetUserID() uuid.UUID     { return c.UserID }
func (c *Claims) GetSessionID() *uuid.UUID { return c.SessionID }
func (c *Claims) GetRole() string          { return c.Role }

// IsExpired reports whether the token has passed its exp claim.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
