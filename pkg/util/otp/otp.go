// Package otp generates numeric one-time codes and the hashes kept in Redis.
package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrInvalidLength = errors.New("OTP length must be between 4 and 10")
	ErrMismatch      = errors.New("OTP does not match")
)

const (
	DefaultLength = 6
	MinLength     = 4
	MaxLength     = 10
)

// Generate returns a zero-padded numeric code of the given length.
func Generate(length int) (string, error) {
	if length == 0 {
		length = DefaultLength
	}
	if length < MinLength || length > MaxLength {
		return "", ErrInvalidLength
	}

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}

// Hash binds code to the mobile it was sent to, so a stored hash cannot be
// replayed against another number.
func Hash(mobile, code string) string {
	mac := hmac.New(sha256.New, []byte(mobile))
	mac.Write([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(mac.Sum(nil))
}

func Verify(hash, mobile, code string) error {
	if !hmac.Equal([]byte(hash), []byte(Hash(mobile, code))) {
		return ErrMismatch
	}
	return nil
}
