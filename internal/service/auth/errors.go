package auth

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidPhone       = errors.New("invalid mobile number")
	ErrOTPCooldown        = errors.New("OTP was sent recently, try again shortly")
	ErrOTPExpired         = errors.New("OTP has expired or does not exist")
	ErrOTPInvalid         = errors.New("OTP code is incorrect")
	ErrOTPMaxAttempts     = errors.New("too many incorrect OTP attempts")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrAdminDisabled      = errors.New("admin login is not configured")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
