package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/hospital_backend/internal/service/auth"
	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidRequest), errors.Is(err, auth.ErrInvalidPhone):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrOTPCooldown), errors.Is(err, auth.ErrOTPMaxAttempts):
		return tooManyRequests(c, err.Error())
	case errors.Is(err, auth.ErrOTPExpired),
		errors.Is(err, auth.ErrOTPInvalid),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrSessionNotFound),
		errors.Is(err, auth.ErrInvalidToken):
		return unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrAdminDisabled):
		return forbidden(c, err.Error())
	default:
		return internalError(c, "", err)
	}
}

// POST /api/auth/otp/request
func (h *AuthHandler) RequestOTP(c fiber.Ctx) error {
	var body auth.OTPRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sent, err := h.svc.RequestOTP(c.Context(), body)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, fiber.Map{"message": "verification code sent", "data": sent})
}

// POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(c fiber.Ctx) error {
	var body auth.OTPVerifyRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	tokens, err := h.svc.VerifyOTP(c.Context(), body)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, fiber.Map{"data": tokens})
}

// POST /api/auth/admin/login
func (h *AuthHandler) AdminLogin(c fiber.Ctx) error {
	var body auth.AdminLoginRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	tokens, err := h.svc.AdminLogin(c.Context(), body)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, fiber.Map{"data": tokens})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind().JSON(&body); err != nil || body.RefreshToken == "" {
		return badRequest(c, "refreshToken is required")
	}

	tokens, err := h.svc.RefreshTokens(c.Context(), body.RefreshToken)
	if err != nil {
		return mapAuthError(c, err)
	}
	return ok(c, fiber.Map{"data": tokens})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return unauthorized(c, "unauthorized")
	}
	if claims.SessionID != nil {
		if err := h.svc.Logout(c.Context(), *claims.SessionID); err != nil {
			return mapAuthError(c, err)
		}
	}
	return ok(c, fiber.Map{"message": "logged out"})
}
