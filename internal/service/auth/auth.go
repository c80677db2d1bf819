package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
	"github.com/Alijeyrad/hospital_backend/pkg/util/otp"
	"github.com/Alijeyrad/hospital_backend/pkg/util/password"
	"github.com/Alijeyrad/hospital_backend/pkg/util/phone"
)

func redisKeyOTP(mobile string) string         { return "otp:" + mobile }
func redisKeyOTPAttempts(mobile string) string { return "otp:attempts:" + mobile }
func redisKeyOTPCooldown(mobile string) string { return "otp:cooldown:" + mobile }
func redisKeySession(sessionID string) string  { return "session:" + sessionID }

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type OTPRequest struct {
	Mobile string `json:"mobile" validate:"required"`
}

type OTPVerifyRequest struct {
	Mobile string `json:"mobile" validate:"required"`
	Code   string `json:"code" validate:"required,numeric,min=4,max=10"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type OTPSent struct {
	Mobile    string `json:"mobile"`
	ExpiresIn int64  `json:"expiresIn"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	Role         string `json:"role"`
}

// OTPSender is implemented by *sms.Client.
type OTPSender interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

type Options struct {
	OTPTTL            time.Duration
	OTPCooldown       time.Duration
	OTPMaxAttempts    int
	OTPLength         int
	DefaultRegion     string
	AdminEmail        string
	AdminPasswordHash string
}

func OptionsFromConfig(cfg *config.Config) Options {
	a := cfg.Authentication
	return Options{
		OTPTTL:            time.Duration(a.OTPTTLMinutes) * time.Minute,
		OTPCooldown:       time.Duration(a.OTPResendCooldownSeconds) * time.Second,
		OTPMaxAttempts:    a.OTPMaxAttempts,
		OTPLength:         cfg.OTP.DefaultLength,
		DefaultRegion:     a.DefaultRegion,
		AdminEmail:        a.Admin.Email,
		AdminPasswordHash: a.Admin.PasswordHash,
	}
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	RequestOTP(ctx context.Context, req OTPRequest) (*OTPSent, error)
	VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*AuthTokens, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	kv       KV
	sms      OTPSender
	paseto   *pasetotoken.Manager
	opts     Options
	validate *validator.Validate
}

func New(kv KV, sms OTPSender, paseto *pasetotoken.Manager, opts Options) Service {
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = 5 * time.Minute
	}
	if opts.OTPMaxAttempts <= 0 {
		opts.OTPMaxAttempts = 5
	}
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = "IN"
	}
	return &authService{kv: kv, sms: sms, paseto: paseto, opts: opts, validate: validator.New()}
}

// NormalizeMobile parses raw in the default region and returns it in E.164.
func NormalizeMobile(raw, region string) (string, error) {
	e164, err := phone.Normalize(raw, region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	return e164, nil
}

// PatientID is the stable user id for a mobile number. Bookings record it as
// their owner, so the same phone always sees the same appointments.
func PatientID(e164 string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("tel:"+e164))
}

func adminID(email string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email)))
}

// ---------------------------------------------------------------------------
// OTP
// ---------------------------------------------------------------------------

func (s *authService) RequestOTP(ctx context.Context, req OTPRequest) (*OTPSent, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	mobile, err := NormalizeMobile(req.Mobile, s.opts.DefaultRegion)
	if err != nil {
		return nil, err
	}

	if s.opts.OTPCooldown > 0 {
		ok, err := s.kv.SetNX(ctx, redisKeyOTPCooldown(mobile), "1", s.opts.OTPCooldown)
		if err != nil {
			return nil, fmt.Errorf("otp cooldown: %w", err)
		}
		if !ok {
			return nil, ErrOTPCooldown
		}
	}

	code, err := otp.Generate(s.opts.OTPLength)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, redisKeyOTP(mobile), otp.Hash(mobile, code), s.opts.OTPTTL); err != nil {
		return nil, fmt.Errorf("store OTP: %w", err)
	}
	if _, err := s.kv.Del(ctx, redisKeyOTPAttempts(mobile)); err != nil {
		slog.Warn("reset OTP attempts failed", "error", err)
	}

	if err := s.sms.SendOTP(ctx, mobile, code); err != nil {
		// the code stays valid; the patient can ask again after the cooldown
		slog.Warn("failed to send OTP SMS", "mobile", mobile, "error", err)
	}

	return &OTPSent{Mobile: mobile, ExpiresIn: int64(s.opts.OTPTTL.Seconds())}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*AuthTokens, error) {
	req.Code = strings.TrimSpace(req.Code)
	if err := s.check(req); err != nil {
		return nil, err
	}
	mobile, err := NormalizeMobile(req.Mobile, s.opts.DefaultRegion)
	if err != nil {
		return nil, err
	}

	hash, err := s.kv.Get(ctx, redisKeyOTP(mobile))
	if errors.Is(err, errKeyMissing) {
		return nil, ErrOTPExpired
	}
	if err != nil {
		return nil, fmt.Errorf("redis get otp: %w", err)
	}

	// Count the attempt before checking the code so concurrent guesses
	// cannot all pass the cap on the same stale count.
	n, err := s.kv.Incr(ctx, redisKeyOTPAttempts(mobile), s.opts.OTPTTL)
	if err != nil {
		return nil, fmt.Errorf("redis count otp attempt: %w", err)
	}
	if n > int64(s.opts.OTPMaxAttempts) {
		return nil, ErrOTPMaxAttempts
	}

	if err := otp.Verify(hash, mobile, req.Code); err != nil {
		return nil, ErrOTPInvalid
	}

	if _, err := s.kv.Del(ctx, redisKeyOTP(mobile), redisKeyOTPAttempts(mobile)); err != nil {
		slog.Warn("clear OTP failed", "error", err)
	}

	return s.createSession(ctx, PatientID(mobile), string(authorize.RolePatient))
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

func (s *authService) AdminLogin(ctx context.Context, req AdminLoginRequest) (*AuthTokens, error) {
	if s.opts.AdminEmail == "" || s.opts.AdminPasswordHash == "" {
		return nil, ErrAdminDisabled
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	emailOK := strings.EqualFold(strings.TrimSpace(req.Email), s.opts.AdminEmail)
	// verify even on a wrong email so both failures cost the same
	pwErr := password.Verify(s.opts.AdminPasswordHash, req.Password)
	if !emailOK || pwErr != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, adminID(s.opts.AdminEmail), string(authorize.RoleAdmin))
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.paseto.Verify(refreshToken)
	if err != nil || claims.Type != pasetotoken.TokenTypeRefresh || claims.SessionID == nil {
		return nil, ErrInvalidToken
	}

	key := redisKeySession(claims.SessionID.String())
	if _, err := s.kv.Get(ctx, key); errors.Is(err, errKeyMissing) {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	if err := s.kv.Expire(ctx, key, s.paseto.RefreshTTL()); err != nil {
		slog.Warn("extend session failed", "session_id", claims.SessionID, "error", err)
	}

	// the refresh token stays the same until logout
	access, err := s.paseto.IssueAccess(pasetotoken.Subject{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
		Role:      claims.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
		Role:         claims.Role,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.kv.Del(ctx, redisKeySession(sessionID.String()))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		slog.Debug("logout: session already expired", "session_id", sessionID)
	}
	return nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, role string) (*AuthTokens, error) {
	sessionID := uuid.Must(uuid.NewV7())

	if err := s.kv.Set(ctx, redisKeySession(sessionID.String()), userID.String(), s.paseto.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	sub := pasetotoken.Subject{UserID: userID, SessionID: &sessionID, Role: role}
	access, err := s.paseto.IssueAccess(sub)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.paseto.IssueRefresh(sub)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
		Role:         role,
	}, nil
}

func (s *authService) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", ErrInvalidRequest, strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
