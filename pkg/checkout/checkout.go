// Package checkout wraps Stripe hosted checkout sessions behind a small Gateway interface.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/Alijeyrad/hospital_backend/config"
)

var (
	ErrNotConfigured = errors.New("checkout: payment provider is not configured")
	ErrSessionCreate = errors.New("checkout: could not create session")
	ErrSessionFetch  = errors.New("checkout: could not retrieve session")
)

// PaymentStatusPaid is the provider's payment_status for a settled session.
const PaymentStatusPaid = "paid"

// SessionParams describes a single-item, card-only payment session.
type SessionParams struct {
	SuccessURL    string
	CancelURL     string
	Currency      string
	ProductName   string
	Description   string
	UnitAmount    int64 // minor units
	CustomerEmail string
	Metadata      map[string]string
}

type Session struct {
	ID              string
	URL             string
	PaymentStatus   string
	PaymentIntentID string
	Metadata        map[string]string
}

type Gateway interface {
	CreateSession(ctx context.Context, p SessionParams) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}

// Client is the Stripe-backed Gateway.
type Client struct {
	api *client.API
}

// New returns nil when no secret key is configured, so callers can treat a
// nil Gateway as "online payments disabled".
func New(cfg config.PaymentConfig) *Client {
	return newClient(cfg, "")
}

// newClient talks to apiURL instead of the Stripe API when it is set.
func newClient(cfg config.PaymentConfig, apiURL string) *Client {
	key := strings.TrimSpace(cfg.Stripe.SecretKey)
	if key == "" {
		return nil
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	// One attempt per call: a request waits at most one timeout.
	bc := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     slogLogger{},
	}
	if apiURL != "" {
		bc.URL = stripe.String(apiURL)
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, bc),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, bc),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, bc),
	}
	return &Client{api: client.New(key, backends)}
}

// slogLogger routes stripe-go's own logging into slog. Request failures come
// back as errors and are logged by the caller, so they stay at debug here.
type slogLogger struct{}

func (slogLogger) Debugf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLogger) Infof(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLogger) Warnf(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (slogLogger) Errorf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (c *Client) CreateSession(ctx context.Context, p SessionParams) (*Session, error) {
	if c == nil || c.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.ProductName),
						Description: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: p.Metadata,
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionCreate, err)
	}
	return fromStripe(sess), nil
}

func (c *Client) GetSession(ctx context.Context, id string) (*Session, error) {
	if c == nil || c.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	sess, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionFetch, err)
	}
	return fromStripe(sess), nil
}

func fromStripe(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out
}
