// Package sms sends OTP codes and booking notices through sms.ir templates.
package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/arsmn/go-smsir/smsir"

	"github.com/Alijeyrad/hospital_backend/config"
)

var ErrMissingParam = errors.New("sms: missing parameter")

// Client provides SMS sending via sms.ir. A disabled client accepts every
// message and sends nothing.
type Client struct {
	client          *smsir.Client
	enabled         bool
	otpTemplate     string
	bookingTemplate string
}

// BookingNotice fills the booking template.
type BookingNotice struct {
	PatientName string
	ServiceName string
	Date        string
	Time        string
	Status      string
}

func NewFromConfig(cfg config.SMSConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{}, nil
	}
	if cfg.SMSIR.APIKey == "" {
		return nil, fmt.Errorf("sms.ir API key required when SMS enabled")
	}

	return &Client{
		client:          smsir.NewClient().WithAuthentication(cfg.SMSIR.APIKey, cfg.SMSIR.SecretKey),
		enabled:         true,
		otpTemplate:     cfg.SMSIR.TemplateID,
		bookingTemplate: cfg.SMSIR.BookingTemplateID,
	}, nil
}

// SendOTP sends code with the OTP template. The template must take a "code"
// parameter.
func (c *Client) SendOTP(ctx context.Context, mobile, code string) error {
	if code == "" {
		return fmt.Errorf("%w: code", ErrMissingParam)
	}
	return c.send(ctx, mobile, c.otpTemplate, []smsir.UltraFastParameter{
		{Key: "code", Value: code},
	})
}

// SendBookingNotice is a no-op when no booking template is configured.
func (c *Client) SendBookingNotice(ctx context.Context, mobile string, n BookingNotice) error {
	if c.enabled && c.bookingTemplate == "" {
		return nil
	}
	return c.send(ctx, mobile, c.bookingTemplate, []smsir.UltraFastParameter{
		{Key: "name", Value: n.PatientName},
		{Key: "service", Value: n.ServiceName},
		{Key: "date", Value: n.Date},
		{Key: "time", Value: n.Time},
		{Key: "status", Value: n.Status},
	})
}

func (c *Client) send(ctx context.Context, mobile, template string, params []smsir.UltraFastParameter) error {
	if !c.enabled {
		return nil
	}
	if mobile == "" {
		return fmt.Errorf("%w: mobile", ErrMissingParam)
	}
	if template == "" {
		return fmt.Errorf("%w: template id", ErrMissingParam)
	}

	_, err := c.client.Verification.UltraFastSend(ctx, &smsir.UltraFastSendRequest{
		Mobile:     mobile,
		TemplateID: template,
		Parameters: params,
	})
	if err != nil {
		return fmt.Errorf("sms.ir send failed: %w", err)
	}
	return nil
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}
