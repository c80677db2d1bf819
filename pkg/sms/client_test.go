package sms

import (
	"context"
	"errors"
	"testing"

	"github.com/Alijeyrad/hospital_backend/config"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.SMSConfig
		wantErr     bool
		wantEnabled bool
	}{
		{"disabled", config.SMSConfig{}, false, false},
		{"enabled without key", config.SMSConfig{Enabled: true, SMSIR: config.SMSIRConfig{TemplateID: "1"}}, true, false},
		{"enabled", config.SMSConfig{Enabled: true, SMSIR: config.SMSIRConfig{APIKey: "k", SecretKey: "s", TemplateID: "1"}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && client.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", client.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestDisabledClientSendsNothing(t *testing.T) {
	client := &Client{}
	ctx := context.Background()

	if err := client.SendOTP(ctx, "+919812345678", "123456"); err != nil {
		t.Errorf("SendOTP() error = %v", err)
	}
	if err := client.SendBookingNotice(ctx, "+919812345678", BookingNotice{PatientName: "Asha"}); err != nil {
		t.Errorf("SendBookingNotice() error = %v", err)
	}
}

func TestSendValidation(t *testing.T) {
	client := &Client{enabled: true, otpTemplate: "100"}
	ctx := context.Background()

	tests := []struct {
		name   string
		mobile string
		code   string
	}{
		{"empty mobile", "", "123456"},
		{"empty code", "+919812345678", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := client.SendOTP(ctx, tt.mobile, tt.code); !errors.Is(err, ErrMissingParam) {
				t.Errorf("SendOTP() error = %v, want ErrMissingParam", err)
			}
		})
	}

	noTemplate := &Client{enabled: true}
	if err := noTemplate.SendOTP(ctx, "+919812345678", "123456"); !errors.Is(err, ErrMissingParam) {
		t.Errorf("SendOTP() without template error = %v, want ErrMissingParam", err)
	}
	if err := noTemplate.SendBookingNotice(ctx, "+919812345678", BookingNotice{}); err != nil {
		t.Errorf("SendBookingNotice() without template error = %v, want nil", err)
	}
}
