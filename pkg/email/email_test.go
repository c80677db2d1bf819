package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Alijeyrad/hospital_backend/config"
)

func TestBuildBookingEmail(t *testing.T) {
	msg := BuildBookingEmail(BookingEmailData{
		To:          "asha@example.com",
		PatientName: "Asha <b>",
		ServiceName: "MRI",
		Date:        "2025-06-12",
		Time:        "10:30 AM",
		Amount:      500,
		Currency:    "inr",
		Status:      "Confirmed",
		Headline:    "Your payment was received",
	})

	if msg.Subject != "Hospital: MRI on 2025-06-12" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.TextBody, "500.00 INR") || !strings.Contains(msg.TextBody, "Asha <b>") {
		t.Errorf("TextBody = %q", msg.TextBody)
	}
	if strings.Contains(msg.HTMLBody, "Asha <b>") || !strings.Contains(msg.HTMLBody, "Asha &lt;b&gt;") {
		t.Error("HTMLBody does not escape the patient name")
	}
}

func TestBuildMessageValidation(t *testing.T) {
	tests := []struct {
		name string
		from string
		msg  Message
	}{
		{"no from", "", Message{Subject: "s", TextBody: "b"}},
		{"no subject", "a@b.c", Message{TextBody: "b"}},
		{"no body", "a@b.c", Message{Subject: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invalid ErrInvalidMessage
			if _, err := buildMessage(tt.from, tt.msg); !errors.As(err, &invalid) {
				t.Errorf("buildMessage() error = %v, want ErrInvalidMessage", err)
			}
		})
	}
}

func TestDisabledClient(t *testing.T) {
	c := New(config.EmailConfig{})
	if c.Enabled() {
		t.Fatal("Enabled() = true for zero config")
	}
	var disabled ErrDisabled
	if err := c.Send(context.Background(), Message{}); !errors.As(err, &disabled) {
		t.Errorf("Send() error = %v, want ErrDisabled", err)
	}
}
