package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/email"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
	"github.com/Alijeyrad/hospital_backend/pkg/sms"
)

type memStore map[uuid.UUID]*repo.ServiceAppointment

func (m memStore) GetAppointment(_ context.Context, id uuid.UUID) (*repo.ServiceAppointment, error) {
	a, ok := m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return a, nil
}

type fakeSMS struct {
	to      []string
	notices []sms.BookingNotice
	err     error
}

func (f *fakeSMS) SendBookingNotice(_ context.Context, mobile string, n sms.BookingNotice) error {
	f.to = append(f.to, mobile)
	f.notices = append(f.notices, n)
	return f.err
}

type fakeMailer struct {
	enabled bool
	sent    []email.Message
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) Send(_ context.Context, m email.Message) error {
	f.sent = append(f.sent, m)
	return nil
}

func appointment(emailAddr string) *repo.ServiceAppointment {
	return &repo.ServiceAppointment{
		ID:          uuid.New(),
		ServiceName: "MRI",
		PatientName: "Asha",
		Mobile:      "98123 45678",
		Email:       emailAddr,
		Date:        "2025-06-12",
		Hour:        9,
		Minute:      5,
		AmPm:        "AM",
		Status:      repo.StatusConfirmed,
		Payment:     repo.Payment{Method: repo.PaymentOnline, Status: repo.PaymentPaid, Amount: 500},
	}
}

func TestHandleSendsSMSAndEmail(t *testing.T) {
	a := appointment("asha@example.com")
	smsCli := &fakeSMS{}
	mail := &fakeMailer{enabled: true}
	n := New(memStore{a.ID: a}, smsCli, mail, Options{FrontendURL: "https://care.example/", Currency: "inr"})

	if err := n.Handle(context.Background(), events.Event{Kind: events.Paid, AppointmentID: a.ID}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(smsCli.to) != 1 || smsCli.to[0] != "+919812345678" {
		t.Errorf("sms to = %v", smsCli.to)
	}
	if smsCli.notices[0].Time != "09:05 AM" || smsCli.notices[0].Status != "Confirmed" {
		t.Errorf("notice = %+v", smsCli.notices[0])
	}
	if len(mail.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mail.sent))
	}
	body := mail.sent[0].TextBody
	if !strings.Contains(body, "We have received your payment") || !strings.Contains(body, "https://care.example/appointments") {
		t.Errorf("TextBody = %q", body)
	}
}

func TestHandleSkips(t *testing.T) {
	a := appointment("")
	smsCli := &fakeSMS{}
	mail := &fakeMailer{enabled: true}
	n := New(memStore{a.ID: a}, smsCli, mail, Options{})

	t.Run("no email address", func(t *testing.T) {
		if err := n.Handle(context.Background(), events.Event{Kind: events.Booked, AppointmentID: a.ID}); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(mail.sent) != 0 {
			t.Errorf("emails sent = %d, want 0", len(mail.sent))
		}
	})

	t.Run("missing appointment", func(t *testing.T) {
		if err := n.Handle(context.Background(), events.Event{Kind: events.Booked, AppointmentID: uuid.New()}); err != nil {
			t.Errorf("Handle() error = %v, want nil", err)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if err := n.Handle(context.Background(), events.Event{Kind: "archived", AppointmentID: a.ID}); err == nil {
			t.Error("Handle() error = nil for unknown kind")
		}
	})
}

func TestHandleReportsSMSFailure(t *testing.T) {
	a := appointment("")
	smsCli := &fakeSMS{err: errors.New("gateway down")}
	n := New(memStore{a.ID: a}, smsCli, nil, Options{})

	if err := n.Handle(context.Background(), events.Event{Kind: events.Canceled, AppointmentID: a.ID}); err == nil {
		t.Error("Handle() error = nil, want the SMS failure")
	}
}

func TestPaymentNote(t *testing.T) {
	tests := []struct {
		name string
		p    repo.Payment
		want string
	}{
		{"free", repo.Payment{Method: repo.PaymentCash, Status: repo.PaymentPending}, "No payment is due."},
		{"paid", repo.Payment{Method: repo.PaymentOnline, Status: repo.PaymentPaid, Amount: 10}, "Payment received."},
		{"cash due", repo.Payment{Method: repo.PaymentCash, Status: repo.PaymentPending, Amount: 10}, "Please pay at the hospital counter."},
		{"online pending", repo.Payment{Method: repo.PaymentOnline, Status: repo.PaymentPending, Amount: 10}, "Payment pending."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paymentNote(tt.p); got != tt.want {
				t.Errorf("paymentNote() = %q, want %q", got, tt.want)
			}
		})
	}
}
