// Package notify tells patients about their appointments when lifecycle
// events arrive from NATS.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/email"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
	"github.com/Alijeyrad/hospital_backend/pkg/sms"
	"github.com/Alijeyrad/hospital_backend/pkg/util/phone"
)

type Store interface {
	GetAppointment(ctx context.Context, id uuid.UUID) (*repo.ServiceAppointment, error)
}

// SMSSender is implemented by *sms.Client.
type SMSSender interface {
	SendBookingNotice(ctx context.Context, mobile string, n sms.BookingNotice) error
}

// Mailer is implemented by *email.Client.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, m email.Message) error
}

type Options struct {
	AppName       string
	FrontendURL   string
	Currency      string
	DefaultRegion string
}

type Notifier struct {
	db   Store
	sms  SMSSender
	mail Mailer
	opts Options
}

func New(db Store, smsCli SMSSender, mail Mailer, opts Options) *Notifier {
	if opts.DefaultRegion == "" {
		opts.DefaultRegion = "IN"
	}
	return &Notifier{db: db, sms: smsCli, mail: mail, opts: opts}
}

var headlines = map[events.Kind]string{
	events.Booked:      "Your appointment has been booked",
	events.Paid:        "We have received your payment",
	events.Canceled:    "Your appointment has been cancelled",
	events.Rescheduled: "Your appointment has been rescheduled",
}

// Handle loads the appointment and sends an SMS, and an email when the
// booking has an address. Delivery failures are joined into the result;
// a missing appointment is not an error.
func (n *Notifier) Handle(ctx context.Context, ev events.Event) error {
	headline, ok := headlines[ev.Kind]
	if !ok {
		return fmt.Errorf("notify: unknown event kind %q", ev.Kind)
	}

	a, err := n.db.GetAppointment(ctx, ev.AppointmentID)
	if err != nil {
		if repo.IsNotFound(err) {
			slog.Warn("notify: appointment not found", "appointment_id", ev.AppointmentID, "kind", ev.Kind)
			return nil
		}
		return fmt.Errorf("notify: load appointment: %w", err)
	}

	var errs []error
	if err := n.sendSMS(ctx, a); err != nil {
		errs = append(errs, err)
	}
	if err := n.sendEmail(ctx, a, headline); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (n *Notifier) sendSMS(ctx context.Context, a *repo.ServiceAppointment) error {
	if n.sms == nil {
		return nil
	}
	mobile, err := phone.Normalize(a.Mobile, n.opts.DefaultRegion)
	if err != nil {
		slog.Warn("notify: skipping SMS for unparseable mobile", "appointment_id", a.ID)
		return nil
	}
	return n.sms.SendBookingNotice(ctx, mobile, sms.BookingNotice{
		PatientName: a.PatientName,
		ServiceName: a.ServiceName,
		Date:        a.Date,
		Time:        clock(a),
		Status:      string(a.Status),
	})
}

func (n *Notifier) sendEmail(ctx context.Context, a *repo.ServiceAppointment, headline string) error {
	if n.mail == nil || !n.mail.Enabled() || strings.TrimSpace(a.Email) == "" {
		return nil
	}

	var manage string
	if base := strings.TrimRight(n.opts.FrontendURL, "/"); base != "" {
		manage = base + "/appointments"
	}

	return n.mail.Send(ctx, email.BuildBookingEmail(email.BookingEmailData{
		To:          a.Email,
		PatientName: a.PatientName,
		ServiceName: a.ServiceName,
		Date:        a.Date,
		Time:        clock(a),
		Amount:      a.Payment.Amount,
		Currency:    n.opts.Currency,
		Status:      string(a.Status),
		PaymentNote: paymentNote(a.Payment),
		Headline:    headline,
		AppName:     n.opts.AppName,
		ManageURL:   manage,
	}))
}

func clock(a *repo.ServiceAppointment) string {
	return fmt.Sprintf("%02d:%02d %s", a.Hour, a.Minute, a.AmPm)
}

func paymentNote(p repo.Payment) string {
	switch {
	case p.Amount == 0:
		return "No payment is due."
	case p.Status.Settled():
		return "Payment received."
	case p.Method == repo.PaymentCash:
		return "Please pay at the hospital counter."
	default:
		return "Payment " + strings.ToLower(string(p.Status)) + "."
	}
}
