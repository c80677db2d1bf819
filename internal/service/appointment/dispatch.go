package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/checkout"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
)

const (
	pathFree   = "free"
	pathCash   = "cash"
	pathOnline = "online"
)

// Book validates req, guards against a duplicate slot and creates the
// appointment along the free, cash or online path. The online path opens a
// checkout session first and returns its URL.
func (s *appointmentService) Book(ctx context.Context, actor Actor, req BookRequest, origin RequestOrigin) (*BookResult, error) {
	if actor.Subject == "" {
		return nil, ErrIdentityRequired
	}

	b, err := Normalize(req, s.lookupService(ctx, req.ServiceID))
	if err != nil {
		return nil, err
	}

	dup, err := s.db.FindActiveDuplicate(ctx, b.slotKey(actor.Subject))
	if err != nil {
		slog.Warn("duplicate booking check failed, continuing", "service_id", b.ServiceID, "error", err)
	}
	if dup {
		return nil, ErrDuplicateBooking
	}

	switch {
	case b.Amount == 0:
		return s.bookFree(ctx, actor, b)
	case b.PaymentMethod == repo.PaymentCash:
		return s.bookCash(ctx, actor, b)
	default:
		return s.bookOnline(ctx, actor, b, origin)
	}
}

// lookupService returns nil when the service cannot be read. Booking still
// proceeds if the body carries the amount.
func (s *appointmentService) lookupService(ctx context.Context, raw string) *repo.Service {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	svc, err := s.db.GetService(ctx, id)
	if err != nil {
		if !repo.IsNotFound(err) {
			slog.Warn("service lookup failed during booking", "service_id", id, "error", err)
		}
		return nil
	}
	return svc
}

func (s *appointmentService) bookFree(ctx context.Context, actor Actor, b Booking) (*BookResult, error) {
	now := s.now()
	rec := b.record(actor.Subject)
	rec.Status = repo.StatusPending
	rec.Payment = repo.Payment{
		Method: repo.PaymentCash,
		Status: repo.PaymentPending,
		Amount: 0,
		PaidAt: &now,
	}
	return s.insert(ctx, rec, pathFree)
}

func (s *appointmentService) bookCash(ctx context.Context, actor Actor, b Booking) (*BookResult, error) {
	rec := b.record(actor.Subject)
	rec.Status = repo.StatusPending
	rec.Payment = repo.Payment{
		Method: repo.PaymentCash,
		Status: repo.PaymentPending,
		Amount: b.Amount,
		Meta:   b.Meta,
	}
	return s.insert(ctx, rec, pathCash)
}

func (s *appointmentService) bookOnline(ctx context.Context, actor Actor, b Booking, origin RequestOrigin) (*BookResult, error) {
	// Amounts below half a minor unit would open a zero-priced session.
	unitAmount := int64(math.Round(b.Amount * 100))
	if unitAmount < 1 {
		return nil, ErrInvalidAmount
	}
	if s.gateway == nil {
		return nil, ErrPaymentNotConfigured
	}
	base, ok := frontendBase(s.opts.FrontendURL, origin)
	if !ok {
		return nil, ErrMissingFrontendBase
	}

	sess, err := s.gateway.CreateSession(ctx, checkout.SessionParams{
		SuccessURL:    base + "/service-appointments/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     base + "/service-appointments/cancel",
		Currency:      s.opts.Currency,
		ProductName:   "Service: " + truncate(b.ServiceName, 60),
		Description:   fmt.Sprintf("Appointment on %s %d:%02d %s", b.Date, b.Clock.Hour, b.Clock.Minute, b.Clock.AmPm),
		UnitAmount:    unitAmount,
		CustomerEmail: b.Email,
		Metadata: map[string]string{
			"serviceId":       b.ServiceID.String(),
			"serviceName":     truncate(b.ServiceName, 200),
			"patientName":     b.PatientName,
			"mobile":          b.Mobile,
			"clerkUserId":     actor.Subject,
			"serviceImageUrl": truncate(b.ServiceImage.URL, 200),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentProvider, err)
	}

	rec := b.record(actor.Subject)
	rec.Status = repo.StatusConfirmed
	rec.Payment = repo.Payment{
		Method:    repo.PaymentOnline,
		Status:    repo.PaymentPending,
		Amount:    b.Amount,
		SessionID: sess.ID,
		Meta:      b.Meta,
	}

	res, err := s.insert(ctx, rec, pathOnline)
	if err != nil {
		// The customer may already be on the hosted page; keep enough to
		// reconcile the session by hand.
		slog.Error("checkout session created but appointment not stored",
			"session_id", sess.ID, "amount", b.Amount, "service_id", b.ServiceID, "error", err)
		if errors.Is(err, ErrDuplicateBooking) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRecordPersistence, err)
	}

	url := sess.URL
	res.CheckoutURL = &url
	return res, nil
}

func (s *appointmentService) insert(ctx context.Context, rec *repo.ServiceAppointment, path string) (*BookResult, error) {
	a, err := s.db.CreateAppointment(ctx, rec)
	if err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.metrics.booked(ctx, path)
	s.publish(events.Booked, a.ID)
	return &BookResult{Appointment: a}, nil
}

func (s *appointmentService) publish(kind events.Kind, id uuid.UUID) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(kind, id); err != nil {
		slog.Warn("publish appointment event", "kind", kind, "appointment_id", id, "error", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
