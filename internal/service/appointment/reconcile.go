package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/checkout"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
)

// Confirm settles the appointment behind a paid checkout session. Calling it
// again for the same session returns the stored appointment unchanged.
func (s *appointmentService) Confirm(ctx context.Context, sessionID string) (*repo.ServiceAppointment, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}
	if s.gateway == nil {
		return nil, ErrPaymentNotConfigured
	}

	sess, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		s.metrics.reconciled(ctx, "provider_error")
		return nil, fmt.Errorf("%w: %w", ErrPaymentProvider, err)
	}
	if sess.PaymentStatus != checkout.PaymentStatusPaid {
		s.metrics.reconciled(ctx, "unpaid")
		return nil, ErrPaymentNotCompleted
	}

	now := s.now()
	a, updated, err := s.db.MarkPaidBySession(ctx, sessionID, sess.PaymentIntentID, now, confirmableFrom())
	if repo.IsNotFound(err) {
		a, updated, err = s.markPaidByMetadata(ctx, sess, now)
	}
	if err != nil {
		if repo.IsNotFound(err) {
			s.metrics.reconciled(ctx, "not_found")
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("reconcile session: %w", err)
	}

	if a.Status != repo.StatusConfirmed {
		slog.Warn("payment settled on an appointment that cannot be confirmed",
			"appointment_id", a.ID, "status", a.Status, "session_id", sessionID)
	}
	if updated {
		s.metrics.reconciled(ctx, "paid")
		s.publish(events.Paid, a.ID)
	} else {
		s.metrics.reconciled(ctx, "already_paid")
	}
	return a, nil
}

// markPaidByMetadata covers sessions whose id never reached the database but
// which carry the appointment id in their metadata.
func (s *appointmentService) markPaidByMetadata(ctx context.Context, sess *checkout.Session, now time.Time) (*repo.ServiceAppointment, bool, error) {
	id, err := uuid.Parse(sess.Metadata["appointmentId"])
	if err != nil {
		return nil, false, repo.ErrNotFound
	}
	return s.db.MarkPaidByID(ctx, id, sess.PaymentIntentID, now, confirmableFrom())
}

// ReturnURL resolves the frontend page the provider redirect lands on. A
// "cancel" outcome never touches the provider. For success the session is
// reconciled and a failure to do so is reported as Failed, not as an error.
func (s *appointmentService) ReturnURL(ctx context.Context, sessionID, outcome string, origin RequestOrigin) (string, error) {
	base, ok := frontendBase(s.opts.FrontendURL, origin)
	if !ok {
		return "", ErrMissingFrontendBase
	}

	result := "Cancelled"
	if !strings.EqualFold(strings.TrimSpace(outcome), "cancel") {
		result = "Paid"
		if _, err := s.Confirm(ctx, sessionID); err != nil {
			slog.Warn("checkout return could not be reconciled", "session_id", sessionID, "error", err)
			result = "Failed"
		}
	}
	return base + "/appointments?service_payment=" + result, nil
}
