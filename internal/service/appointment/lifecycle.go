package appointment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
)

// Cancel marks the appointment Canceled. Canceling twice returns the record
// unchanged; a completed appointment cannot be canceled.
func (s *appointmentService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*repo.ServiceAppointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.opts.RestrictCancelToOwner && !actor.Admin {
		if actor.Subject == "" || a.CreatedBy == nil || *a.CreatedBy != actor.Subject {
			return nil, ErrForbidden
		}
	}

	switch a.Status {
	case repo.StatusCompleted:
		return nil, ErrAlreadyCompleted
	case repo.StatusCanceled:
		return a, nil
	}

	a.Status = repo.StatusCanceled
	if a.Payment.Status.Settled() {
		a.Payment.Status = repo.PaymentCanceled
	}

	out, err := s.save(ctx, a)
	if err != nil {
		return nil, err
	}
	s.publish(events.Canceled, out.ID)
	return out, nil
}

func (s *appointmentService) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*repo.ServiceAppointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyReschedule(a, req, s.today()); err != nil {
		return nil, err
	}

	out, err := s.save(ctx, a)
	if err != nil {
		return nil, err
	}
	s.publish(events.Rescheduled, out.ID)
	return out, nil
}

// Update applies a partial admin edit. Every status change, explicit or
// implied by the payment fields, goes through the transition table.
func (s *appointmentService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.ServiceAppointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := a.Status

	// implied is a status derived from the other fields; it is dropped
	// rather than rejected when the table does not allow it.
	var (
		next    repo.AppointmentStatus
		implied repo.AppointmentStatus
	)
	if req.Status != nil {
		if next, err = parseStatus(strings.TrimSpace(*req.Status)); err != nil {
			return nil, err
		}
	}

	if req.RescheduledTo != nil {
		if err := applyReschedule(a, *req.RescheduledTo, s.today()); err != nil {
			return nil, err
		}
		a.Status = from
		if next == "" {
			next = repo.StatusRescheduled
		}
	}

	if p := req.Payment; p != nil {
		if p.Method != nil {
			switch strings.ToLower(strings.TrimSpace(*p.Method)) {
			case "online":
				a.Payment.Method = repo.PaymentOnline
				implied = repo.StatusConfirmed
			case "cash":
				a.Payment.Method = repo.PaymentCash
			default:
				return nil, ErrInvalidPayment
			}
		}
		if p.Status != nil {
			ps := repo.PaymentStatus(strings.TrimSpace(*p.Status))
			if !ps.Valid() {
				return nil, ErrInvalidPayment
			}
			a.Payment.Status = ps
			if ps.Settled() {
				implied = repo.StatusConfirmed
				if a.Payment.PaidAt == nil {
					now := s.now()
					a.Payment.PaidAt = &now
				}
			}
		}
		if p.Amount.IsSet() {
			v, ok := p.Amount.Float()
			if !ok || !validAmount(v) {
				return nil, ErrInvalidAmount
			}
			a.Payment.Amount = v
		}
	}

	if req.Notes != nil {
		a.Notes = *req.Notes
	}

	if next == "" && implied != "" && CanTransition(from, implied) {
		next = implied
	}
	if next != "" && next != from {
		if !CanTransition(from, next) {
			return nil, ErrInvalidTransition
		}
		a.Status = next
	}

	out, err := s.save(ctx, a)
	if err != nil {
		return nil, err
	}

	if out.Status != from {
		switch out.Status {
		case repo.StatusCanceled:
			s.publish(events.Canceled, out.ID)
		case repo.StatusRescheduled:
			s.publish(events.Rescheduled, out.ID)
		}
	}
	return out, nil
}

// applyReschedule moves a to the requested slot and records the slot it held
// before. today is YYYY-MM-DD.
func applyReschedule(a *repo.ServiceAppointment, req RescheduleRequest, today string) error {
	date := strings.TrimSpace(req.Date)
	clock := strings.TrimSpace(req.Time)
	if date == "" && clock == "" {
		return ErrEmptyReschedule
	}

	switch a.Status {
	case repo.StatusCompleted:
		return ErrAlreadyCompleted
	case repo.StatusCanceled:
		return ErrInvalidTransition
	}

	prior := repo.Reschedule{
		Date: a.Date,
		Time: Clock{Hour: a.Hour, Minute: a.Minute, AmPm: a.AmPm}.String(),
	}

	if date != "" {
		if !validDate(date) {
			return ErrInvalidDate
		}
		if date < today {
			return ErrPastDateRejected
		}
	}

	var c Clock
	if clock != "" {
		var ok bool
		if c, ok = ParseTime(clock); !ok {
			return ErrInvalidTime
		}
	}

	if date != "" {
		a.Date = date
	}
	if clock != "" {
		a.Hour, a.Minute, a.AmPm = c.Hour, c.Minute, c.AmPm
	}
	a.RescheduledTo = &prior
	a.Status = repo.StatusRescheduled
	return nil
}

func (s *appointmentService) today() string {
	return s.now().Format(dateLayout)
}
