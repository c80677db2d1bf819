package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/checkout"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
)

// ---------------------------------------------------------------------------
// Dependencies
// ---------------------------------------------------------------------------

// Store is the persistence the service needs. *repo.Client implements it.
type Store interface {
	GetService(ctx context.Context, id uuid.UUID) (*repo.Service, error)
	FindActiveDuplicate(ctx context.Context, k repo.SlotKey) (bool, error)
	CreateAppointment(ctx context.Context, a *repo.ServiceAppointment) (*repo.ServiceAppointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*repo.ServiceAppointment, error)
	ListAppointments(ctx context.Context, f repo.AppointmentFilter) ([]repo.ServiceAppointment, int, error)
	ListAppointmentsByOwner(ctx context.Context, createdBy, mobile string) ([]repo.ServiceAppointment, error)
	MarkPaidBySession(ctx context.Context, sessionID, providerID string, paidAt time.Time, confirmFrom []repo.AppointmentStatus) (*repo.ServiceAppointment, bool, error)
	MarkPaidByID(ctx context.Context, id uuid.UUID, providerID string, paidAt time.Time, confirmFrom []repo.AppointmentStatus) (*repo.ServiceAppointment, bool, error)
	UpdateAppointment(ctx context.Context, a *repo.ServiceAppointment) (*repo.ServiceAppointment, error)
	ServiceStats(ctx context.Context) ([]repo.ServiceStat, error)
}

// Publisher announces lifecycle changes. Failures never fail the operation.
type Publisher interface {
	Publish(kind events.Kind, id uuid.UUID) error
}

type Options struct {
	// FrontendURL overrides the request origin when building checkout return URLs.
	FrontendURL string
	Currency    string
	// RestrictCancelToOwner limits non-admin cancellation to the booking's creator.
	RestrictCancelToOwner bool
}

// Actor is the authenticated caller. Subject is empty for anonymous requests.
type Actor struct {
	Subject string
	Admin   bool
}

// RequestOrigin carries the headers used to derive the frontend base URL.
type RequestOrigin struct {
	Origin  string
	Referer string
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookResult struct {
	Appointment *repo.ServiceAppointment
	// CheckoutURL is set for online payments only.
	CheckoutURL *string
}

type ListRequest struct {
	ServiceID string
	Mobile    string
	Status    string
	Search    string
	Page      int
	Limit     int
}

type ListMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}

type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type PaymentUpdate struct {
	Method *string `json:"method"`
	Status *string `json:"status"`
	Amount *Number `json:"amount"`
}

// UpdateRequest is a partial admin update. Nil fields are left alone.
type UpdateRequest struct {
	Status        *string            `json:"status"`
	Notes         *string            `json:"notes"`
	Payment       *PaymentUpdate     `json:"payment"`
	RescheduledTo *RescheduleRequest `json:"rescheduledTo"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Book(ctx context.Context, actor Actor, req BookRequest, origin RequestOrigin) (*BookResult, error)
	Confirm(ctx context.Context, sessionID string) (*repo.ServiceAppointment, error)
	ReturnURL(ctx context.Context, sessionID, outcome string, origin RequestOrigin) (string, error)

	Get(ctx context.Context, id uuid.UUID) (*repo.ServiceAppointment, error)
	List(ctx context.Context, req ListRequest) ([]repo.ServiceAppointment, ListMeta, error)
	Mine(ctx context.Context, actor Actor, mobile string) ([]repo.ServiceAppointment, error)
	Stats(ctx context.Context) ([]repo.ServiceStat, error)

	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.ServiceAppointment, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*repo.ServiceAppointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*repo.ServiceAppointment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	db      Store
	gateway checkout.Gateway
	events  Publisher
	opts    Options
	metrics *metrics
	now     func() time.Time
}

// New builds the service. gateway may be nil when online payments are not
// configured; events may be nil to disable publishing.
func New(db Store, gateway checkout.Gateway, events Publisher, opts Options) Service {
	if opts.Currency == "" {
		opts.Currency = "inr"
	}
	opts.Currency = strings.ToLower(opts.Currency)
	return &appointmentService{
		db:      db,
		gateway: gateway,
		events:  events,
		opts:    opts,
		metrics: newMetrics(),
		now:     time.Now,
	}
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (s *appointmentService) Get(ctx context.Context, id uuid.UUID) (*repo.ServiceAppointment, error) {
	a, err := s.db.GetAppointment(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

func (s *appointmentService) List(ctx context.Context, req ListRequest) ([]repo.ServiceAppointment, ListMeta, error) {
	page, limit := clampPage(req.Page, req.Limit)
	f := repo.AppointmentFilter{
		Mobile: strings.TrimSpace(req.Mobile),
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if v := strings.TrimSpace(req.ServiceID); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, ListMeta{}, ErrInvalidServiceID
		}
		f.ServiceID = &id
	}
	if v := strings.TrimSpace(req.Status); v != "" {
		st, err := parseStatus(v)
		if err != nil {
			return nil, ListMeta{}, err
		}
		f.Status = st
	}

	items, total, err := s.db.ListAppointments(ctx, f)
	if err != nil {
		return nil, ListMeta{}, fmt.Errorf("list appointments: %w", err)
	}
	return items, ListMeta{Total: total, Page: page, Limit: limit, Count: len(items)}, nil
}

func clampPage(page, limit int) (int, int) {
	if limit == 0 {
		limit = defaultListLimit
	}
	limit = max(1, min(limit, maxListLimit))
	return max(page, 1), limit
}

func (s *appointmentService) Mine(ctx context.Context, actor Actor, mobile string) ([]repo.ServiceAppointment, error) {
	mobile = strings.TrimSpace(mobile)
	if actor.Subject == "" && mobile == "" {
		return nil, ErrIdentityRequired
	}
	items, err := s.db.ListAppointmentsByOwner(ctx, actor.Subject, mobile)
	if err != nil {
		return nil, fmt.Errorf("list own appointments: %w", err)
	}
	return items, nil
}

func (s *appointmentService) Stats(ctx context.Context) ([]repo.ServiceStat, error) {
	stats, err := s.db.ServiceStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("service stats: %w", err)
	}
	return stats, nil
}

// save persists a and maps store conflicts onto service errors.
func (s *appointmentService) save(ctx context.Context, a *repo.ServiceAppointment) (*repo.ServiceAppointment, error) {
	out, err := s.db.UpdateAppointment(ctx, a)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, repo.ErrStale):
		return nil, ErrConcurrentUpdate
	case repo.IsNotFound(err):
		return nil, ErrNotFound
	case repo.IsUniqueViolation(err):
		return nil, ErrDuplicateBooking
	}
	return nil, fmt.Errorf("update appointment: %w", err)
}
