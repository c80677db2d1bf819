package appointment

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/checkout"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
)

var fixedNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

// memStore mirrors the store semantics that matter to the service: the active
// slot index, conditional mark-paid and optimistic updates.
type memStore struct {
	mu       sync.Mutex
	services map[uuid.UUID]*repo.Service
	appts    map[uuid.UUID]*repo.ServiceAppointment
	tick     time.Time

	serviceErr error
	dupErr     error
	createErr  error
	creates    int
}

func newMemStore() *memStore {
	return &memStore{
		services: map[uuid.UUID]*repo.Service{},
		appts:    map[uuid.UUID]*repo.ServiceAppointment{},
		tick:     fixedNow,
	}
}

func (m *memStore) addService(price float64) *repo.Service {
	svc := &repo.Service{ID: uuid.New(), Name: "Blood Test", Price: price, Available: true, ImageURL: "https://img/blood.png"}
	m.services[svc.ID] = svc
	return svc
}

func (m *memStore) put(a repo.ServiceAppointment) *repo.ServiceAppointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.UpdatedAt = m.next()
	m.appts[a.ID] = &a
	cp := a
	return &cp
}

func (m *memStore) next() time.Time {
	m.tick = m.tick.Add(time.Millisecond)
	return m.tick
}

func (m *memStore) GetService(_ context.Context, id uuid.UUID) (*repo.Service, error) {
	if m.serviceErr != nil {
		return nil, m.serviceErr
	}
	svc, ok := m.services[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *svc
	return &cp, nil
}

func (m *memStore) FindActiveDuplicate(_ context.Context, k repo.SlotKey) (bool, error) {
	if m.dupErr != nil {
		return false, m.dupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holds(k), nil
}

func (m *memStore) holds(k repo.SlotKey) bool {
	for _, a := range m.appts {
		if a.Status == repo.StatusCanceled || a.CreatedBy == nil {
			continue
		}
		if a.ServiceID == k.ServiceID && *a.CreatedBy == k.CreatedBy && a.Date == k.Date &&
			a.Hour == k.Hour && a.Minute == k.Minute && a.AmPm == k.AmPm {
			return true
		}
	}
	return false
}

func (m *memStore) CreateAppointment(_ context.Context, a *repo.ServiceAppointment) (*repo.ServiceAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if a.CreatedBy != nil && m.holds(repo.SlotKey{
		ServiceID: a.ServiceID, CreatedBy: *a.CreatedBy, Date: a.Date,
		Hour: a.Hour, Minute: a.Minute, AmPm: a.AmPm,
	}) {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	cp := *a
	cp.ID = uuid.New()
	cp.CreatedAt = m.tick
	cp.UpdatedAt = m.next()
	m.appts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetAppointment(_ context.Context, id uuid.UUID) (*repo.ServiceAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) ListAppointments(_ context.Context, f repo.AppointmentFilter) ([]repo.ServiceAppointment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []repo.ServiceAppointment
	for _, a := range m.appts {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.ServiceID != nil && a.ServiceID != *f.ServiceID {
			continue
		}
		all = append(all, *a)
	}
	total := len(all)
	start := min(f.Offset, total)
	end := min(start+f.Limit, total)
	return all[start:end], total, nil
}

func (m *memStore) ListAppointmentsByOwner(_ context.Context, createdBy, mobile string) ([]repo.ServiceAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []repo.ServiceAppointment{}
	for _, a := range m.appts {
		if createdBy != "" && (a.CreatedBy == nil || *a.CreatedBy != createdBy) {
			continue
		}
		if mobile != "" && a.Mobile != mobile {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

// MarkPaidBySession mirrors (*repo.Client).markPaid: the row only changes while
// payment_status <> 'Paid', so a second call reports changed=false.
func (m *memStore) MarkPaidBySession(_ context.Context, sessionID, providerID string, paidAt time.Time, from []repo.AppointmentStatus) (*repo.ServiceAppointment, bool, error) {
	return m.markPaid(func(a *repo.ServiceAppointment) bool { return a.Payment.SessionID == sessionID }, providerID, paidAt, from)
}

func (m *memStore) MarkPaidByID(_ context.Context, id uuid.UUID, providerID string, paidAt time.Time, from []repo.AppointmentStatus) (*repo.ServiceAppointment, bool, error) {
	return m.markPaid(func(a *repo.ServiceAppointment) bool { return a.ID == id }, providerID, paidAt, from)
}

func (m *memStore) markPaid(match func(*repo.ServiceAppointment) bool, providerID string, paidAt time.Time, from []repo.AppointmentStatus) (*repo.ServiceAppointment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.appts {
		if !match(a) {
			continue
		}
		// payment_status <> 'Paid'
		if a.Payment.Status == repo.PaymentPaid {
			cp := *a
			return &cp, false, nil
		}
		a.Payment.Status = repo.PaymentPaid
		a.Payment.ProviderID = providerID
		a.Payment.PaidAt = &paidAt
		if slices.Contains(from, a.Status) {
			a.Status = repo.StatusConfirmed
		}
		a.UpdatedAt = m.next()
		cp := *a
		return &cp, true, nil
	}
	return nil, false, repo.ErrNotFound
}

func (m *memStore) UpdateAppointment(_ context.Context, a *repo.ServiceAppointment) (*repo.ServiceAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.appts[a.ID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if !cur.UpdatedAt.Equal(a.UpdatedAt) {
		return nil, repo.ErrStale
	}
	cp := *a
	cp.UpdatedAt = m.next()
	m.appts[a.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) ServiceStats(context.Context) ([]repo.ServiceStat, error) {
	return []repo.ServiceStat{}, nil
}

type fakeGateway struct {
	created   []checkout.SessionParams
	sessions  map[string]*checkout.Session
	createErr error
	getErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*checkout.Session{}}
}

func (g *fakeGateway) CreateSession(_ context.Context, p checkout.SessionParams) (*checkout.Session, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, p)
	id := "cs_test_" + uuid.NewString()[:8]
	s := &checkout.Session{ID: id, URL: "https://checkout.test/" + id, PaymentStatus: "unpaid", Metadata: p.Metadata}
	g.sessions[id] = s
	return s, nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*checkout.Session, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	s, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout session")
	}
	cp := *s
	return &cp, nil
}

func checkoutParams() checkout.SessionParams {
	return checkout.SessionParams{Currency: "inr", ProductName: "Service: test", UnitAmount: 100}
}

// pay flips the session to paid, as the provider does after the customer pays.
func (g *fakeGateway) pay(id string) {
	g.sessions[id].PaymentStatus = checkout.PaymentStatusPaid
	g.sessions[id].PaymentIntentID = "pi_" + id
}

type recordedEvent struct {
	kind events.Kind
	id   uuid.UUID
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []recordedEvent
	err  error
}

func (p *fakePublisher) Publish(kind events.Kind, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, recordedEvent{kind, id})
	return p.err
}

func (p *fakePublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Kind, len(p.sent))
	for i, e := range p.sent {
		out[i] = e.kind
	}
	return out
}

type fixture struct {
	store *memStore
	gw    *fakeGateway
	pub   *fakePublisher
	svc   *appointmentService
}

func newFixture(opts Options) *fixture {
	f := &fixture{store: newMemStore(), gw: newFakeGateway(), pub: &fakePublisher{}}
	f.svc = New(f.store, f.gw, f.pub, opts).(*appointmentService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

// withoutGateway rebuilds the service with online payments disabled.
func (f *fixture) withoutGateway() *fixture {
	f.svc = New(f.store, nil, f.pub, f.svc.opts).(*appointmentService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

var patient = Actor{Subject: "patient-1"}
