package appointment

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
)

func bookOnline(t *testing.T, f *fixture) *repo.ServiceAppointment {
	t.Helper()
	svc := f.store.addService(500)
	res, err := f.svc.Book(context.Background(), patient, validRequest(svc.ID), browser)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	return res.Appointment
}

func TestConfirmIdempotent(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()
	a := bookOnline(t, f)
	sid := a.Payment.SessionID
	f.gw.pay(sid)

	first, err := f.svc.Confirm(ctx, "  "+sid+" ")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if first.Status != repo.StatusConfirmed || first.Payment.Status != repo.PaymentPaid {
		t.Fatalf("after Confirm: status %s payment %s", first.Status, first.Payment.Status)
	}
	if first.Payment.ProviderID != "pi_"+sid {
		t.Errorf("ProviderID = %q", first.Payment.ProviderID)
	}

	f.svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	second, err := f.svc.Confirm(ctx, sid)
	if err != nil {
		t.Fatalf("second Confirm() error = %v", err)
	}
	if !second.Payment.PaidAt.Equal(*first.Payment.PaidAt) {
		t.Errorf("PaidAt moved from %v to %v", first.Payment.PaidAt, second.Payment.PaidAt)
	}

	paid := 0
	for _, k := range f.pub.kinds() {
		if k == events.Paid {
			paid++
		}
	}
	if paid != 1 {
		t.Errorf("paid events = %d, want 1", paid)
	}
}

func TestConfirmErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing session id", func(t *testing.T) {
		f := newFixture(Options{})
		if _, err := f.svc.Confirm(ctx, " "); !errors.Is(err, ErrMissingSessionID) {
			t.Errorf("Confirm() error = %v, want ErrMissingSessionID", err)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		f := newFixture(Options{}).withoutGateway()
		if _, err := f.svc.Confirm(ctx, "cs_1"); !errors.Is(err, ErrPaymentNotConfigured) {
			t.Errorf("Confirm() error = %v, want ErrPaymentNotConfigured", err)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newFixture(Options{})
		f.gw.getErr = errors.New("503")
		if _, err := f.svc.Confirm(ctx, "cs_1"); !errors.Is(err, ErrPaymentProvider) {
			t.Errorf("Confirm() error = %v, want ErrPaymentProvider", err)
		}
	})

	t.Run("unpaid session", func(t *testing.T) {
		f := newFixture(Options{})
		a := bookOnline(t, f)
		if _, err := f.svc.Confirm(ctx, a.Payment.SessionID); !errors.Is(err, ErrPaymentNotCompleted) {
			t.Errorf("Confirm() error = %v, want ErrPaymentNotCompleted", err)
		}
		got, _ := f.store.GetAppointment(ctx, a.ID)
		if got.Payment.Status != repo.PaymentPending {
			t.Errorf("payment status = %s, want Pending", got.Payment.Status)
		}
	})

	t.Run("no matching record", func(t *testing.T) {
		f := newFixture(Options{})
		sess, _ := f.gw.CreateSession(ctx, checkoutParams())
		f.gw.pay(sess.ID)
		if _, err := f.svc.Confirm(ctx, sess.ID); !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("Confirm() error = %v, want ErrRecordNotFound", err)
		}
	})
}

func TestConfirmMetadataFallback(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()

	stored := f.store.put(repo.ServiceAppointment{
		ServiceID: uuid.New(),
		Date:      "2025-07-01", Hour: 9, AmPm: "AM",
		Status:  repo.StatusPending,
		Payment: repo.Payment{Method: repo.PaymentOnline, Status: repo.PaymentPending, Amount: 100},
	})

	p := checkoutParams()
	p.Metadata = map[string]string{"appointmentId": stored.ID.String()}
	sess, _ := f.gw.CreateSession(ctx, p)
	f.gw.pay(sess.ID)

	a, err := f.svc.Confirm(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if a.ID != stored.ID || a.Payment.Status != repo.PaymentPaid || a.Status != repo.StatusConfirmed {
		t.Errorf("Confirm() = %+v", a)
	}
}

func TestConfirmKeepsTerminalStatus(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()
	a := bookOnline(t, f)
	if _, err := f.svc.Cancel(ctx, patient, a.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	f.gw.pay(a.Payment.SessionID)

	got, err := f.svc.Confirm(ctx, a.Payment.SessionID)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if got.Status != repo.StatusCanceled {
		t.Errorf("Status = %s, want Canceled", got.Status)
	}
	if got.Payment.Status != repo.PaymentPaid {
		t.Errorf("payment status = %s, want Paid", got.Payment.Status)
	}
}

func TestReturnURL(t *testing.T) {
	ctx := context.Background()

	t.Run("paid", func(t *testing.T) {
		f := newFixture(Options{FrontendURL: "https://care.example.com/"})
		a := bookOnline(t, f)
		f.gw.pay(a.Payment.SessionID)
		got, err := f.svc.ReturnURL(ctx, a.Payment.SessionID, "success", RequestOrigin{})
		if err != nil {
			t.Fatalf("ReturnURL() error = %v", err)
		}
		if got != "https://care.example.com/appointments?service_payment=Paid" {
			t.Errorf("ReturnURL() = %q", got)
		}
	})

	t.Run("unpaid is failed", func(t *testing.T) {
		f := newFixture(Options{})
		a := bookOnline(t, f)
		got, err := f.svc.ReturnURL(ctx, a.Payment.SessionID, "", browser)
		if err != nil {
			t.Fatalf("ReturnURL() error = %v", err)
		}
		if got != "http://localhost:5173/appointments?service_payment=Failed" {
			t.Errorf("ReturnURL() = %q", got)
		}
	})

	t.Run("cancel skips the provider", func(t *testing.T) {
		f := newFixture(Options{})
		f.gw.getErr = errors.New("must not be called")
		got, err := f.svc.ReturnURL(ctx, "cs_x", "cancel", browser)
		if err != nil {
			t.Fatalf("ReturnURL() error = %v", err)
		}
		if got != "http://localhost:5173/appointments?service_payment=Cancelled" {
			t.Errorf("ReturnURL() = %q", got)
		}
	})

	t.Run("no base", func(t *testing.T) {
		f := newFixture(Options{})
		if _, err := f.svc.ReturnURL(ctx, "cs_x", "cancel", RequestOrigin{}); !errors.Is(err, ErrMissingFrontendBase) {
			t.Errorf("ReturnURL() error = %v, want ErrMissingFrontendBase", err)
		}
	})
}

// Online booking, provider says paid, redirect reconciles: Confirmed and Paid.
func TestOnlineBookingEndToEnd(t *testing.T) {
	f := newFixture(Options{})
	ctx := context.Background()
	svc := f.store.addService(500)

	res, err := f.svc.Book(ctx, patient, validRequest(svc.ID), browser)
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if res.CheckoutURL == nil {
		t.Fatal("CheckoutURL is nil")
	}
	if f.gw.created[0].UnitAmount != 50000 {
		t.Errorf("UnitAmount = %d, want 50000", f.gw.created[0].UnitAmount)
	}

	sid := res.Appointment.Payment.SessionID
	f.gw.pay(sid)
	if _, err := f.svc.Confirm(ctx, sid); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}

	got, err := f.svc.Get(ctx, res.Appointment.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != repo.StatusConfirmed || got.Payment.Status != repo.PaymentPaid || got.Payment.PaidAt == nil {
		t.Errorf("stored appointment = status %s payment %+v", got.Status, got.Payment)
	}
	if want := []events.Kind{events.Booked, events.Paid}; !slices.Equal(f.pub.kinds(), want) {
		t.Errorf("events = %v, want %v", f.pub.kinds(), want)
	}
}
