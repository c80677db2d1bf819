package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestSubject(t *testing.T) {
	id := uuid.MustParse("0190a0b1-0000-7000-8000-000000000001")
	if got, want := Subject(Paid, id), "hospital.appointment.paid."+id.String(); got != want {
		t.Errorf("Subject = %q, want %q", got, want)
	}
	if got, want := Wildcard(Canceled), "hospital.appointment.canceled.*"; got != want {
		t.Errorf("Wildcard = %q, want %q", got, want)
	}
}

func TestPublishWithoutConnection(t *testing.T) {
	var nilPub *Publisher
	if err := nilPub.Publish(Booked, uuid.New()); err != nil {
		t.Fatalf("nil publisher: %v", err)
	}
	if err := NewPublisher(nil).Publish(Booked, uuid.New()); err != nil {
		t.Fatalf("publisher without conn: %v", err)
	}
}

func TestDecode(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected decode error")
	}
	e, err := Decode([]byte(`{"kind":"booked","appointmentId":"0190a0b1-0000-7000-8000-000000000001","occurredAt":"2025-01-12T10:00:00Z"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if e.Kind != Booked || e.AppointmentID.String() != "0190a0b1-0000-7000-8000-000000000001" {
		t.Errorf("decoded %+v", e)
	}
}
