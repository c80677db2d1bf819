// Package events publishes appointment lifecycle events on NATS.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type Kind string

const (
	Booked      Kind = "booked"
	Paid        Kind = "paid"
	Canceled    Kind = "canceled"
	Rescheduled Kind = "rescheduled"
)

const subjectPrefix = "hospital.appointment"

// Subject returns the subject an event for appointment id is published on,
// e.g. hospital.appointment.paid.<id>.
func Subject(kind Kind, id uuid.UUID) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, kind, id)
}

// Wildcard matches every event of kind.
func Wildcard(kind Kind) string {
	return fmt.Sprintf("%s.%s.*", subjectPrefix, kind)
}

type Event struct {
	Kind          Kind      `json:"kind"`
	AppointmentID uuid.UUID `json:"appointmentId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}

// Publisher is a no-op when built without a connection.
type Publisher struct {
	nc  *nats.Conn
	now func() time.Time
}

func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc, now: time.Now}
}

func (p *Publisher) Publish(kind Kind, id uuid.UUID) error {
	if p == nil || p.nc == nil {
		return nil
	}
	data, err := json.Marshal(Event{Kind: kind, AppointmentID: id, OccurredAt: p.now().UTC()})
	if err != nil {
		return err
	}
	return p.nc.Publish(Subject(kind, id), data)
}
