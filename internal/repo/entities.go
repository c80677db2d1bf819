package repo

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "Pending"
	StatusConfirmed   AppointmentStatus = "Confirmed"
	StatusRescheduled AppointmentStatus = "Rescheduled"
	StatusCompleted   AppointmentStatus = "Completed"
	StatusCanceled    AppointmentStatus = "Canceled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRescheduled, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	// PaymentConfirmed is what the admin dashboard writes for a settled payment.
	PaymentConfirmed PaymentStatus = "Confirmed"
	PaymentCanceled  PaymentStatus = "Canceled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentConfirmed, PaymentCanceled:
		return true
	}
	return false
}

// Settled reports whether money has been collected.
func (s PaymentStatus) Settled() bool {
	return s == PaymentPaid || s == PaymentConfirmed
}

type Image struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type Payment struct {
	Method     PaymentMethod  `json:"method"`
	Status     PaymentStatus  `json:"status"`
	Amount     float64        `json:"amount"`
	SessionID  string         `json:"sessionId,omitempty"`
	ProviderID string         `json:"providerId,omitempty"`
	PaidAt     *time.Time     `json:"paidAt,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// Reschedule keeps the slot an appointment held before it was moved.
type Reschedule struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type ServiceAppointment struct {
	ID           uuid.UUID `json:"id"`
	ServiceID    uuid.UUID `json:"serviceId"`
	ServiceName  string    `json:"serviceName"`
	ServiceImage Image     `json:"serviceImage"`

	PatientName string `json:"patientName"`
	Mobile      string `json:"mobile"`
	Age         *int   `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Email       string `json:"email,omitempty"`

	// Date is a calendar date in YYYY-MM-DD form.
	Date          string      `json:"date"`
	Hour          int         `json:"hour"`
	Minute        int         `json:"minute"`
	AmPm          string      `json:"ampm"`
	RescheduledTo *Reschedule `json:"rescheduledTo,omitempty"`

	Fees    float64           `json:"fees"`
	Payment Payment           `json:"payment"`
	Status  AppointmentStatus `json:"status"`
	Notes   string            `json:"notes"`

	CreatedBy *string   `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotKey identifies the slot guarded against double booking.
type SlotKey struct {
	ServiceID uuid.UUID
	CreatedBy string
	Date      string
	Hour      int
	Minute    int
	AmPm      string
}

type Service struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	About            string              `json:"about"`
	ShortDescription string              `json:"shortDescription"`
	Price            float64             `json:"price"`
	Available        bool                `json:"available"`
	ImageURL         string              `json:"imageUrl,omitempty"`
	ImageKey         string              `json:"imageKey,omitempty"`
	Slots            map[string][]string `json:"slots"`
	Instructions     []string            `json:"instructions"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type AppointmentFilter struct {
	ServiceID *uuid.UUID
	Mobile    string
	Status    AppointmentStatus
	Search    string
	Limit     int
	Offset    int
}

type ServiceStat struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Price             float64   `json:"price"`
	Image             string    `json:"image"`
	TotalAppointments int       `json:"totalAppointments"`
	Completed         int       `json:"completed"`
	Canceled          int       `json:"canceled"`
	Earning           float64   `json:"earning"`
}
