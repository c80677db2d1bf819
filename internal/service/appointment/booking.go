package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/repo"
)

const dateLayout = "2006-01-02"

// BookRequest is the booking body as sent by the patient frontend. Several
// fields have alternates (amount or fees, time or hour/minute/ampm).
type BookRequest struct {
	ServiceID       string         `json:"serviceId"`
	ServiceName     string         `json:"serviceName"`
	PatientName     string         `json:"patientName"`
	Mobile          string         `json:"mobile"`
	Age             *Number        `json:"age"`
	Gender          string         `json:"gender"`
	Email           string         `json:"email"`
	Date            string         `json:"date"`
	Time            string         `json:"time"`
	Hour            *Number        `json:"hour"`
	Minute          *Number        `json:"minute"`
	AmPm            string         `json:"ampm"`
	PaymentMethod   string         `json:"paymentMethod"`
	Amount          *Number        `json:"amount"`
	Fees            *Number        `json:"fees"`
	Meta            map[string]any `json:"meta"`
	Notes           string         `json:"notes"`
	ServiceImageURL string         `json:"serviceImageUrl"`
	ServiceImageKey string         `json:"serviceImagePublicId"`
}

// Booking is a validated, fully resolved booking.
type Booking struct {
	ServiceID     uuid.UUID
	ServiceName   string
	ServiceImage  repo.Image
	PatientName   string
	Mobile        string
	Age           *int
	Gender        string
	Email         string
	Date          string
	Clock         Clock
	Amount        float64
	PaymentMethod repo.PaymentMethod
	Meta          map[string]any
	Notes         string
}

// Normalize validates req and resolves it into a Booking. svc is the
// referenced service when it could be read, and supplies the default price,
// name and image. It has no side effects.
func Normalize(req BookRequest, svc *repo.Service) (Booking, error) {
	var b Booking

	idStr := strings.TrimSpace(req.ServiceID)
	if idStr == "" {
		return b, ErrMissingServiceID
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return b, ErrInvalidServiceID
	}
	b.ServiceID = id

	if b.PatientName = strings.TrimSpace(req.PatientName); b.PatientName == "" {
		return b, ErrMissingPatientName
	}
	if b.Mobile = strings.TrimSpace(req.Mobile); b.Mobile == "" {
		return b, ErrMissingMobile
	}
	if b.Date = strings.TrimSpace(req.Date); !validDate(b.Date) {
		return b, ErrInvalidDate
	}

	amount, err := resolveAmount(req, svc)
	if err != nil {
		return b, err
	}
	b.Amount = amount

	clock, err := resolveClock(req)
	if err != nil {
		return b, err
	}
	b.Clock = clock

	if req.Age.IsSet() {
		age, ok := req.Age.Int()
		if !ok || age < 0 {
			return b, ErrInvalidAge
		}
		b.Age = &age
	}

	b.Gender = strings.TrimSpace(req.Gender)
	b.Email = strings.TrimSpace(req.Email)
	b.Notes = req.Notes
	b.Meta = req.Meta

	b.PaymentMethod = repo.PaymentOnline
	if req.PaymentMethod == string(repo.PaymentCash) {
		b.PaymentMethod = repo.PaymentCash
	}

	b.ServiceName = strings.TrimSpace(req.ServiceName)
	if b.ServiceName == "" && svc != nil {
		b.ServiceName = strings.TrimSpace(svc.Name)
	}
	if b.ServiceName == "" {
		b.ServiceName = "Service"
	}

	// The stored service image wins over whatever the client echoed back.
	b.ServiceImage = repo.Image{URL: strings.TrimSpace(req.ServiceImageURL), Key: strings.TrimSpace(req.ServiceImageKey)}
	if svc != nil {
		if u := strings.TrimSpace(svc.ImageURL); u != "" {
			b.ServiceImage.URL = u
		}
		if k := strings.TrimSpace(svc.ImageKey); k != "" {
			b.ServiceImage.Key = k
		}
	}

	return b, nil
}

// maxAmount is the largest value payment_amount NUMERIC(12,2) holds.
const maxAmount = 9999999999.99

func validAmount(v float64) bool {
	return v >= 0 && v <= maxAmount
}

func resolveAmount(req BookRequest, svc *repo.Service) (float64, error) {
	var (
		v  float64
		ok bool
	)
	switch {
	case req.Amount.IsSet():
		v, ok = req.Amount.Float()
	case req.Fees.IsSet():
		v, ok = req.Fees.Float()
	case svc != nil:
		v, ok = svc.Price, true
	}
	if !ok || !validAmount(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

func resolveClock(req BookRequest) (Clock, error) {
	if h, ok := req.Hour.Int(); ok {
		m, ok := req.Minute.Int()
		if !ok {
			return Clock{}, ErrInvalidTime
		}
		c := Clock{Hour: h, Minute: m, AmPm: strings.ToUpper(strings.TrimSpace(req.AmPm))}
		if !c.Valid() {
			return Clock{}, ErrInvalidTime
		}
		return c, nil
	}

	if strings.TrimSpace(req.Time) != "" {
		if c, ok := ParseTime(req.Time); ok {
			return c, nil
		}
	}
	return Clock{}, ErrInvalidTime
}

func validDate(s string) bool {
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func (b Booking) slotKey(createdBy string) repo.SlotKey {
	return repo.SlotKey{
		ServiceID: b.ServiceID,
		CreatedBy: createdBy,
		Date:      b.Date,
		Hour:      b.Clock.Hour,
		Minute:    b.Clock.Minute,
		AmPm:      b.Clock.AmPm,
	}
}

// record builds the row to insert; the caller fills in status and payment.
func (b Booking) record(createdBy string) *repo.ServiceAppointment {
	owner := createdBy
	return &repo.ServiceAppointment{
		ServiceID:    b.ServiceID,
		ServiceName:  b.ServiceName,
		ServiceImage: b.ServiceImage,
		PatientName:  b.PatientName,
		Mobile:       b.Mobile,
		Age:          b.Age,
		Gender:       b.Gender,
		Email:        b.Email,
		Date:         b.Date,
		Hour:         b.Clock.Hour,
		Minute:       b.Clock.Minute,
		AmPm:         b.Clock.AmPm,
		Fees:         b.Amount,
		Notes:        b.Notes,
		CreatedBy:    &owner,
	}
}
