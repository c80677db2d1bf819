package appointment

import "errors"

// ErrValidation matches every error caused by the request rather than by state
// outside it. Handlers map it to 400 with the specific message.
var ErrValidation = errors.New("validation failed")

type validationError struct{ msg string }

func (e *validationError) Error() string        { return e.msg }
func (e *validationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &validationError{msg: msg} }

var (
	ErrMissingServiceID    = invalid("serviceId is required")
	ErrInvalidServiceID    = invalid("serviceId is not a valid id")
	ErrMissingPatientName  = invalid("patientName is required")
	ErrMissingMobile       = invalid("mobile is required")
	ErrInvalidDate         = invalid("date is required (YYYY-MM-DD)")
	ErrInvalidAge          = invalid("age must be a whole number")
	ErrInvalidAmount       = invalid("amount/fees must be a valid number")
	ErrInvalidTime         = invalid("time missing or invalid, provide a time string or hour, minute and ampm")
	ErrPastDateRejected    = invalid("cannot reschedule to a past date")
	ErrEmptyReschedule     = invalid("rescheduledTo needs a date or a time")
	ErrInvalidStatus       = invalid("unknown appointment status")
	ErrInvalidPayment      = invalid("unknown payment method or status")
	ErrInvalidTransition   = invalid("status transition not allowed")
	ErrAlreadyCompleted    = invalid("appointment is already completed")
	ErrMissingFrontendBase = invalid("frontend base URL not available, set payment.frontend_url or send an Origin header")
	ErrMissingSessionID    = invalid("session_id is required")
	ErrPaymentNotCompleted = invalid("payment not completed for this session")
)

var (
	ErrNotFound             = errors.New("service appointment not found")
	ErrRecordNotFound       = errors.New("no appointment matches this payment session")
	ErrDuplicateBooking     = errors.New("you already have a booking for this service at the selected date and time")
	ErrConcurrentUpdate     = errors.New("appointment was modified concurrently, retry")
	ErrIdentityRequired     = errors.New("authentication required")
	ErrForbidden            = errors.New("not allowed to modify this appointment")
	ErrPaymentNotConfigured = errors.New("online payments are not configured on the server")
	ErrPaymentProvider      = errors.New("payment provider error")
	ErrRecordPersistence    = errors.New("failed to create appointment record")
)
