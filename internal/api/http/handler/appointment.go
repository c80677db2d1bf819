package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/internal/service/appointment"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
)

type AppointmentHandler struct {
	svc  appointment.Service
	auth authorize.IAuthorization
}

// NewAppointmentHandler takes auth to tell staff from patients; nil falls
// back to the token's role claim.
func NewAppointmentHandler(svc appointment.Service, auth authorize.IAuthorization) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, auth: auth}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrValidation):
		return badRequest(c, err.Error())
	case errors.Is(err, appointment.ErrNotFound), errors.Is(err, appointment.ErrRecordNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrDuplicateBooking), errors.Is(err, appointment.ErrConcurrentUpdate):
		return conflict(c, err.Error())
	case errors.Is(err, appointment.ErrIdentityRequired):
		return unauthorized(c, err.Error())
	case errors.Is(err, appointment.ErrForbidden):
		return forbidden(c, err.Error())
	case errors.Is(err, appointment.ErrPaymentProvider):
		detail := strings.TrimPrefix(err.Error(), appointment.ErrPaymentProvider.Error()+": ")
		return badGateway(c, "Payment provider error: "+detail)
	case errors.Is(err, appointment.ErrRecordPersistence), errors.Is(err, appointment.ErrPaymentNotConfigured):
		return internalError(c, err.Error(), err)
	default:
		return internalError(c, "", err)
	}
}

func (h *AppointmentHandler) actor(c fiber.Ctx) appointment.Actor {
	claims, ok := pasetotoken.ClaimsFromFiber(c)
	if !ok {
		return appointment.Actor{}
	}
	return appointment.Actor{
		Subject: claims.UserID.String(),
		Admin:   authorize.IsAdmin(c.Context(), h.auth),
	}
}

func origin(c fiber.Ctx) appointment.RequestOrigin {
	return appointment.RequestOrigin{
		Origin:  c.Get(fiber.HeaderOrigin),
		Referer: c.Get(fiber.HeaderReferer),
	}
}

func appointmentID(c fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// POST /api/service-appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var body appointment.BookRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	res, err := h.svc.Book(c.Context(), h.actor(c), body, origin(c))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, fiber.Map{
		"appointment": res.Appointment,
		"checkoutUrl": res.CheckoutURL,
	})
}

// GET|POST /api/service-appointments/confirm?session_id=
func (h *AppointmentHandler) Confirm(c fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" && c.Method() == fiber.MethodPost {
		var body struct {
			SessionID string `json:"sessionId"`
		}
		if len(c.Body()) > 0 {
			if err := c.Bind().JSON(&body); err != nil {
				return badRequest(c, "invalid request body")
			}
		}
		sessionID = body.SessionID
	}

	a, err := h.svc.Confirm(c.Context(), sessionID)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"appointment": a})
}

// GET /api/service-appointments/return?session_id=&outcome=
func (h *AppointmentHandler) Return(c fiber.Ctx) error {
	target, err := h.svc.ReturnURL(c.Context(), c.Query("session_id"), c.Query("outcome"), origin(c))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return c.Redirect().Status(fiber.StatusSeeOther).To(target)
}

// GET /api/service-appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	var q struct {
		ServiceID string `query:"serviceId"`
		Mobile    string `query:"mobile"`
		Status    string `query:"status"`
		Search    string `query:"search"`
		Page      int    `query:"page"`
		Limit     int    `query:"limit"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return badRequest(c, "invalid query parameters")
	}

	items, meta, err := h.svc.List(c.Context(), appointment.ListRequest{
		ServiceID: q.ServiceID,
		Mobile:    q.Mobile,
		Status:    q.Status,
		Search:    q.Search,
		Page:      q.Page,
		Limit:     q.Limit,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"appointments": items, "meta": meta})
}

// GET /api/service-appointments/me
func (h *AppointmentHandler) Mine(c fiber.Ctx) error {
	items, err := h.svc.Mine(c.Context(), h.actor(c), c.Query("mobile"))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"data": items})
}

// GET /api/service-appointments/stats/summary
func (h *AppointmentHandler) Stats(c fiber.Ctx) error {
	stats, err := h.svc.Stats(c.Context())
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"services": stats, "totalServices": len(stats)})
}

// GET /api/service-appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	id, valid := appointmentID(c)
	if !valid {
		return badRequest(c, "invalid appointment id")
	}
	a, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"appointment": a})
}

// PUT /api/service-appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	id, valid := appointmentID(c)
	if !valid {
		return badRequest(c, "invalid appointment id")
	}
	var body appointment.UpdateRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	a, err := h.svc.Update(c.Context(), id, body)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"appointment": a})
}

// PUT /api/service-appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c fiber.Ctx) error {
	id, valid := appointmentID(c)
	if !valid {
		return badRequest(c, "invalid appointment id")
	}
	var body appointment.RescheduleRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	a, err := h.svc.Reschedule(c.Context(), id, body)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"appointment": a})
}

// PUT /api/service-appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c fiber.Ctx) error {
	id, valid := appointmentID(c)
	if !valid {
		return badRequest(c, "invalid appointment id")
	}
	a, err := h.svc.Cancel(c.Context(), h.actor(c), id)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, fiber.Map{"data": a})
}
