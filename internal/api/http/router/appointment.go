package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/hospital_backend/internal/api/http/handler"
	"github.com/Alijeyrad/hospital_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	authRequired fiber.Handler,
	authOptional fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	appts := api.Group("/service-appointments")

	// booking always needs a patient token; with RBAC off the permission check passes
	appts.Post("/", authRequired, middleware.RequirePermission(r.p.Auth, authorize.ResourceAppointment, authorize.ActionCreate), ah.Book)
	appts.Get("/confirm", ah.Confirm)
	appts.Post("/confirm", ah.Confirm)
	appts.Get("/return", ah.Return)

	appts.Get("/", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.List)
	appts.Get("/me", authOptional, ah.Mine)
	appts.Get("/stats/summary", requirePerm(authorize.ResourceAppointmentStats, authorize.ActionRead), ah.Stats)

	a := appts.Group("/:id")
	a.Get("/", ah.GetByID)
	a.Put("/", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Update)
	a.Put("/reschedule", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Reschedule)
	a.Put("/cancel", authOptional, ah.Cancel)
}
