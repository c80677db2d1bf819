package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/hospital_backend/internal/api/http/handler"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
)

func (r *Router) registerServiceRoutes(
	api fiber.Router,
	sh *handler.ServiceHandler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	services := api.Group("/services")

	services.Get("/", sh.List)
	services.Post("/", requirePerm(authorize.ResourceService, authorize.ActionCreate), sh.Create)

	s := services.Group("/:id")
	s.Get("/", sh.GetByID)
	s.Get("/image", sh.Image)
	s.Put("/", requirePerm(authorize.ResourceService, authorize.ActionUpdate), sh.Update)
	s.Delete("/", requirePerm(authorize.ResourceService, authorize.ActionDelete), sh.Delete)
}
