package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/hospital_backend/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, authRequired fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/otp/request", h.RequestOTP)
	group.Post("/otp/verify", h.VerifyOTP)
	group.Post("/admin/login", h.AdminLogin)
	group.Post("/refresh", h.Refresh)
	group.Post("/logout", authRequired, h.Logout)
}
