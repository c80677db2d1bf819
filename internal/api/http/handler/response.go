package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/hospital_backend/internal/api/http/middleware"
)

// Every body carries "success". Payload keys vary per route, so callers pass
// them in as a map.

func ok(c fiber.Ctx, body fiber.Map) error {
	body["success"] = true
	return c.JSON(body)
}

func created(c fiber.Ctx, body fiber.Map) error {
	body["success"] = true
	return c.Status(fiber.StatusCreated).JSON(body)
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

func badRequest(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusBadRequest, msg)
}

func unauthorized(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusUnauthorized, msg)
}

func forbidden(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusForbidden, msg)
}

func notFound(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusNotFound, msg)
}

func conflict(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusConflict, msg)
}

func tooManyRequests(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusTooManyRequests, msg)
}

func badGateway(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusBadGateway, msg)
}

// internalError logs err with the request id and answers with msg, or a
// generic message when msg is empty.
func internalError(c fiber.Ctx, msg string, err error) error {
	rid, _ := middleware.RequestIDFromFiber(c)
	slog.ErrorContext(c.Context(), "request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", rid,
		"error", err,
	)
	if msg == "" {
		msg = "Server error"
	}
	return fail(c, fiber.StatusInternalServerError, msg)
}

// ErrorHandler renders errors that escape a handler, mostly *fiber.Error
// from middleware, in the same envelope.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, fe.Message)
	}
	return internalError(c, "", err)
}
