package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
)

// RequirePermission checks the caller's role claim, then its user id,
// against the casbin policies. A nil auth leaves the route open.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		if auth == nil {
			return c.Next()
		}

		ok, err := authorize.Allowed(c.Context(), auth, resource, action)
		switch {
		case errors.Is(err, authorize.ErrNoSubjectInContext):
			return fiber.ErrUnauthorized
		case err != nil:
			return err
		case !ok:
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

// RequireStaff guards dashboard routes. With RBAC off it only attaches
// claims when present; with RBAC on it demands a live token and the
// permission in one handler.
func RequireStaff(mgr *pasetotoken.Manager, rdb *redis.Client, auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	if auth == nil {
		return AuthOptional(mgr, rdb)
	}
	check := RequirePermission(auth, resource, action)
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.BearerAccess(c, mgr)
		if !ok || !sessionAlive(c, rdb, claims) {
			return fiber.ErrUnauthorized
		}
		pasetotoken.Attach(c, claims)
		return check(c)
	}
}
