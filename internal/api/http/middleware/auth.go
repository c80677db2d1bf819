package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
)

// AuthRequired validates a Bearer PASETO access token and checks the session
// in Redis. On success the claims are available through
// pasetotoken.ClaimsFromFiber and reqctx.ClaimsFromContext.
func AuthRequired(mgr *pasetotoken.Manager, rdb *redis.Client) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.BearerAccess(c, mgr)
		if !ok || !sessionAlive(c, rdb, claims) {
			return fiber.ErrUnauthorized
		}
		pasetotoken.Attach(c, claims)
		return c.Next()
	}
}

// AuthOptional attaches claims when the request carries a live access token
// and otherwise lets the request through as a guest.
func AuthOptional(mgr *pasetotoken.Manager, rdb *redis.Client) fiber.Handler {
	return func(c fiber.Ctx) error {
		if claims, ok := pasetotoken.BearerAccess(c, mgr); ok && sessionAlive(c, rdb, claims) {
			pasetotoken.Attach(c, claims)
		}
		return c.Next()
	}
}

func sessionAlive(c fiber.Ctx, rdb *redis.Client, claims *pasetotoken.Claims) bool {
	if claims.SessionID == nil || rdb == nil {
		return true
	}
	return rdb.Exists(c.Context(), "session:"+claims.SessionID.String()).Val() == 1
}
