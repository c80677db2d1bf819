package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/internal/api/http/handler"
	"github.com/Alijeyrad/hospital_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/internal/service/appointment"
	"github.com/Alijeyrad/hospital_backend/internal/service/auth"
	"github.com/Alijeyrad/hospital_backend/internal/service/catalog"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Redis          *redis.Client
	Auth           authorize.IAuthorization `optional:"true"`
	DB             *repo.Client
	AuthSvc        auth.Service
	CatalogSvc     catalog.Service
	AppointmentSvc appointment.Service
	PasetoMgr      *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Middlewares
	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.Redis)
	authOptional := middleware.AuthOptional(r.p.PasetoMgr, r.p.Redis)

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequireStaff(r.p.PasetoMgr, r.p.Redis, r.p.Auth, res, act)
	}

	// 3. Handlers
	authH := handler.NewAuthHandler(r.p.AuthSvc)
	serviceH := handler.NewServiceHandler(r.p.CatalogSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.Auth)

	api := app.Group("/api")

	// 4. Delegate to sub-files
	r.registerAuthRoutes(api, authH, authRequired)
	r.registerServiceRoutes(api, serviceH, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, authRequired, authOptional, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.ready(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}

// ready pings Postgres and Redis.
func (r *Router) ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.p.DB.Ping(ctx); err != nil {
		slog.Warn("readiness: database unreachable", "error", err)
		return false
	}
	if err := r.p.Redis.Ping(ctx).Err(); err != nil {
		slog.Warn("readiness: redis unreachable", "error", err)
		return false
	}
	return true
}
