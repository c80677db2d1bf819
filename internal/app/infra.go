package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/pkg/authorize"
	"github.com/Alijeyrad/hospital_backend/pkg/checkout"
	"github.com/Alijeyrad/hospital_backend/pkg/database"
	"github.com/Alijeyrad/hospital_backend/pkg/email"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
	"github.com/Alijeyrad/hospital_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/hospital_backend/pkg/redis"
	s3pkg "github.com/Alijeyrad/hospital_backend/pkg/s3"
	"github.com/Alijeyrad/hospital_backend/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRepo),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideAuthorization),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideS3Client),
	fx.Provide(ProvideCheckout),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
)

func ProvideRepo(lc fx.Lifecycle, cfg *config.Config) (*repo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	client := repo.NewClient(pool)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing database pool")
			client.Close()
			return nil
		},
	})
	return client, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.New(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

// ProvideAuthorization returns nil when RBAC is disabled, which leaves the
// admin routes open.
func ProvideAuthorization(cfg *config.Config) (authorize.IAuthorization, error) {
	if !cfg.Authorization.Enabled {
		slog.Warn("authorization disabled, admin routes are open")
		return nil, nil
	}
	return authorize.New(cfg.Authorization)
}

func ProvideEmailClient(cfg *config.Config) *email.Client {
	return email.New(cfg.Email)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	cli, err := sms.NewFromConfig(cfg.SMS)
	if err == nil && !cli.IsEnabled() {
		slog.Warn("sms disabled, OTP codes and booking notices will not be delivered")
	}
	return cli, err
}

func ProvideS3Client(cfg *config.Config) (*s3pkg.Client, error) {
	cli, err := s3pkg.New(cfg.S3)
	if cli == nil && err == nil {
		slog.Warn("object storage not configured, service images disabled")
	}
	return cli, err
}

func ProvideCheckout(cfg *config.Config) *checkout.Client {
	cli := checkout.New(cfg.Payment)
	if cli == nil {
		slog.Warn("stripe secret key not set, online payments disabled")
	}
	return cli
}

// ProvideNatsClient returns nil when no URL is configured; publishing and
// the notification workers are then skipped.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name("hospital-api"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(nc *nats.Conn) *events.Publisher {
	return events.NewPublisher(nc)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
