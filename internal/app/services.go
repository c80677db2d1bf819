package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/internal/repo"
	"github.com/Alijeyrad/hospital_backend/internal/service/appointment"
	"github.com/Alijeyrad/hospital_backend/internal/service/auth"
	"github.com/Alijeyrad/hospital_backend/internal/service/catalog"
	"github.com/Alijeyrad/hospital_backend/internal/service/notify"
	"github.com/Alijeyrad/hospital_backend/pkg/checkout"
	"github.com/Alijeyrad/hospital_backend/pkg/constants"
	"github.com/Alijeyrad/hospital_backend/pkg/email"
	"github.com/Alijeyrad/hospital_backend/pkg/events"
	pasetotoken "github.com/Alijeyrad/hospital_backend/pkg/paseto"
	s3pkg "github.com/Alijeyrad/hospital_backend/pkg/s3"
	"github.com/Alijeyrad/hospital_backend/pkg/sms"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePasetoManager,
		ProvideAuthService,
		ProvideCatalogService,
		ProvideAppointmentService,
		ProvideNotifier,
	),
)

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvideAuthService(rdb *redis.Client, smsCli *sms.Client, paseto *pasetotoken.Manager, cfg *config.Config) auth.Service {
	return auth.New(auth.NewRedisKV(rdb), smsCli, paseto, auth.OptionsFromConfig(cfg))
}

func ProvideCatalogService(db *repo.Client, images *s3pkg.Client) catalog.Service {
	// a nil *s3.Client must reach catalog as a nil interface
	if images == nil {
		return catalog.New(db, nil)
	}
	return catalog.New(db, images)
}

func ProvideAppointmentService(db *repo.Client, gw *checkout.Client, pub *events.Publisher, cfg *config.Config) appointment.Service {
	opts := appointment.Options{
		FrontendURL:           cfg.Payment.FrontendURL,
		Currency:              cfg.Payment.Currency,
		RestrictCancelToOwner: cfg.Authorization.Enabled,
	}
	if gw == nil {
		return appointment.New(db, nil, pub, opts)
	}
	return appointment.New(db, gw, pub, opts)
}

func ProvideNotifier(db *repo.Client, smsCli *sms.Client, mail *email.Client, cfg *config.Config) *notify.Notifier {
	return notify.New(db, smsCli, mail, notify.Options{
		AppName:       constants.AppDisplayName,
		FrontendURL:   cfg.Payment.FrontendURL,
		Currency:      cfg.Payment.Currency,
		DefaultRegion: cfg.Authentication.DefaultRegion,
	})
}
