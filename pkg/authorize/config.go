package authorize

import (
	"context"
	"log/slog"

	"github.com/Alijeyrad/hospital_backend/config"
)

// New builds the enforcer, seeds the default policies and wraps the result in
// audit logging when enabled.
func New(cfg config.AuthorizationConfig) (IAuthorization, error) {
	e, err := NewEnforcer(cfg.CasbinModelPath)
	if err != nil {
		return nil, err
	}
	a, err := NewAuthorization(e)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := SeedDefaultPolicies(ctx, a); err != nil {
		return nil, err
	}
	if err := GrantAdmins(ctx, a, cfg.AdminSubjects); err != nil {
		return nil, err
	}

	if cfg.EnableAudit {
		return NewAuditedAuthorization(a, slog.Default()), nil
	}
	return a, nil
}
