package authorize

import (
	"context"
	"log/slog"
	"time"
)

// AuditedAuthorization logs every decision and policy change.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{inner: inner, logger: logger}
}

func (a *AuditedAuthorization) Enforce(ctx context.Context, subject Subject, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, subject, object, action)

	attrs := []any{
		"subject", string(subject),
		"resource", string(object),
		"action", string(action),
		"allowed", allowed,
		"duration_ms", time.Since(start).Milliseconds(),
	}

	switch {
	case err != nil:
		attrs = append(attrs, "error", err.Error())
		a.logger.Error("authz_decision", attrs...)
	case allowed:
		a.logger.Debug("authz_decision", attrs...)
	default:
		a.logger.Warn("authz_decision", attrs...)
	}

	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, subject Subject, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *AuditedAuthorization) AddRoleForSubject(ctx context.Context, subject Subject, role Role) (bool, error) {
	added, err := a.inner.AddRoleForSubject(ctx, subject, role)
	attrs := []any{"operation", "add_role", "subject", string(subject), "role", string(role), "added", added}
	if err != nil {
		a.logger.Error("authz_role_change", append(attrs, "error", err.Error())...)
	} else {
		a.logger.Info("authz_role_change", attrs...)
	}
	return added, err
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	added, err := a.inner.AddPermission(ctx, p)
	if err != nil {
		a.logger.Error("authz_permission_change",
			"role", string(p.Role), "resource", string(p.Object), "action", string(p.Action), "error", err.Error())
	}
	return added, err
}

func (a *AuditedAuthorization) Policies() [][]string {
	return a.inner.Policies()
}
