package authorize

import (
	"context"
	"log/slog"
)

// DefaultPolicies is the baseline rule set. Patients book and cancel through
// routes that check ownership in the service layer, so they only need the
// appointment create and read rows here.
var DefaultPolicies = []PermissionPolicy{
	{RoleAdmin, WildcardResource, WildcardAction, EffectAllow},

	{RolePatient, ResourceAppointment, ActionCreate, EffectAllow},
	{RolePatient, ResourceAppointment, ActionRead, EffectAllow},
	{RolePatient, ResourceService, ActionRead, EffectAllow},
	{RolePatient, ResourceService, ActionList, EffectAllow},
	{RolePatient, ResourceSession, ActionDelete, EffectAllow},
}

func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	for _, p := range DefaultPolicies {
		if _, err := auth.AddPermission(ctx, p); err != nil {
			slog.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
	}
	slog.Debug("seeded default RBAC policies", "count", len(DefaultPolicies))
	return nil
}

// GrantAdmins gives the admin role to user ids listed in configuration, for
// operators who log in by OTP rather than the admin account.
func GrantAdmins(ctx context.Context, auth IAuthorization, subjects []string) error {
	for _, s := range subjects {
		if s == "" {
			continue
		}
		if _, err := auth.AddRoleForSubject(ctx, Subject(s), RoleAdmin); err != nil {
			return err
		}
	}
	return nil
}
