package authorize

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Alijeyrad/hospital_backend/pkg/reqctx"
)

var ErrNoSubjectInContext = errors.New("no subject found in context")

// SubjectsFromContext returns the subjects a request is checked as: its role
// claim first, then its user id.
func SubjectsFromContext(ctx context.Context) ([]Subject, error) {
	claims := reqctx.ClaimsFromContext(ctx)
	if claims == nil || claims.IsExpired() {
		return nil, ErrNoSubjectInContext
	}
	var out []Subject
	if role := claims.GetRole(); role != "" {
		out = append(out, Subject(role))
	}
	return append(out, Subject(claims.GetUserID().String())), nil
}

// Allowed reports whether any subject of the caller may act on object.
func Allowed(ctx context.Context, auth IAuthorization, object Resource, action Action) (bool, error) {
	subjects, err := SubjectsFromContext(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range subjects {
		ok, err := auth.Enforce(ctx, s, object, action)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// IsAdmin is Allowed for the wildcard admin grant, used by services that
// relax ownership checks for staff. Errors count as not admin.
func IsAdmin(ctx context.Context, auth IAuthorization) bool {
	if auth == nil {
		return reqctx.RoleFromContext(ctx) == string(RoleAdmin)
	}
	ok, err := Allowed(ctx, auth, ResourceAppointment, ActionUpdate)
	if err != nil && !errors.Is(err, ErrNoSubjectInContext) {
		slog.Warn("admin check failed", "error", err)
	}
	return ok
}
