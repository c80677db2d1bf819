package authorize

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Alijeyrad/hospital_backend/config"
	"github.com/Alijeyrad/hospital_backend/pkg/reqctx"
)

func newTestAuth(t *testing.T, admins ...string) IAuthorization {
	t.Helper()
	a, err := New(config.AuthorizationConfig{AdminSubjects: admins})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestEnforceDefaultPolicies(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		subject Subject
		object  Resource
		action  Action
		want    bool
	}{
		{"admin updates appointment", Subject(RoleAdmin), ResourceAppointment, ActionUpdate, true},
		{"admin reads stats", Subject(RoleAdmin), ResourceAppointmentStats, ActionRead, true},
		{"admin deletes service", Subject(RoleAdmin), ResourceService, ActionDelete, true},
		{"patient books", Subject(RolePatient), ResourceAppointment, ActionCreate, true},
		{"patient lists services", Subject(RolePatient), ResourceService, ActionList, true},
		{"patient cannot update appointment", Subject(RolePatient), ResourceAppointment, ActionUpdate, false},
		{"patient cannot read stats", Subject(RolePatient), ResourceAppointmentStats, ActionRead, false},
		{"patient cannot create service", Subject(RolePatient), ResourceService, ActionCreate, false},
		{"unknown subject", Subject("stranger"), ResourceService, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Enforce(ctx, tt.subject, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.subject, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforceRejectsUnknownArgs(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.Enforce(ctx, "", ResourceService, ActionRead); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("empty subject error = %v, want ErrInvalidArgs", err)
	}
	if _, err := auth.Enforce(ctx, Subject(RoleAdmin), "clinic", ActionRead); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown resource error = %v, want ErrInvalidArgs", err)
	}
	if _, err := auth.Enforce(ctx, Subject(RoleAdmin), ResourceService, "manage"); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown action error = %v, want ErrInvalidArgs", err)
	}
}

func TestMustEnforce(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if err := auth.MustEnforce(ctx, Subject(RolePatient), ResourceService, ActionDelete); !errors.Is(err, ErrForbidden) {
		t.Errorf("MustEnforce() error = %v, want ErrForbidden", err)
	}
	if err := auth.MustEnforce(ctx, Subject(RoleAdmin), ResourceService, ActionDelete); err != nil {
		t.Errorf("MustEnforce() error = %v, want nil", err)
	}
}

type testClaims struct {
	id   uuid.UUID
	role string
}

func (c testClaims) GetUserID() uuid.UUID     { return c.id }
func (c testClaims) GetSessionID() *uuid.UUID { return nil }
func (c testClaims) GetRole() string          { return c.role }
func (c testClaims) IsExpired() bool          { return false }

func TestAllowedFromContext(t *testing.T) {
	operator := uuid.New()
	auth := newTestAuth(t, operator.String())

	tests := []struct {
		name    string
		claims  reqctx.AuthClaims
		want    bool
		wantErr error
	}{
		{"anonymous", nil, false, ErrNoSubjectInContext},
		{"admin role", testClaims{id: uuid.New(), role: "admin"}, true, nil},
		{"patient role", testClaims{id: uuid.New(), role: "patient"}, false, nil},
		{"patient listed as admin", testClaims{id: operator, role: "patient"}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.claims != nil {
				ctx = reqctx.WithClaims(ctx, tt.claims)
			}
			got, err := Allowed(ctx, auth, ResourceAppointmentStats, ActionRead)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Allowed() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Allowed() = %v, want %v", got, tt.want)
			}
			if IsAdmin(ctx, auth) != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", !tt.want, tt.want)
			}
		})
	}
}

func TestAddRoleForSubjectRejectsUnknownRole(t *testing.T) {
	auth := newTestAuth(t)
	if _, err := auth.AddRoleForSubject(context.Background(), "u1", "superuser"); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("AddRoleForSubject() error = %v, want ErrInvalidArgs", err)
	}
}

func TestPoliciesListsSeededRows(t *testing.T) {
	auth := newTestAuth(t)
	if got := len(auth.Policies()); got != len(DefaultPolicies) {
		t.Errorf("len(Policies()) = %d, want %d", got, len(DefaultPolicies))
	}
}
