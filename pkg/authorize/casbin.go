package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// defaultModel grants a permission to a role directly (r.sub is the role
// claim) or through a grouping row (r.sub is a user id listed as admin).
const defaultModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, eft

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// IAuthorization is the only thing middleware should depend on.
type IAuthorization interface {
	Enforce(ctx context.Context, subject Subject, object Resource, action Action) (bool, error)
	MustEnforce(ctx context.Context, subject Subject, object Resource, action Action) error

	AddRoleForSubject(ctx context.Context, subject Subject, role Role) (bool, error)
	AddPermission(ctx context.Context, p PermissionPolicy) (bool, error)

	// Policies returns the permission rows, for `system migrate` output.
	Policies() [][]string
}

// Authorization is a thin typed wrapper around an in-memory casbin enforcer.
type Authorization struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer with no adapter; policies are seeded at
// startup. An empty modelPath uses the built-in model.
func NewEnforcer(modelPath string) (*casbin.SyncedEnforcer, error) {
	if modelPath != "" {
		return casbin.NewSyncedEnforcer(modelPath)
	}
	m, err := model.NewModelFromString(defaultModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewSyncedEnforcer(m)
}

func NewAuthorization(e *casbin.SyncedEnforcer) (*Authorization, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: enforcer is nil", ErrInvalidArgs)
	}
	return &Authorization{enforcer: e}, nil
}

func (a *Authorization) Enforce(_ context.Context, subject Subject, object Resource, action Action) (bool, error) {
	if subject == "" {
		return false, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if _, ok := KnownResources[object]; !ok {
		return false, fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, object)
	}
	if _, ok := KnownActions[action]; !ok {
		return false, fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, action)
	}
	return a.enforcer.Enforce(string(subject), string(object), string(action))
}

func (a *Authorization) MustEnforce(ctx context.Context, subject Subject, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *Authorization) AddRoleForSubject(_ context.Context, subject Subject, role Role) (bool, error) {
	if subject == "" {
		return false, fmt.Errorf("%w: empty subject", ErrInvalidArgs)
	}
	if _, ok := KnownRoles[role]; !ok {
		return false, fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, role)
	}
	return a.enforcer.AddGroupingPolicy(string(subject), string(role))
}

func (a *Authorization) AddPermission(_ context.Context, p PermissionPolicy) (bool, error) {
	if _, ok := KnownRoles[p.Role]; !ok {
		return false, fmt.Errorf("%w: unknown role: %q", ErrInvalidArgs, p.Role)
	}
	if _, ok := KnownResources[p.Object]; !ok && p.Object != WildcardResource {
		return false, fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, p.Object)
	}
	if _, ok := KnownActions[p.Action]; !ok && p.Action != WildcardAction {
		return false, fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, p.Action)
	}
	if p.Effect != EffectAllow && p.Effect != EffectDeny {
		return false, fmt.Errorf("%w: invalid effect: %q", ErrInvalidArgs, p.Effect)
	}
	return a.enforcer.AddPolicy(string(p.Role), string(p.Object), string(p.Action), string(p.Effect))
}

func (a *Authorization) Policies() [][]string {
	return a.enforcer.GetPolicy()
}
