package authorize

type Action string
type Resource string
type Role string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
}

const (
	WildcardResource Resource = "*"

	ResourceService          Resource = "service"
	ResourceAppointment      Resource = "appointment"
	ResourceAppointmentStats Resource = "appointment_stats"
	ResourceSession          Resource = "auth_session"
)

var KnownResources = map[Resource]struct{}{
	ResourceService: {}, ResourceAppointment: {}, ResourceAppointmentStats: {}, ResourceSession: {},
}

// Roles travel in the access token's role claim.
const (
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
)

var KnownRoles = map[Role]struct{}{
	RoleAdmin:   {},
	RolePatient: {},
}

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// Subject is the r.sub of a request: a role name or a user id.
type Subject string

// Permission rows: p, role, resource, action, eft
type PermissionPolicy struct {
	Role   Role
	Object Resource
	Action Action
	Effect PolicyEffect
}
