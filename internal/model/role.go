package model

// Role identifies what a user does on the platform. Free roles post with a
// listing cap; paid roles need an active subscription.
type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
	RoleTenant    Role = "tenant"
	RoleRealtor   Role = "realtor"
	RoleAgency    Role = "agency"
	RoleDeveloper Role = "developer"
)

// DefaultRole is assigned to users who have not picked a role yet.
const DefaultRole = RoleBuyer

// RoleDetails holds the pricing rules of a role.
type RoleDetails struct {
	Paid         bool
	MonthlyPrice float64 // UZS, zero for free roles
	TrialDays    int
}

// roleTable is the single source of truth for role pricing. Every Role
// constant must have an entry.
var roleTable = map[Role]RoleDetails{
	RoleBuyer:     {Paid: false},
	RoleSeller:    {Paid: false},
	RoleTenant:    {Paid: true, MonthlyPrice: 100000, TrialDays: 28},
	RoleRealtor:   {Paid: true, MonthlyPrice: 50000, TrialDays: 21},
	RoleAgency:    {Paid: true, MonthlyPrice: 150000, TrialDays: 14},
	RoleDeveloper: {Paid: true, MonthlyPrice: 200000, TrialDays: 7},
}

// AllRoles lists roles in menu order.
var AllRoles = []Role{RoleSeller, RoleBuyer, RoleTenant, RoleRealtor, RoleAgency, RoleDeveloper}

// PaidRoles lists the roles that require a subscription, in menu order.
var PaidRoles = []Role{RoleTenant, RoleRealtor, RoleAgency, RoleDeveloper}

// RoleInfo returns the pricing rules for a role. ok is false for unknown roles.
func RoleInfo(r Role) (RoleDetails, bool) {
	d, ok := roleTable[r]
	return d, ok
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// IsPaid reports whether r requires a subscription. Unknown roles are not paid.
func (r Role) IsPaid() bool {
	return roleTable[r].Paid
}

// IsFree reports whether r is a known free role.
func (r Role) IsFree() bool {
	d, ok := roleTable[r]
	return ok && !d.Paid
}
