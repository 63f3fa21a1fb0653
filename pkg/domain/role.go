package domain

// Role is the account type the API assigns to a user.
type Role string

// The four roles. The API rejects anything else.
const (
	RoleBuyer      Role = "pembeli"
	RoleSeller     Role = "penjual"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every valid role from least to most privileged.
var Roles = []Role{RoleBuyer, RoleSeller, RoleAdmin, RoleSuperAdmin}

var roleLabels = map[Role]string{
	RoleBuyer:      "Pembeli",
	RoleSeller:     "Penjual",
	RoleAdmin:      "Admin",
	RoleSuperAdmin: "Super Admin",
}

// ValidRole returns true if the given string is a known role.
func ValidRole(r string) bool {
	_, ok := roleLabels[Role(r)]
	return ok
}

// IsAdmin reports whether the role may use the back-office.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsSuperAdmin reports whether the role is the top-level administrator.
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// Label returns the display name, or the raw value for unknown roles.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}
