package entity

import "strings"

// Role is the kind of account holder. It travels in access tokens as a plain
// string so middleware can gate donor-only actions.
type Role string

const (
	RoleDonor   Role = "donor"
	RolePatient Role = "patient"
)

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts a user type in any case with surrounding spaces.
func ParseRole(raw string) (Role, bool) {
	switch role := Role(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleDonor, RolePatient:
		return role, true
	default:
		return "", false
	}
}
