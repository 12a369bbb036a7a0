// Package models contains data models for the auth service.
package models

import "fmt"

// Role is a closed set of permission groups. Unknown values are rejected
// at parse time rather than stored as arbitrary strings.
type Role string

const (
	RoleFarmer     Role = "farmer"
	RoleResearcher Role = "researcher"
	RoleAdmin      Role = "admin"
)

// DefaultRole is assigned when registration does not specify a role.
const DefaultRole = RoleFarmer

// ParseRole validates a role string. An empty string maps to DefaultRole.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return DefaultRole, nil
	case RoleFarmer, RoleResearcher, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is a member of the role set.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleResearcher, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
