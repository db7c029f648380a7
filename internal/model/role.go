package model

import "fmt"

// Role identifies which credential table an authenticated caller belongs to.
// The set is closed; anything else must be rejected at the boundary.
type Role string

const (
	RolePatient  Role = "patient"
	RoleDoctor   Role = "doctor"
	RoleHospital Role = "hospital"
	RoleExtern   Role = "extern"
)

// ParseRole validates a wire-level role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleHospital, RoleExtern:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the closed role set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}
