package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is an actor's authorization role. head_admin and admin are elevated;
// the remaining roles are scoped to a home location.
type Role string

const (
	RoleHeadAdmin Role = "head_admin"
	RoleAdmin     Role = "admin"
	RoleMSU       Role = "msu"
	RoleStorage   Role = "storage"
	RoleSurgery   Role = "surgery"
)

// ParseRole validates s against the closed set of roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHeadAdmin, RoleAdmin, RoleMSU, RoleStorage, RoleSurgery:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Elevated reports whether the role bypasses location scoping.
func (r Role) Elevated() bool {
	return r == RoleHeadAdmin || r == RoleAdmin
}

// Actor is the authenticated identity performing an operation. Identity and
// credentials are resolved by the transport layer; the core only consumes them.
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     Role
	// Room is the home surgery room number for surgery-role actors; 0 otherwise.
	Room int
}

// HomeLocation returns the location a non-elevated actor is restricted to.
// Elevated roles have no home location and return ("", false).
func (a Actor) HomeLocation() (Location, bool) {
	switch a.Role {
	case RoleMSU:
		return LocationMSU, true
	case RoleStorage:
		return LocationStorage, true
	case RoleSurgery:
		if a.Room >= 1 {
			return SurgeryRoom(a.Room), true
		}
		return "", false
	default:
		return "", false
	}
}
