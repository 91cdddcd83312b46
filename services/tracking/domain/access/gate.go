// Package access is the admission gate run before any engine logic: a static
// operation → roles table plus location scoping for non-elevated roles.
package access

import (
	"fmt"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
)

// Operation identifies a gated command or query.
type Operation string

const (
	OpRegister          Operation = "register"
	OpAdvanceStatus     Operation = "advance_status"
	OpSteamSterilize    Operation = "steam_sterilize"
	OpMarkUnsterilized  Operation = "mark_unsterilized"
	OpCreateGroup       Operation = "create_group"
	OpDissolveGroup     Operation = "dissolve_group"
	OpRemoveFromGroup   Operation = "remove_from_group"
	OpCreateForwarding  Operation = "create_forwarding"
	OpResolveForwarding Operation = "resolve_forwarding"
	OpAssignSlot        Operation = "assign_slot"
	OpRemoveSlot        Operation = "remove_slot"
	OpRemoveItem        Operation = "remove_item"
	OpClearAll          Operation = "clear_all"
	OpClearHistory      Operation = "clear_history"
	OpList              Operation = "list"
)

// allowedRoles maps each operation to its admitted non-elevated roles.
// head_admin and admin pass everywhere and are not listed.
var allowedRoles = map[Operation][]models.Role{
	OpRegister:          {models.RoleMSU},
	OpAdvanceStatus:     {models.RoleMSU},
	OpSteamSterilize:    {models.RoleMSU},
	OpMarkUnsterilized:  {models.RoleMSU, models.RoleStorage, models.RoleSurgery},
	OpCreateGroup:       {models.RoleMSU, models.RoleStorage},
	OpDissolveGroup:     {models.RoleStorage},
	OpRemoveFromGroup:   {models.RoleMSU, models.RoleStorage},
	OpCreateForwarding:  {models.RoleMSU, models.RoleStorage, models.RoleSurgery},
	OpResolveForwarding: {models.RoleMSU, models.RoleStorage, models.RoleSurgery},
	OpAssignSlot:        {models.RoleStorage},
	OpRemoveSlot:        {models.RoleStorage},
	OpRemoveItem:        {models.RoleMSU},
	OpClearAll:          {},
	OpClearHistory:      {},
	OpList:              {models.RoleMSU, models.RoleStorage, models.RoleSurgery},
}

// Authorize admits or rejects the actor's role for op.
func Authorize(actor models.Actor, op Operation) error {
	if actor.Role.Elevated() {
		return nil
	}
	for _, r := range allowedRoles[op] {
		if actor.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s may not %s", domain.ErrForbidden, actor.Role, op)
}

// AuthorizeAt additionally restricts non-elevated roles to subjects at their
// home location. loc is the subject's current location, or for forwarding
// resolution the request's destination (the receiving side acknowledges).
func AuthorizeAt(actor models.Actor, op Operation, loc models.Location) error {
	if err := Authorize(actor, op); err != nil {
		return err
	}
	if actor.Role.Elevated() {
		return nil
	}
	home, ok := actor.HomeLocation()
	if !ok || home != loc {
		return fmt.Errorf("%w: role %s is scoped to its home location, subject is at %s",
			domain.ErrForbidden, actor.Role, loc)
	}
	return nil
}

// ListScope returns the location filter applied to read-only listings for
// scoped roles. Elevated roles list everything and return ("", false).
func ListScope(actor models.Actor) (models.Location, bool) {
	if actor.Role.Elevated() {
		return "", false
	}
	return actor.HomeLocation()
}
