package models

import "fmt"

// Action identifies the kind of state change an AuditRecord documents.
type Action string

const (
	ActionRegistered             Action = "registered"
	ActionStepByHand             Action = "step_by_hand"
	ActionStepWashing            Action = "step_washing"
	ActionStepSteamSterilization Action = "step_steam_sterilization"
	ActionStepCooling            Action = "step_cooling"
	ActionStepFinished           Action = "step_finished"
	ActionMarkedUnsterilized     Action = "marked_unsterilized"
	ActionGrouped                Action = "grouped"
	ActionDisbanded              Action = "disbanded"
	ActionRemovedFromGroup       Action = "removed_from_group"
	ActionForwardingRequested    Action = "forwarding_requested"
	ActionForwarded              Action = "forwarded"
	ActionRejected               Action = "rejected"
	ActionStored                 Action = "stored"
	ActionRemovedFromInventory   Action = "removed_from_inventory"
)

var allActions = []Action{
	ActionRegistered,
	ActionStepByHand,
	ActionStepWashing,
	ActionStepSteamSterilization,
	ActionStepCooling,
	ActionStepFinished,
	ActionMarkedUnsterilized,
	ActionGrouped,
	ActionDisbanded,
	ActionRemovedFromGroup,
	ActionForwardingRequested,
	ActionForwarded,
	ActionRejected,
	ActionStored,
	ActionRemovedFromInventory,
}

// ParseAction validates s against the closed set of audit actions.
func ParseAction(s string) (Action, error) {
	for _, a := range allActions {
		if Action(s) == a {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

func (a Action) String() string {
	return string(a)
}
