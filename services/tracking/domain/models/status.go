package models

import "fmt"

// Status is the sterilization pipeline step of an Item. The pipeline is a
// strict total order; AdvanceStatus only ever moves one step forward.
type Status string

const (
	StatusNotSterilized      Status = "not_sterilized"
	StatusWashingByHand      Status = "washing_by_hand"
	StatusAutomaticWashing   Status = "automatic_washing"
	StatusSteamSterilization Status = "steam_sterilization"
	StatusCooling            Status = "cooling"
	StatusFinished           Status = "finished"
)

// statusOrder is the single source of truth for the pipeline sequence.
var statusOrder = []Status{
	StatusNotSterilized,
	StatusWashingByHand,
	StatusAutomaticWashing,
	StatusSteamSterilization,
	StatusCooling,
	StatusFinished,
}

// ParseStatus validates s against the closed set of pipeline steps.
func ParseStatus(s string) (Status, error) {
	for _, st := range statusOrder {
		if Status(s) == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Next returns the successor step and true, or ("", false) for the terminal step.
func (s Status) Next() (Status, bool) {
	for i, st := range statusOrder {
		if st == s && i+1 < len(statusOrder) {
			return statusOrder[i+1], true
		}
	}
	return "", false
}

// Sterilized reports the normalized sterilization state used for group
// compatibility checks: only a finished item counts as sterilized.
func (s Status) Sterilized() bool {
	return s == StatusFinished
}

// StepAction maps a pipeline step to the audit action recorded on entry.
func (s Status) StepAction() Action {
	switch s {
	case StatusWashingByHand:
		return ActionStepByHand
	case StatusAutomaticWashing:
		return ActionStepWashing
	case StatusSteamSterilization:
		return ActionStepSteamSterilization
	case StatusCooling:
		return ActionStepCooling
	case StatusFinished:
		return ActionStepFinished
	default:
		return ActionMarkedUnsterilized
	}
}

func (s Status) String() string {
	return string(s)
}
