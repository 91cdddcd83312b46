package domain

import "errors"

// Sentinel errors for the tracking domain. Use errors.Is() to check these;
// services wrap them with operation detail via fmt.Errorf("%w: ...").
var (
	// ErrNotFound indicates an unknown item, group, or request identifier.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness invariant would be violated, e.g.
	// a second pending forwarding request for the same subject or an
	// exhausted serial space.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates malformed or out-of-range input, e.g.
	// sterilization parameters below threshold or mixed-location grouping.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition indicates a status step that is not the current
	// step's successor.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPreconditionNotMet indicates the cooling dwell time has not elapsed.
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrForbidden indicates the actor's role or location scope does not
	// admit the operation.
	ErrForbidden = errors.New("forbidden")
)
