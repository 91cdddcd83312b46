package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StorageSlot assigns a subject to a grid position (letter + number, e.g.
// "B7") while it sits in the storage area. A subject holds at most one slot;
// reassignment supersedes the previous one.
type StorageSlot struct {
	ID          uuid.UUID
	SubjectKind SubjectKind
	SubjectID   string
	SubjectName string
	Position    string
	AssignedBy  uuid.UUID
	CreatedAt   time.Time
}

// NewStorageSlot constructs a slot assignment at the given grid position.
func NewStorageSlot(kind SubjectKind, subjectID, subjectName, position string, assignedBy uuid.UUID, now time.Time) (*StorageSlot, error) {
	if err := ValidateSlotPosition(position); err != nil {
		return nil, err
	}
	return &StorageSlot{
		ID:          uuid.New(),
		SubjectKind: kind,
		SubjectID:   subjectID,
		SubjectName: subjectName,
		Position:    position,
		AssignedBy:  assignedBy,
		CreatedAt:   now,
	}, nil
}

// ValidateSlotPosition checks the letter+number grid format, e.g. "A1", "C12".
func ValidateSlotPosition(position string) error {
	if len(position) < 2 || len(position) > 4 {
		return fmt.Errorf("slot position %q must be a letter followed by a number", position)
	}
	if position[0] < 'A' || position[0] > 'Z' {
		return fmt.Errorf("slot position %q must start with an uppercase letter", position)
	}
	for i := 1; i < len(position); i++ {
		if position[i] < '0' || position[i] > '9' {
			return fmt.Errorf("slot position %q must end with a number", position)
		}
	}
	if position[1] == '0' {
		return fmt.Errorf("slot position %q has a zero-padded row number", position)
	}
	return nil
}
