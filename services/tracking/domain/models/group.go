package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const maxGroupNameLength = 100

// Group is a named bundle of Items sharing one location. The group's location
// mirrors its members; the Forwarding Protocol moves them together.
type Group struct {
	ID        uuid.UUID
	Name      string
	Location  Location
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGroup constructs a Group at the location shared by its members.
func NewGroup(name string, location Location, now time.Time) (*Group, error) {
	if name == "" || len(name) > maxGroupNameLength {
		return nil, fmt.Errorf("group name must be 1-%d characters", maxGroupNameLength)
	}
	return &Group{
		ID:        uuid.New(),
		Name:      name,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Membership joins one Item to one Group. An item belongs to at most one
// active group at a time.
type Membership struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	ItemID    string
	CreatedAt time.Time
}

// NewMembership constructs a Membership for the given group and item.
func NewMembership(groupID uuid.UUID, itemID string, now time.Time) *Membership {
	return &Membership{
		ID:        uuid.New(),
		GroupID:   groupID,
		ItemID:    itemID,
		CreatedAt: now,
	}
}
