package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord is one immutable entry in the append-only action history.
// Item name, company prefix, and the actor's username and role are copied at
// write time so history stays readable after the referenced rows change or
// are soft-deleted.
type AuditRecord struct {
	ID            uuid.UUID
	ItemID        string
	ItemName      string
	CompanyPrefix string
	Action        Action
	From          Location // empty for registration
	To            Location
	ActorID       uuid.UUID
	ActorUsername string
	ActorRole     Role
	Timestamp     time.Time
}
