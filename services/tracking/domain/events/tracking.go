package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicItemChanged is the Watermill topic published whenever an Item's status
// or location changes (including registration).
const TopicItemChanged = "tracking.item.changed"

// TopicAuditAppended is the Watermill topic published for every committed
// audit record.
const TopicAuditAppended = "tracking.audit.appended"

// ItemChangedEvent carries an Item's state after a committed change.
// Consumers use it to keep the read-model cache warm.
type ItemChangedEvent struct {
	EventID       uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version       int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID        string    `json:"item_id"`
	Name          string    `json:"name"`
	CompanyPrefix string    `json:"company_prefix"`
	TypeCode      string    `json:"type_code"`
	Serial        int       `json:"serial"`
	Status        string    `json:"status"`
	Location      string    `json:"location"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// AuditAppendedEvent mirrors one audit record. Published in the same
// transaction that appends the record (outbox), so downstream consumers see
// exactly the committed history.
type AuditAppendedEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	Version       int       `json:"version"`
	RecordID      uuid.UUID `json:"record_id"`
	ItemID        string    `json:"item_id"`
	Action        string    `json:"action"`
	From          string    `json:"from_location"`
	To            string    `json:"to_location"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	OccurredAt    time.Time `json:"occurred_at"`
}
