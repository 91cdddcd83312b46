package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// ItemFilter narrows item list queries. Nil/zero fields are ignored.
type ItemFilter struct {
	Location      *models.Location
	CompanyPrefix string
	TypeCode      string
	Status        *models.Status
	// IncludeRemoved also returns soft-deleted items.
	IncludeRemoved bool
	// Ungrouped restricts to items that are not members of any group.
	Ungrouped bool
}

// AuditFilter narrows audit history queries. Nil/zero fields are ignored.
type AuditFilter struct {
	ItemID  string
	Action  *models.Action
	ActorID uuid.UUID
	From    *time.Time
	To      *time.Time
}

// RequestFilter narrows forwarding request list queries.
type RequestFilter struct {
	Status *models.RequestStatus
	To     *models.Location
}

// Repos is the set of entity repositories. Reads outside a transaction see
// committed state; inside a transaction all repositories share one consistent
// view and mutations commit or roll back together.
type Repos interface {
	Items() ItemRepository
	Groups() GroupRepository
	Requests() RequestRepository
	Slots() SlotRepository
	Audit() AuditRepository
}

// Store is the persistence entry point owned by the domain; infrastructure
// implements it. WithinTx runs fn in one atomic unit of work; every batch
// mutation and every read-modify-write on a subject goes through it so
// per-subject invariants cannot be violated by interleaving.
type Store interface {
	Repos
	WithinTx(ctx context.Context, fn func(tx Repos) error) error
}

// ItemRepository persists the Item aggregate.
type ItemRepository interface {
	// Insert persists a new item. Returns domain.ErrConflict on duplicate ID.
	Insert(ctx context.Context, item *models.Item) error
	// Get returns the item or domain.ErrNotFound. Inside a transaction the
	// row is locked for the remainder of the unit of work.
	Get(ctx context.Context, id string) (*models.Item, error)
	Find(ctx context.Context, filter ItemFilter, opts QueryOpts) ([]*models.Item, int, error)
	Update(ctx context.Context, item *models.Item) error
	// MaxSerial returns the highest allocated serial for (prefix, type),
	// or 0 when none exists.
	MaxSerial(ctx context.Context, prefix, typeCode string) (int, error)
	// DeleteAll is the maintenance wipe.
	DeleteAll(ctx context.Context) error
}

// GroupRepository persists Groups and their Memberships.
type GroupRepository interface {
	Insert(ctx context.Context, group *models.Group) error
	// Get returns the group or domain.ErrNotFound; locked inside a transaction.
	Get(ctx context.Context, id uuid.UUID) (*models.Group, error)
	Find(ctx context.Context, location *models.Location, opts QueryOpts) ([]*models.Group, int, error)
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id uuid.UUID) error

	InsertMembership(ctx context.Context, m *models.Membership) error
	Memberships(ctx context.Context, groupID uuid.UUID) ([]*models.Membership, error)
	// MembershipForItem returns the item's active membership or domain.ErrNotFound.
	MembershipForItem(ctx context.Context, itemID string) (*models.Membership, error)
	DeleteMembership(ctx context.Context, groupID uuid.UUID, itemID string) error
	DeleteMemberships(ctx context.Context, groupID uuid.UUID) error
}

// RequestRepository persists ForwardingRequests.
type RequestRepository interface {
	Insert(ctx context.Context, req *models.ForwardingRequest) error
	// Get returns the request or domain.ErrNotFound; locked inside a transaction.
	Get(ctx context.Context, id uuid.UUID) (*models.ForwardingRequest, error)
	Find(ctx context.Context, filter RequestFilter, opts QueryOpts) ([]*models.ForwardingRequest, int, error)
	Update(ctx context.Context, req *models.ForwardingRequest) error
	// PendingBySubject returns the subject's pending request or domain.ErrNotFound.
	PendingBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) (*models.ForwardingRequest, error)
	// DeleteBySubject removes requests referencing a dissolved subject.
	DeleteBySubject(ctx context.Context, kind models.SubjectKind, subjectID string) error
}

// SlotRepository persists StorageSlots.
type SlotRepository interface {
	Insert(ctx context.Context, slot *models.StorageSlot) error
	Find(ctx context.Context, opts QueryOpts) ([]*models.StorageSlot, int, error)
	// Get returns the slot or domain.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.StorageSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteBySubject frees any slot held by the subject; no error when absent.
	DeleteBySubject(ctx context.Context, subjectID string) error
}

// AuditRepository is append-only except for the explicit maintenance wipe.
type AuditRepository interface {
	Append(ctx context.Context, rec *models.AuditRecord) error
	Find(ctx context.Context, filter AuditFilter, opts QueryOpts) ([]*models.AuditRecord, int, error)
	// LatestByItemAction returns the newest record for (itemID, action) or
	// domain.ErrNotFound.
	LatestByItemAction(ctx context.Context, itemID string, action models.Action) (*models.AuditRecord, error)
	DeleteAll(ctx context.Context) error
}
