// Package memory provides an in-memory implementation of the tracking store
// used for tests and ephemeral environments. Transactions operate on a clone
// of the state that replaces the live state only when the unit of work
// succeeds, so a failed batch leaves no partial mutation.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

// Compile-time contract assertion against the domain persistence interface.
var _ repositories.Store = (*Store)(nil)

type state struct {
	items       map[string]models.Item
	groups      map[uuid.UUID]models.Group
	memberships map[uuid.UUID]models.Membership
	requests    map[uuid.UUID]models.ForwardingRequest
	slots       map[uuid.UUID]models.StorageSlot
	audit       []models.AuditRecord
}

func newState() *state {
	return &state{
		items:       make(map[string]models.Item),
		groups:      make(map[uuid.UUID]models.Group),
		memberships: make(map[uuid.UUID]models.Membership),
		requests:    make(map[uuid.UUID]models.ForwardingRequest),
		slots:       make(map[uuid.UUID]models.StorageSlot),
	}
}

func (s *state) clone() *state {
	c := &state{
		items:       make(map[string]models.Item, len(s.items)),
		groups:      make(map[uuid.UUID]models.Group, len(s.groups)),
		memberships: make(map[uuid.UUID]models.Membership, len(s.memberships)),
		requests:    make(map[uuid.UUID]models.ForwardingRequest, len(s.requests)),
		slots:       make(map[uuid.UUID]models.StorageSlot, len(s.slots)),
		audit:       make([]models.AuditRecord, len(s.audit)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.groups {
		c.groups[k] = v
	}
	for k, v := range s.memberships {
		c.memberships[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	copy(c.audit, s.audit)
	return c
}

// Store is the in-memory tracking store. A single mutex serializes units of
// work, which is the per-subject atomicity the domain asks for.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// WithinTx runs fn against a clone of the state and commits the clone on
// success. Any error rolls the whole unit of work back.
func (s *Store) WithinTx(_ context.Context, fn func(tx repositories.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&repoSet{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Items implements repositories.Repos for non-transactional reads.
func (s *Store) Items() repositories.ItemRepository { return &itemsRepo{repoSet{store: s}} }

// Groups implements repositories.Repos for non-transactional reads.
func (s *Store) Groups() repositories.GroupRepository { return &groupsRepo{repoSet{store: s}} }

// Requests implements repositories.Repos for non-transactional reads.
func (s *Store) Requests() repositories.RequestRepository { return &requestsRepo{repoSet{store: s}} }

// Slots implements repositories.Repos for non-transactional reads.
func (s *Store) Slots() repositories.SlotRepository { return &slotsRepo{repoSet{store: s}} }

// Audit implements repositories.Repos for non-transactional reads.
func (s *Store) Audit() repositories.AuditRepository { return &auditRepo{repoSet{store: s}} }

// repoSet accesses either the transaction's working state (st) or, outside a
// transaction, the live state under the store lock.
type repoSet struct {
	store *Store
	st    *state
}

var _ repositories.Repos = (*repoSet)(nil)

func (r *repoSet) Items() repositories.ItemRepository       { return &itemsRepo{*r} }
func (r *repoSet) Groups() repositories.GroupRepository     { return &groupsRepo{*r} }
func (r *repoSet) Requests() repositories.RequestRepository { return &requestsRepo{*r} }
func (r *repoSet) Slots() repositories.SlotRepository       { return &slotsRepo{*r} }
func (r *repoSet) Audit() repositories.AuditRepository      { return &auditRepo{*r} }

func (r *repoSet) read(fn func(*state) error) error {
	if r.st != nil {
		return fn(r.st)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.state)
}

func (r *repoSet) write(fn func(*state) error) error {
	if r.st != nil {
		return fn(r.st)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.state)
}

func paginate[T any](in []T, opts repositories.QueryOpts) []T {
	if opts.Offset > 0 {
		if opts.Offset >= len(in) {
			return nil
		}
		in = in[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(in) {
		in = in[:opts.Limit]
	}
	return in
}
