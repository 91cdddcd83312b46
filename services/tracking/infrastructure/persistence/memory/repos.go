package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

type itemsRepo struct{ repoSet }

func (r *itemsRepo) Insert(_ context.Context, item *models.Item) error {
	return r.write(func(s *state) error {
		if _, ok := s.items[item.ID]; ok {
			return fmt.Errorf("%w: item %s already exists", domain.ErrConflict, item.ID)
		}
		s.items[item.ID] = *item
		return nil
	})
}

func (r *itemsRepo) Get(_ context.Context, id string) (*models.Item, error) {
	var out *models.Item
	err := r.read(func(s *state) error {
		item, ok := s.items[id]
		if !ok {
			return fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
		}
		out = &item
		return nil
	})
	return out, err
}

func (r *itemsRepo) Find(_ context.Context, filter repositories.ItemFilter, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	var matched []models.Item
	err := r.read(func(s *state) error {
		grouped := make(map[string]bool)
		if filter.Ungrouped {
			for _, m := range s.memberships {
				grouped[m.ItemID] = true
			}
		}
		for _, item := range s.items {
			if !filter.IncludeRemoved && item.Location.IsRemoved() {
				continue
			}
			if filter.Location != nil && item.Location != *filter.Location {
				continue
			}
			if filter.CompanyPrefix != "" && item.CompanyPrefix != filter.CompanyPrefix {
				continue
			}
			if filter.TypeCode != "" && item.TypeCode != filter.TypeCode {
				continue
			}
			if filter.Status != nil && item.Status != *filter.Status {
				continue
			}
			if filter.Ungrouped && grouped[item.ID] {
				continue
			}
			matched = append(matched, item)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	total := len(matched)
	matched = paginate(matched, opts)
	out := make([]*models.Item, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, total, nil
}

func (r *itemsRepo) Update(_ context.Context, item *models.Item) error {
	return r.write(func(s *state) error {
		if _, ok := s.items[item.ID]; !ok {
			return fmt.Errorf("%w: item %s", domain.ErrNotFound, item.ID)
		}
		s.items[item.ID] = *item
		return nil
	})
}

func (r *itemsRepo) MaxSerial(_ context.Context, prefix, typeCode string) (int, error) {
	max := 0
	err := r.read(func(s *state) error {
		for _, item := range s.items {
			if item.CompanyPrefix == prefix && item.TypeCode == typeCode && item.Serial > max {
				max = item.Serial
			}
		}
		return nil
	})
	return max, err
}

func (r *itemsRepo) DeleteAll(_ context.Context) error {
	return r.write(func(s *state) error {
		s.items = make(map[string]models.Item)
		s.memberships = make(map[uuid.UUID]models.Membership)
		return nil
	})
}

type groupsRepo struct{ repoSet }

func (r *groupsRepo) Insert(_ context.Context, group *models.Group) error {
	return r.write(func(s *state) error {
		if _, ok := s.groups[group.ID]; ok {
			return fmt.Errorf("%w: group %s already exists", domain.ErrConflict, group.ID)
		}
		s.groups[group.ID] = *group
		return nil
	})
}

func (r *groupsRepo) Get(_ context.Context, id uuid.UUID) (*models.Group, error) {
	var out *models.Group
	err := r.read(func(s *state) error {
		group, ok := s.groups[id]
		if !ok {
			return fmt.Errorf("%w: group %s", domain.ErrNotFound, id)
		}
		out = &group
		return nil
	})
	return out, err
}

func (r *groupsRepo) Find(_ context.Context, location *models.Location, opts repositories.QueryOpts) ([]*models.Group, int, error) {
	var matched []models.Group
	err := r.read(func(s *state) error {
		for _, g := range s.groups {
			if location != nil && g.Location != *location {
				continue
			}
			matched = append(matched, g)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	total := len(matched)
	matched = paginate(matched, opts)
	out := make([]*models.Group, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, total, nil
}

func (r *groupsRepo) Update(_ context.Context, group *models.Group) error {
	return r.write(func(s *state) error {
		if _, ok := s.groups[group.ID]; !ok {
			return fmt.Errorf("%w: group %s", domain.ErrNotFound, group.ID)
		}
		s.groups[group.ID] = *group
		return nil
	})
}

func (r *groupsRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.write(func(s *state) error {
		delete(s.groups, id)
		return nil
	})
}

func (r *groupsRepo) InsertMembership(_ context.Context, m *models.Membership) error {
	return r.write(func(s *state) error {
		for _, existing := range s.memberships {
			if existing.ItemID == m.ItemID {
				return fmt.Errorf("%w: item %s already grouped", domain.ErrConflict, m.ItemID)
			}
		}
		s.memberships[m.ID] = *m
		return nil
	})
}

func (r *groupsRepo) Memberships(_ context.Context, groupID uuid.UUID) ([]*models.Membership, error) {
	var matched []models.Membership
	err := r.read(func(s *state) error {
		for _, m := range s.memberships {
			if m.GroupID == groupID {
				matched = append(matched, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ItemID < matched[j].ItemID })
	out := make([]*models.Membership, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, nil
}

func (r *groupsRepo) MembershipForItem(_ context.Context, itemID string) (*models.Membership, error) {
	var out *models.Membership
	err := r.read(func(s *state) error {
		for _, m := range s.memberships {
			if m.ItemID == itemID {
				cp := m
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("%w: item %s is not grouped", domain.ErrNotFound, itemID)
	})
	return out, err
}

func (r *groupsRepo) DeleteMembership(_ context.Context, groupID uuid.UUID, itemID string) error {
	return r.write(func(s *state) error {
		for id, m := range s.memberships {
			if m.GroupID == groupID && m.ItemID == itemID {
				delete(s.memberships, id)
				return nil
			}
		}
		return fmt.Errorf("%w: membership of %s in %s", domain.ErrNotFound, itemID, groupID)
	})
}

func (r *groupsRepo) DeleteMemberships(_ context.Context, groupID uuid.UUID) error {
	return r.write(func(s *state) error {
		for id, m := range s.memberships {
			if m.GroupID == groupID {
				delete(s.memberships, id)
			}
		}
		return nil
	})
}

type requestsRepo struct{ repoSet }

func (r *requestsRepo) Insert(_ context.Context, req *models.ForwardingRequest) error {
	return r.write(func(s *state) error {
		if _, ok := s.requests[req.ID]; ok {
			return fmt.Errorf("%w: request %s already exists", domain.ErrConflict, req.ID)
		}
		s.requests[req.ID] = *req
		return nil
	})
}

func (r *requestsRepo) Get(_ context.Context, id uuid.UUID) (*models.ForwardingRequest, error) {
	var out *models.ForwardingRequest
	err := r.read(func(s *state) error {
		req, ok := s.requests[id]
		if !ok {
			return fmt.Errorf("%w: request %s", domain.ErrNotFound, id)
		}
		out = &req
		return nil
	})
	return out, err
}

func (r *requestsRepo) Find(_ context.Context, filter repositories.RequestFilter, opts repositories.QueryOpts) ([]*models.ForwardingRequest, int, error) {
	var matched []models.ForwardingRequest
	err := r.read(func(s *state) error {
		for _, req := range s.requests {
			if filter.Status != nil && req.Status != *filter.Status {
				continue
			}
			if filter.To != nil && req.To != *filter.To {
				continue
			}
			matched = append(matched, req)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	total := len(matched)
	matched = paginate(matched, opts)
	out := make([]*models.ForwardingRequest, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, total, nil
}

func (r *requestsRepo) Update(_ context.Context, req *models.ForwardingRequest) error {
	return r.write(func(s *state) error {
		if _, ok := s.requests[req.ID]; !ok {
			return fmt.Errorf("%w: request %s", domain.ErrNotFound, req.ID)
		}
		s.requests[req.ID] = *req
		return nil
	})
}

func (r *requestsRepo) PendingBySubject(_ context.Context, kind models.SubjectKind, subjectID string) (*models.ForwardingRequest, error) {
	var out *models.ForwardingRequest
	err := r.read(func(s *state) error {
		for _, req := range s.requests {
			if req.SubjectKind == kind && req.SubjectID == subjectID && req.Pending() {
				cp := req
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("%w: no pending request for %s", domain.ErrNotFound, subjectID)
	})
	return out, err
}

func (r *requestsRepo) DeleteBySubject(_ context.Context, kind models.SubjectKind, subjectID string) error {
	return r.write(func(s *state) error {
		for id, req := range s.requests {
			if req.SubjectKind == kind && req.SubjectID == subjectID {
				delete(s.requests, id)
			}
		}
		return nil
	})
}

type slotsRepo struct{ repoSet }

func (r *slotsRepo) Insert(_ context.Context, slot *models.StorageSlot) error {
	return r.write(func(s *state) error {
		s.slots[slot.ID] = *slot
		return nil
	})
}

func (r *slotsRepo) Find(_ context.Context, opts repositories.QueryOpts) ([]*models.StorageSlot, int, error) {
	var matched []models.StorageSlot
	err := r.read(func(s *state) error {
		for _, slot := range s.slots {
			matched = append(matched, slot)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})
	total := len(matched)
	matched = paginate(matched, opts)
	out := make([]*models.StorageSlot, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, total, nil
}

func (r *slotsRepo) Get(_ context.Context, id uuid.UUID) (*models.StorageSlot, error) {
	var out *models.StorageSlot
	err := r.read(func(s *state) error {
		slot, ok := s.slots[id]
		if !ok {
			return fmt.Errorf("%w: slot %s", domain.ErrNotFound, id)
		}
		out = &slot
		return nil
	})
	return out, err
}

func (r *slotsRepo) Delete(_ context.Context, id uuid.UUID) error {
	return r.write(func(s *state) error {
		delete(s.slots, id)
		return nil
	})
}

func (r *slotsRepo) DeleteBySubject(_ context.Context, subjectID string) error {
	return r.write(func(s *state) error {
		for id, slot := range s.slots {
			if slot.SubjectID == subjectID {
				delete(s.slots, id)
			}
		}
		return nil
	})
}

type auditRepo struct{ repoSet }

func (r *auditRepo) Append(_ context.Context, rec *models.AuditRecord) error {
	return r.write(func(s *state) error {
		s.audit = append(s.audit, *rec)
		return nil
	})
}

func (r *auditRepo) Find(_ context.Context, filter repositories.AuditFilter, opts repositories.QueryOpts) ([]*models.AuditRecord, int, error) {
	var matched []models.AuditRecord
	err := r.read(func(s *state) error {
		for _, rec := range s.audit {
			if filter.ItemID != "" && rec.ItemID != filter.ItemID {
				continue
			}
			if filter.Action != nil && rec.Action != *filter.Action {
				continue
			}
			if filter.ActorID != uuid.Nil && rec.ActorID != filter.ActorID {
				continue
			}
			if filter.From != nil && rec.Timestamp.Before(*filter.From) {
				continue
			}
			if filter.To != nil && rec.Timestamp.After(*filter.To) {
				continue
			}
			matched = append(matched, rec)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })
	total := len(matched)
	matched = paginate(matched, opts)
	out := make([]*models.AuditRecord, len(matched))
	for i := range matched {
		out[i] = &matched[i]
	}
	return out, total, nil
}

func (r *auditRepo) LatestByItemAction(_ context.Context, itemID string, action models.Action) (*models.AuditRecord, error) {
	var out *models.AuditRecord
	err := r.read(func(s *state) error {
		for i := len(s.audit) - 1; i >= 0; i-- {
			rec := s.audit[i]
			if rec.ItemID == itemID && rec.Action == action {
				if out == nil || rec.Timestamp.After(out.Timestamp) {
					cp := rec
					out = &cp
				}
			}
		}
		if out == nil {
			return fmt.Errorf("%w: no %s record for %s", domain.ErrNotFound, action, itemID)
		}
		return nil
	})
	return out, err
}

func (r *auditRepo) DeleteAll(_ context.Context) error {
	return r.write(func(s *state) error {
		s.audit = nil
		return nil
	})
}
