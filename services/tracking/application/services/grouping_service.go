package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/access"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
	domainsvcs "github.com/ghuser/steritrack/services/tracking/domain/services"
)

// GroupingService forms and dissolves item bundles, enforcing the
// same-location / same-normalized-status membership invariants.
type GroupingService struct {
	store repositories.Store
	audit *domainsvcs.AuditLogger
	now   func() time.Time
}

// NewGroupingService returns a GroupingService using the given clock.
func NewGroupingService(store repositories.Store, audit *domainsvcs.AuditLogger, now func() time.Time) *GroupingService {
	return &GroupingService{store: store, audit: audit, now: now}
}

// CreateGroup bundles the named items. All items must exist, share one
// location, share one normalized sterilization state, and be ungrouped.
func (s *GroupingService) CreateGroup(ctx context.Context, actor models.Actor, name string, itemIDs []string) (*models.Group, error) {
	if err := access.Authorize(actor, access.OpCreateGroup); err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: a group needs at least one item", domain.ErrValidation)
	}

	var group *models.Group
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		items := make([]*models.Item, 0, len(itemIDs))
		for _, id := range itemIDs {
			item, err := tx.Items().Get(ctx, id)
			if err != nil {
				return err
			}
			if item.Location.IsRemoved() {
				return fmt.Errorf("%w: item %s is removed", domain.ErrNotFound, id)
			}
			items = append(items, item)
		}

		loc := items[0].Location
		sterilized := items[0].Status.Sterilized()
		for _, item := range items[1:] {
			if item.Location != loc {
				return fmt.Errorf("%w: all items must share one location", domain.ErrValidation)
			}
			if item.Status.Sterilized() != sterilized {
				return fmt.Errorf("%w: cannot mix sterilized and non-sterilized items", domain.ErrValidation)
			}
		}
		if err := access.AuthorizeAt(actor, access.OpCreateGroup, loc); err != nil {
			return err
		}
		for _, item := range items {
			if _, err := tx.Groups().MembershipForItem(ctx, item.ID); err == nil {
				return fmt.Errorf("%w: item %s is already grouped", domain.ErrConflict, item.ID)
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}

		g, err := models.NewGroup(name, loc, s.now())
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		if err := tx.Groups().Insert(ctx, g); err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
		for _, item := range items {
			if err := tx.Groups().InsertMembership(ctx, models.NewMembership(g.ID, item.ID, s.now())); err != nil {
				return fmt.Errorf("insert membership: %w", err)
			}
			if err := s.audit.Record(ctx, tx, item, models.ActionGrouped, loc, loc, actor); err != nil {
				return err
			}
		}
		group = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// DissolveGroup removes all memberships, deletes the group, and deletes any
// forwarding requests referencing it; they are moot, not re-resolved.
// Member items revert to standalone entities at the group's last location.
func (s *GroupingService) DissolveGroup(ctx context.Context, actor models.Actor, groupID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		group, err := tx.Groups().Get(ctx, groupID)
		if err != nil {
			return err
		}
		if err := access.AuthorizeAt(actor, access.OpDissolveGroup, group.Location); err != nil {
			return err
		}

		members, err := tx.Groups().Memberships(ctx, groupID)
		if err != nil {
			return err
		}
		for _, m := range members {
			item, err := tx.Items().Get(ctx, m.ItemID)
			if err != nil {
				return err
			}
			if err := s.audit.Record(ctx, tx, item, models.ActionDisbanded, group.Location, group.Location, actor); err != nil {
				return err
			}
		}
		if err := tx.Groups().DeleteMemberships(ctx, groupID); err != nil {
			return fmt.Errorf("drop memberships: %w", err)
		}
		return deleteGroupReferences(ctx, tx, groupID)
	})
}

// RemoveItemFromGroup drops one membership. A group emptied by the removal is
// deleted along with its forwarding requests and storage slot.
func (s *GroupingService) RemoveItemFromGroup(ctx context.Context, actor models.Actor, groupID uuid.UUID, itemID string) error {
	return s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		group, err := tx.Groups().Get(ctx, groupID)
		if err != nil {
			return err
		}
		if err := access.AuthorizeAt(actor, access.OpRemoveFromGroup, group.Location); err != nil {
			return err
		}

		m, err := tx.Groups().MembershipForItem(ctx, itemID)
		if err != nil {
			return err
		}
		if m.GroupID != groupID {
			return fmt.Errorf("%w: item %s is not in group %s", domain.ErrNotFound, itemID, groupID)
		}
		item, err := tx.Items().Get(ctx, itemID)
		if err != nil {
			return err
		}
		if err := tx.Groups().DeleteMembership(ctx, groupID, itemID); err != nil {
			return fmt.Errorf("drop membership: %w", err)
		}
		if err := s.audit.Record(ctx, tx, item, models.ActionRemovedFromGroup, group.Location, group.Location, actor); err != nil {
			return err
		}

		remaining, err := tx.Groups().Memberships(ctx, groupID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return deleteGroupReferences(ctx, tx, groupID)
		}
		return nil
	})
}

// ListGroups returns groups, filtered to a scoped role's home location.
func (s *GroupingService) ListGroups(ctx context.Context, actor models.Actor, opts repositories.QueryOpts) ([]*models.Group, int, error) {
	if err := access.Authorize(actor, access.OpList); err != nil {
		return nil, 0, err
	}
	var location *models.Location
	if scope, ok := access.ListScope(actor); ok {
		location = &scope
	}
	groups, total, err := s.store.Groups().Find(ctx, location, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}
	return groups, total, nil
}

// GetGroup returns one group and its member items.
func (s *GroupingService) GetGroup(ctx context.Context, actor models.Actor, groupID uuid.UUID) (*models.Group, []*models.Item, error) {
	if err := access.Authorize(actor, access.OpList); err != nil {
		return nil, nil, err
	}
	group, err := s.store.Groups().Get(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.store.Groups().Memberships(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	items := make([]*models.Item, 0, len(members))
	for _, m := range members {
		item, err := s.store.Items().Get(ctx, m.ItemID)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	return group, items, nil
}

// SterilizableItems returns the group members that sit at the central unit
// and have not yet finished the pipeline.
func (s *GroupingService) SterilizableItems(ctx context.Context, actor models.Actor, groupID uuid.UUID) ([]*models.Item, error) {
	_, items, err := s.GetGroup(ctx, actor, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Item, 0, len(items))
	for _, item := range items {
		if item.Location == models.LocationMSU && !item.Status.Sterilized() {
			out = append(out, item)
		}
	}
	return out, nil
}

// deleteGroupReferences removes a group together with its forwarding requests
// and storage slot.
func deleteGroupReferences(ctx context.Context, tx repositories.Repos, groupID uuid.UUID) error {
	if err := tx.Requests().DeleteBySubject(ctx, models.SubjectGroup, groupID.String()); err != nil {
		return fmt.Errorf("drop group requests: %w", err)
	}
	if err := tx.Slots().DeleteBySubject(ctx, groupID.String()); err != nil {
		return fmt.Errorf("free group slot: %w", err)
	}
	if err := tx.Groups().Delete(ctx, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}
