package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

// subject is a resolved forwarding/storage subject: either one standalone
// item or a group with its member items.
type subject struct {
	Kind     models.SubjectKind
	ID       string
	Name     string
	Location models.Location
	Group    *models.Group // nil for item subjects
	Items    []*models.Item
}

// resolveSubject loads the subject behind id. Group IDs are UUIDs; anything
// else is treated as an item identifier.
func resolveSubject(ctx context.Context, tx repositories.Repos, id string) (*subject, error) {
	if gid, err := uuid.Parse(id); err == nil {
		group, err := tx.Groups().Get(ctx, gid)
		if err != nil {
			return nil, err
		}
		members, err := tx.Groups().Memberships(ctx, gid)
		if err != nil {
			return nil, err
		}
		items := make([]*models.Item, 0, len(members))
		for _, m := range members {
			item, err := tx.Items().Get(ctx, m.ItemID)
			if err != nil {
				return nil, fmt.Errorf("load group member %s: %w", m.ItemID, err)
			}
			items = append(items, item)
		}
		return &subject{
			Kind:     models.SubjectGroup,
			ID:       group.ID.String(),
			Name:     group.Name,
			Location: group.Location,
			Group:    group,
			Items:    items,
		}, nil
	}

	item, err := tx.Items().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Location.IsRemoved() {
		return nil, fmt.Errorf("%w: item %s is removed", domain.ErrNotFound, id)
	}
	return &subject{
		Kind:     models.SubjectItem,
		ID:       item.ID,
		Name:     item.Name,
		Location: item.Location,
		Items:    []*models.Item{item},
	}, nil
}
