package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/steritrack/pkg/cache"
	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/access"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
	domainsvcs "github.com/ghuser/steritrack/services/tracking/domain/services"
)

// maxRegisterBatch caps one registration request.
const maxRegisterBatch = 100

// RegistryService owns item registration, lookup, soft removal, and the
// admin maintenance wipe. Reads are served from the Redis cache when warm.
type RegistryService struct {
	store repositories.Store
	audit *domainsvcs.AuditLogger
	cache *pkgcache.ItemCache
	now   func() time.Time
}

// NewRegistryService returns a RegistryService wired with the given store and cache.
func NewRegistryService(store repositories.Store, audit *domainsvcs.AuditLogger, itemCache *pkgcache.ItemCache, now func() time.Time) *RegistryService {
	return &RegistryService{store: store, audit: audit, cache: itemCache, now: now}
}

// Register creates quantity items at the central unit with monotonic serials
// per (prefix, type). The whole batch commits or none of it does.
func (s *RegistryService) Register(ctx context.Context, actor models.Actor, prefix, typeCode, name string, quantity int) ([]*models.Item, error) {
	if err := access.Authorize(actor, access.OpRegister); err != nil {
		return nil, err
	}
	if quantity < 1 || quantity > maxRegisterBatch {
		return nil, fmt.Errorf("%w: quantity must be 1-%d", domain.ErrValidation, maxRegisterBatch)
	}

	var items []*models.Item
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		last, err := tx.Items().MaxSerial(ctx, prefix, typeCode)
		if err != nil {
			return fmt.Errorf("query last serial: %w", err)
		}
		if last+quantity > models.MaxSerial {
			return fmt.Errorf("%w: serial space exhausted for %s-%s", domain.ErrConflict, prefix, typeCode)
		}
		for i := 1; i <= quantity; i++ {
			item, err := models.NewItem(prefix, typeCode, name, last+i, s.now())
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrValidation, err)
			}
			if err := tx.Items().Insert(ctx, item); err != nil {
				return fmt.Errorf("insert item: %w", err)
			}
			if err := s.audit.Record(ctx, tx, item, models.ActionRegistered, "", models.LocationMSU, actor); err != nil {
				return fmt.Errorf("audit registration: %w", err)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem retrieves one item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query the store.
//  3. Asynchronously warm the cache with the store result.
func (s *RegistryService) GetItem(ctx context.Context, actor models.Actor, id string) (*models.Item, error) {
	if err := access.Authorize(actor, access.OpList); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return cachedToItem(cached), nil
		} else if !errors.Is(err, redis.Nil) {
			_ = err // cache unreachable; fall through to the store
		}
	}

	item, err := s.store.Items().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), itemToCached(item))
		}()
	}
	return item, nil
}

// ListItems returns a filtered, paginated item list plus total count.
// Location-scoped roles see only their home location.
func (s *RegistryService) ListItems(ctx context.Context, actor models.Actor, filter repositories.ItemFilter, opts repositories.QueryOpts) ([]*models.Item, int, error) {
	if err := access.Authorize(actor, access.OpList); err != nil {
		return nil, 0, err
	}
	if scope, ok := access.ListScope(actor); ok {
		filter.Location = &scope
		filter.IncludeRemoved = false
	}
	items, total, err := s.store.Items().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// RemoveItem soft-deletes an item: its location becomes "removed" and the row
// is preserved for audit integrity. Any group membership and storage slot the
// item holds are cleaned up.
func (s *RegistryService) RemoveItem(ctx context.Context, actor models.Actor, id string) error {
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		item, err := tx.Items().Get(ctx, id)
		if err != nil {
			return err
		}
		if item.Location.IsRemoved() {
			return fmt.Errorf("%w: item %s already removed", domain.ErrNotFound, id)
		}
		if err := access.AuthorizeAt(actor, access.OpRemoveItem, item.Location); err != nil {
			return err
		}

		if m, err := tx.Groups().MembershipForItem(ctx, id); err == nil {
			if err := tx.Groups().DeleteMembership(ctx, m.GroupID, id); err != nil {
				return fmt.Errorf("drop membership: %w", err)
			}
			remaining, err := tx.Groups().Memberships(ctx, m.GroupID)
			if err != nil {
				return err
			}
			if len(remaining) == 0 {
				if err := deleteGroupReferences(ctx, tx, m.GroupID); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := tx.Slots().DeleteBySubject(ctx, id); err != nil {
			return fmt.Errorf("free slot: %w", err)
		}

		from := item.Location
		item.Location = models.LocationRemoved
		item.UpdatedAt = s.now()
		if err := tx.Items().Update(ctx, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		return s.audit.Record(ctx, tx, item, models.ActionRemovedFromInventory, from, models.LocationRemoved, actor)
	})
	if err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), id)
	}
	return nil
}

// ClearAll is the maintenance wipe: it hard-deletes every item and every
// audit record. The only operation that destroys history.
func (s *RegistryService) ClearAll(ctx context.Context, actor models.Actor) error {
	if err := access.Authorize(actor, access.OpClearAll); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		if err := tx.Items().DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
		return tx.Audit().DeleteAll(ctx)
	})
}

func cachedToItem(c *pkgcache.CachedItem) *models.Item {
	return &models.Item{
		ID:            c.ID,
		CompanyPrefix: c.CompanyPrefix,
		TypeCode:      c.TypeCode,
		Serial:        c.Serial,
		Name:          c.Name,
		Status:        models.Status(c.Status),
		Location:      models.Location(c.Location),
		UpdatedAt:     c.UpdatedAt,
	}
}

func itemToCached(item *models.Item) *pkgcache.CachedItem {
	return &pkgcache.CachedItem{
		ID:            item.ID,
		CompanyPrefix: item.CompanyPrefix,
		TypeCode:      item.TypeCode,
		Serial:        item.Serial,
		Name:          item.Name,
		Status:        item.Status.String(),
		Location:      item.Location.String(),
		UpdatedAt:     item.UpdatedAt,
	}
}
