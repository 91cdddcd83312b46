package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/access"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
	domainsvcs "github.com/ghuser/steritrack/services/tracking/domain/services"
)

// StorageService assigns subjects to grid positions in the storage area.
type StorageService struct {
	store repositories.Store
	audit *domainsvcs.AuditLogger
	now   func() time.Time
}

// NewStorageService returns a StorageService using the given clock.
func NewStorageService(store repositories.Store, audit *domainsvcs.AuditLogger, now func() time.Time) *StorageService {
	return &StorageService{store: store, audit: audit, now: now}
}

// AssignSlot places the subject at a grid position, superseding any slot it
// already holds. The subject must currently sit in the storage area.
func (s *StorageService) AssignSlot(ctx context.Context, actor models.Actor, subjectID, position string) (*models.StorageSlot, error) {
	var slot *models.StorageSlot
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		subj, err := resolveSubject(ctx, tx, subjectID)
		if err != nil {
			return err
		}
		if subj.Location != models.LocationStorage {
			return fmt.Errorf("%w: subject %s is at %s, not in storage", domain.ErrValidation, subj.ID, subj.Location)
		}
		if err := access.AuthorizeAt(actor, access.OpAssignSlot, subj.Location); err != nil {
			return err
		}

		sl, err := models.NewStorageSlot(subj.Kind, subj.ID, subj.Name, position, actor.ID, s.now())
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		if err := tx.Slots().DeleteBySubject(ctx, subj.ID); err != nil {
			return fmt.Errorf("supersede slot: %w", err)
		}
		if err := tx.Slots().Insert(ctx, sl); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
		if err := s.audit.RecordAll(ctx, tx, subj.Items, models.ActionStored, models.LocationStorage, models.LocationStorage, actor); err != nil {
			return err
		}
		slot = sl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// ListSlots returns all slot assignments, newest first.
func (s *StorageService) ListSlots(ctx context.Context, actor models.Actor, opts repositories.QueryOpts) ([]*models.StorageSlot, int, error) {
	if err := access.Authorize(actor, access.OpList); err != nil {
		return nil, 0, err
	}
	slots, total, err := s.store.Slots().Find(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}
	return slots, total, nil
}

// RemoveSlot frees one slot assignment by ID.
func (s *StorageService) RemoveSlot(ctx context.Context, actor models.Actor, slotID uuid.UUID) error {
	if err := access.Authorize(actor, access.OpRemoveSlot); err != nil {
		return err
	}
	return s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		if _, err := tx.Slots().Get(ctx, slotID); err != nil {
			return err
		}
		return tx.Slots().Delete(ctx, slotID)
	})
}
