package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/access"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
	domainsvcs "github.com/ghuser/steritrack/services/tracking/domain/services"
)

// Steam sterilization process bounds and the mandatory cooling dwell.
const (
	MinSteamTemperature = 121 // °C
	MinSteamPressure    = 15  // PSI
	MinSteamDuration    = 30  // minutes

	CoolingDwell = 10 * time.Minute
)

// SteamParams are the process parameters recorded with the
// steam_sterilization → cooling transition.
type SteamParams struct {
	Temperature float64
	Pressure    float64
	Duration    float64
}

func (p SteamParams) validate() error {
	if p.Temperature < MinSteamTemperature {
		return fmt.Errorf("%w: temperature must be at least %d°C", domain.ErrValidation, MinSteamTemperature)
	}
	if p.Pressure < MinSteamPressure {
		return fmt.Errorf("%w: pressure must be at least %d PSI", domain.ErrValidation, MinSteamPressure)
	}
	if p.Duration < MinSteamDuration {
		return fmt.Errorf("%w: duration must be at least %d minutes", domain.ErrValidation, MinSteamDuration)
	}
	return nil
}

// SterilizationService validates and applies pipeline step transitions.
// Batches are all-or-nothing: either every named item transitions and is
// logged, or none are.
type SterilizationService struct {
	store repositories.Store
	audit *domainsvcs.AuditLogger
	now   func() time.Time
}

// NewSterilizationService returns a SterilizationService using the given clock.
func NewSterilizationService(store repositories.Store, audit *domainsvcs.AuditLogger, now func() time.Time) *SterilizationService {
	return &SterilizationService{store: store, audit: audit, now: now}
}

// AdvanceStatus moves every named item to target, which must be each item's
// successor step. Re-entering the current step is a state no-op that still
// appends its audit record. Entering cooling requires SteamSterilize;
// entering finished enforces the cooling dwell.
func (s *SterilizationService) AdvanceStatus(ctx context.Context, actor models.Actor, itemIDs []string, target models.Status) error {
	if target == models.StatusCooling {
		return fmt.Errorf("%w: entering cooling requires steam sterilization parameters", domain.ErrValidation)
	}
	return s.advance(ctx, actor, itemIDs, target)
}

// SteamSterilize performs the steam_sterilization → cooling transition,
// validating the supplied process parameters atomically with it.
func (s *SterilizationService) SteamSterilize(ctx context.Context, actor models.Actor, itemIDs []string, params SteamParams) error {
	if err := params.validate(); err != nil {
		return err
	}
	return s.advance(ctx, actor, itemIDs, models.StatusCooling)
}

// MarkUnsterilized unconditionally resets every named item to not_sterilized.
// This is the only legal way to restart the pipeline.
func (s *SterilizationService) MarkUnsterilized(ctx context.Context, actor models.Actor, itemIDs []string) error {
	if err := access.Authorize(actor, access.OpMarkUnsterilized); err != nil {
		return err
	}
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: no items named", domain.ErrValidation)
	}
	return s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		for _, id := range itemIDs {
			item, err := tx.Items().Get(ctx, id)
			if err != nil {
				return err
			}
			if err := access.AuthorizeAt(actor, access.OpMarkUnsterilized, item.Location); err != nil {
				return err
			}
			item.Status = models.StatusNotSterilized
			item.UpdatedAt = s.now()
			if err := tx.Items().Update(ctx, item); err != nil {
				return fmt.Errorf("update item %s: %w", id, err)
			}
			if err := s.audit.Record(ctx, tx, item, models.ActionMarkedUnsterilized, item.Location, item.Location, actor); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SterilizationService) advance(ctx context.Context, actor models.Actor, itemIDs []string, target models.Status) error {
	op := access.OpAdvanceStatus
	if target == models.StatusCooling {
		op = access.OpSteamSterilize
	}
	if err := access.Authorize(actor, op); err != nil {
		return err
	}
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: no items named", domain.ErrValidation)
	}

	// The dwell violation commits a status revert while the operation itself
	// fails, so it is carried out of the transaction instead of aborting it.
	var dwellErr error
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		items := make([]*models.Item, 0, len(itemIDs))
		for _, id := range itemIDs {
			item, err := tx.Items().Get(ctx, id)
			if err != nil {
				return err
			}
			if err := access.AuthorizeAt(actor, op, item.Location); err != nil {
				return err
			}
			if item.Status != target {
				next, ok := item.Status.Next()
				if !ok || next != target {
					return fmt.Errorf("%w: %s cannot move from %s to %s",
						domain.ErrInvalidTransition, item.ID, item.Status, target)
				}
			}
			items = append(items, item)
		}

		if target == models.StatusFinished {
			if revert, err := s.dwellViolation(ctx, tx, items); err != nil {
				return err
			} else if revert != nil {
				for _, item := range items {
					item.Status = models.StatusSteamSterilization
					item.UpdatedAt = s.now()
					if err := tx.Items().Update(ctx, item); err != nil {
						return fmt.Errorf("revert item %s: %w", item.ID, err)
					}
				}
				dwellErr = revert
				return nil
			}
		}

		for _, item := range items {
			item.Status = target
			item.UpdatedAt = s.now()
			if err := tx.Items().Update(ctx, item); err != nil {
				return fmt.Errorf("update item %s: %w", item.ID, err)
			}
			if err := s.audit.Record(ctx, tx, item, target.StepAction(), item.Location, item.Location, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return dwellErr
}

// dwellViolation returns a PreconditionNotMet error when any item's latest
// cooling entry is younger than the mandatory dwell, or nil when all items
// may finish.
func (s *SterilizationService) dwellViolation(ctx context.Context, tx repositories.Repos, items []*models.Item) (error, error) {
	for _, item := range items {
		rec, err := tx.Audit().LatestByItemAction(ctx, item.ID, models.ActionStepCooling)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // no recorded cooling entry; nothing to wait on
			}
			return nil, err
		}
		elapsed := s.now().Sub(rec.Timestamp)
		if elapsed < CoolingDwell {
			remaining := int(math.Ceil((CoolingDwell - elapsed).Minutes()))
			return fmt.Errorf("%w: %d minutes remaining before %s may finish cooling",
				domain.ErrPreconditionNotMet, remaining, item.ID), nil
		}
	}
	return nil, nil
}
