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

// ForwardingService implements the two-phase custody handoff: a request made
// by the sending side, accepted or rejected by the receiving side. The
// pending-uniqueness check and the resolution state check each run inside one
// unit of work per subject, so two racing resolutions cannot both commit.
type ForwardingService struct {
	store repositories.Store
	audit *domainsvcs.AuditLogger
	now   func() time.Time
}

// NewForwardingService returns a ForwardingService using the given clock.
func NewForwardingService(store repositories.Store, audit *domainsvcs.AuditLogger, now func() time.Time) *ForwardingService {
	return &ForwardingService{store: store, audit: audit, now: now}
}

// CreateRequest opens a pending transfer of the subject (group or standalone
// item) to the destination. At most one pending request may exist per subject.
func (s *ForwardingService) CreateRequest(ctx context.Context, actor models.Actor, subjectID string, to models.Location) (*models.ForwardingRequest, error) {
	var req *models.ForwardingRequest
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		subj, err := resolveSubject(ctx, tx, subjectID)
		if err != nil {
			return err
		}
		if subj.Kind == models.SubjectItem {
			// Grouped items travel with their group.
			if _, err := tx.Groups().MembershipForItem(ctx, subj.ID); err == nil {
				return fmt.Errorf("%w: item %s belongs to a group; forward the group", domain.ErrValidation, subj.ID)
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		if err := access.AuthorizeAt(actor, access.OpCreateForwarding, subj.Location); err != nil {
			return err
		}

		if _, err := tx.Requests().PendingBySubject(ctx, subj.Kind, subj.ID); err == nil {
			return fmt.Errorf("%w: a pending request already exists for %s", domain.ErrConflict, subj.ID)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		r, err := models.NewForwardingRequest(subj.Kind, subj.ID, subj.Location, to, actor.ID, s.now())
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		if err := tx.Requests().Insert(ctx, r); err != nil {
			return fmt.Errorf("insert request: %w", err)
		}
		if err := s.audit.RecordAll(ctx, tx, subj.Items, models.ActionForwardingRequested, r.From, r.To, actor); err != nil {
			return err
		}
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Accept resolves a pending request: the subject (and every member item of a
// group) moves to the destination, and a storage slot left behind is freed.
func (s *ForwardingService) Accept(ctx context.Context, actor models.Actor, requestID uuid.UUID) (*models.ForwardingRequest, error) {
	var req *models.ForwardingRequest
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		r, err := tx.Requests().Get(ctx, requestID)
		if err != nil {
			return err
		}
		if !r.Pending() {
			return fmt.Errorf("%w: request %s is already %s", domain.ErrConflict, r.ID, r.Status)
		}
		// The receiving location's role acknowledges the handoff.
		if err := access.AuthorizeAt(actor, access.OpResolveForwarding, r.To); err != nil {
			return err
		}

		subj, err := resolveSubject(ctx, tx, r.SubjectID)
		if err != nil {
			return err
		}

		r.Accept(actor.ID, s.now())
		if err := tx.Requests().Update(ctx, r); err != nil {
			return fmt.Errorf("update request: %w", err)
		}

		if subj.Group != nil {
			subj.Group.Location = r.To
			subj.Group.UpdatedAt = s.now()
			if err := tx.Groups().Update(ctx, subj.Group); err != nil {
				return fmt.Errorf("move group: %w", err)
			}
		}
		for _, item := range subj.Items {
			item.Location = r.To
			item.UpdatedAt = s.now()
			if err := tx.Items().Update(ctx, item); err != nil {
				return fmt.Errorf("move item %s: %w", item.ID, err)
			}
		}
		if r.From == models.LocationStorage {
			if err := tx.Slots().DeleteBySubject(ctx, subj.ID); err != nil {
				return fmt.Errorf("free slot: %w", err)
			}
		}
		if err := s.audit.RecordAll(ctx, tx, subj.Items, models.ActionForwarded, r.From, r.To, actor); err != nil {
			return err
		}
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Reject resolves a pending request without moving the subject. The
// designated reason "not_properly_packaged" is a domain rule, not a generic
// reject: every constituent item is forced back to the central unit with its
// status reset, and an extra "forwarded" record documents that return.
func (s *ForwardingService) Reject(ctx context.Context, actor models.Actor, requestID uuid.UUID, reason string) (*models.ForwardingRequest, error) {
	var req *models.ForwardingRequest
	err := s.store.WithinTx(ctx, func(tx repositories.Repos) error {
		r, err := tx.Requests().Get(ctx, requestID)
		if err != nil {
			return err
		}
		if !r.Pending() {
			return fmt.Errorf("%w: request %s is already %s", domain.ErrConflict, r.ID, r.Status)
		}
		if err := access.AuthorizeAt(actor, access.OpResolveForwarding, r.To); err != nil {
			return err
		}

		subj, err := resolveSubject(ctx, tx, r.SubjectID)
		if err != nil {
			return err
		}

		r.Reject(actor.ID, reason, s.now())
		if err := tx.Requests().Update(ctx, r); err != nil {
			return fmt.Errorf("update request: %w", err)
		}
		if err := s.audit.RecordAll(ctx, tx, subj.Items, models.ActionRejected, r.From, r.To, actor); err != nil {
			return err
		}

		if reason == models.ReasonNotProperlyPackaged {
			if err := s.forceReturn(ctx, tx, subj, r.From, actor); err != nil {
				return err
			}
		}
		req = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// forceReturn sends every constituent item back to the central unit with
// status reset to not_sterilized.
func (s *ForwardingService) forceReturn(ctx context.Context, tx repositories.Repos, subj *subject, from models.Location, actor models.Actor) error {
	if subj.Group != nil {
		subj.Group.Location = models.LocationMSU
		subj.Group.UpdatedAt = s.now()
		if err := tx.Groups().Update(ctx, subj.Group); err != nil {
			return fmt.Errorf("return group: %w", err)
		}
	}
	for _, item := range subj.Items {
		item.Location = models.LocationMSU
		item.Status = models.StatusNotSterilized
		item.UpdatedAt = s.now()
		if err := tx.Items().Update(ctx, item); err != nil {
			return fmt.Errorf("return item %s: %w", item.ID, err)
		}
	}
	if from == models.LocationStorage {
		if err := tx.Slots().DeleteBySubject(ctx, subj.ID); err != nil {
			return fmt.Errorf("free slot: %w", err)
		}
	}
	return s.audit.RecordAll(ctx, tx, subj.Items, models.ActionForwarded, from, models.LocationMSU, actor)
}

// ListRequests returns requests matching the status filter. Location-scoped
// roles see only requests addressed to their home location, which is the
// receiving side's work queue.
func (s *ForwardingService) ListRequests(ctx context.Context, actor models.Actor, status *models.RequestStatus, opts repositories.QueryOpts) ([]*models.ForwardingRequest, int, error) {
	if err := access.Authorize(actor, access.OpList); err != nil {
		return nil, 0, err
	}
	filter := repositories.RequestFilter{Status: status}
	if scope, ok := access.ListScope(actor); ok {
		filter.To = &scope
	}
	reqs, total, err := s.store.Requests().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}
	return reqs, total, nil
}
