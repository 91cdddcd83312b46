package services

import (
	"context"
	"fmt"

	"github.com/ghuser/steritrack/services/tracking/domain/access"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

// HistoryService exposes read-only queries over the audit trail plus the
// admin-only history wipe.
type HistoryService struct {
	store repositories.Store
}

// NewHistoryService returns a HistoryService over the given store.
func NewHistoryService(store repositories.Store) *HistoryService {
	return &HistoryService{store: store}
}

// ListRecords returns audit records matching the filter, newest first.
func (s *HistoryService) ListRecords(ctx context.Context, actor models.Actor, filter repositories.AuditFilter, opts repositories.QueryOpts) ([]*models.AuditRecord, int, error) {
	if err := access.Authorize(actor, access.OpList); err != nil {
		return nil, 0, err
	}
	recs, total, err := s.store.Audit().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	return recs, total, nil
}

// ClearHistory is the maintenance wipe of the audit trail.
func (s *HistoryService) ClearHistory(ctx context.Context, actor models.Actor) error {
	if err := access.Authorize(actor, access.OpClearHistory); err != nil {
		return err
	}
	return s.store.Audit().DeleteAll(ctx)
}
