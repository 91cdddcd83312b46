package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

// AuditLogger is the single component that turns committed state changes into
// audit records. Engines call it inside their unit of work so the record
// commits atomically with the change it documents. Bulk operations record one
// entry per affected item, never one per batch; per-item history queries
// depend on that granularity.
type AuditLogger struct {
	now func() time.Time
}

// NewAuditLogger returns an AuditLogger using the given clock.
func NewAuditLogger(now func() time.Time) *AuditLogger {
	return &AuditLogger{now: now}
}

// Record appends one audit record for item. Item name, company prefix, and
// the actor's username and role are denormalized at write time.
func (l *AuditLogger) Record(ctx context.Context, tx repositories.Repos, item *models.Item, action models.Action, from, to models.Location, actor models.Actor) error {
	return tx.Audit().Append(ctx, &models.AuditRecord{
		ID:            uuid.New(),
		ItemID:        item.ID,
		ItemName:      item.Name,
		CompanyPrefix: item.CompanyPrefix,
		Action:        action,
		From:          from,
		To:            to,
		ActorID:       actor.ID,
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Timestamp:     l.now(),
	})
}

// RecordAll appends one record per item with the same action and locations.
func (l *AuditLogger) RecordAll(ctx context.Context, tx repositories.Repos, items []*models.Item, action models.Action, from, to models.Location, actor models.Actor) error {
	for _, item := range items {
		if err := l.Record(ctx, tx, item, action, from, to, actor); err != nil {
			return err
		}
	}
	return nil
}
