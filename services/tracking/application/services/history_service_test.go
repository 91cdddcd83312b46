package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

func TestHistoryService_ListRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by item and action", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 2)
		if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusWashingByHand); err != nil {
			t.Fatalf("advance: %v", err)
		}

		recs, total, err := e.history.ListRecords(ctx, msuActor, repositories.AuditFilter{ItemID: items[0].ID}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 2 {
			t.Fatalf("expected registration and step records, got %d", total)
		}
		for _, rec := range recs {
			if rec.ItemID != items[0].ID {
				t.Fatalf("unexpected item %q", rec.ItemID)
			}
		}

		action := models.ActionStepByHand
		_, total, err = e.history.ListRecords(ctx, msuActor, repositories.AuditFilter{Action: &action}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected one step record, got %d", total)
		}
	})

	t.Run("filters by actor", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		e.forward(t, items[0].ID, models.LocationStorage)

		_, total, err := e.history.ListRecords(ctx, adminActor, repositories.AuditFilter{ActorID: msuActor.ID}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected only the registration record, got %d", total)
		}
	})

	t.Run("filters by time range", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		cutoff := e.clock.Now().Add(time.Minute)
		e.clock.Advance(2 * time.Minute)
		if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusWashingByHand); err != nil {
			t.Fatalf("advance: %v", err)
		}

		_, total, err := e.history.ListRecords(ctx, adminActor, repositories.AuditFilter{From: &cutoff}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected one record after the cutoff, got %d", total)
		}

		_, total, err = e.history.ListRecords(ctx, adminActor, repositories.AuditFilter{To: &cutoff}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected one record before the cutoff, got %d", total)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		e.clock.Advance(time.Minute)
		if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusWashingByHand); err != nil {
			t.Fatalf("advance: %v", err)
		}

		recs, _, err := e.history.ListRecords(ctx, adminActor, repositories.AuditFilter{}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(recs) != 2 || recs[0].Action != models.ActionStepByHand {
			t.Fatalf("expected the step record first, got %+v", recs)
		}
	})
}

func TestHistoryService_ClearHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden for scoped roles", func(t *testing.T) {
		e := newEnv(t)
		for _, actor := range []models.Actor{msuActor, storageActor, surgeryActor} {
			if err := e.history.ClearHistory(ctx, actor); !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("%s: expected ErrForbidden, got %v", actor.Role, err)
			}
		}
	})

	t.Run("wipes the trail", func(t *testing.T) {
		e := newEnv(t)
		e.register(t, 2)
		if err := e.history.ClearHistory(ctx, headAdmin); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, total, err := e.history.ListRecords(ctx, headAdmin, repositories.AuditFilter{}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 0 {
			t.Fatalf("expected empty history, got %d", total)
		}
	})
}
