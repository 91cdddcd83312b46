package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

func TestSterilizationService_AdvanceStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("single step forward with audit", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)

		err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusWashingByHand)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := e.item(t, items[0].ID); got.Status != models.StatusWashingByHand {
			t.Fatalf("expected washing_by_hand, got %q", got.Status)
		}

		action := models.ActionStepByHand
		_, total, err := e.store.Audit().Find(ctx, repositories.AuditFilter{ItemID: items[0].ID, Action: &action}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("find audit: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected one step record, got %d", total)
		}
	})

	t.Run("re-entering the current step is audited", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		for i := 0; i < 2; i++ {
			if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusWashingByHand); err != nil {
				t.Fatalf("advance %d: %v", i, err)
			}
		}
		if got := e.item(t, items[0].ID); got.Status != models.StatusWashingByHand {
			t.Fatalf("expected washing_by_hand, got %q", got.Status)
		}
		action := models.ActionStepByHand
		_, total, err := e.store.Audit().Find(ctx, repositories.AuditFilter{ItemID: items[0].ID, Action: &action}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("find audit: %v", err)
		}
		if total != 2 {
			t.Fatalf("expected two step records, got %d", total)
		}
	})

	t.Run("skipping a step fails", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusAutomaticWashing)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if got := e.item(t, items[0].ID); got.Status != models.StatusNotSterilized {
			t.Fatalf("item must be unchanged, got %q", got.Status)
		}
	})

	t.Run("cooling requires steam parameters", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusCooling)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("empty batch fails", func(t *testing.T) {
		e := newEnv(t)
		err := e.sterilization.AdvanceStatus(ctx, msuActor, nil, models.StatusWashingByHand)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("batch is all or nothing", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 2)
		if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, models.StatusWashingByHand); err != nil {
			t.Fatalf("advance first: %v", err)
		}

		err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID, items[1].ID}, models.StatusAutomaticWashing)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if got := e.item(t, items[0].ID); got.Status != models.StatusWashingByHand {
			t.Fatalf("first item must be unchanged, got %q", got.Status)
		}
		if got := e.item(t, items[1].ID); got.Status != models.StatusNotSterilized {
			t.Fatalf("second item must be unchanged, got %q", got.Status)
		}
	})

	t.Run("forbidden for non-central roles", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		err := e.sterilization.AdvanceStatus(ctx, surgeryActor, []string{items[0].ID}, models.StatusWashingByHand)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestSterilizationService_SteamSterilize(t *testing.T) {
	ctx := context.Background()

	prepare := func(t *testing.T) (*env, string) {
		t.Helper()
		e := newEnv(t)
		items := e.register(t, 1)
		for _, target := range []models.Status{
			models.StatusWashingByHand,
			models.StatusAutomaticWashing,
			models.StatusSteamSterilization,
		} {
			if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, target); err != nil {
				t.Fatalf("advance to %s: %v", target, err)
			}
		}
		return e, items[0].ID
	}

	t.Run("minimum parameters pass", func(t *testing.T) {
		e, id := prepare(t)
		params := SteamParams{Temperature: MinSteamTemperature, Pressure: MinSteamPressure, Duration: MinSteamDuration}
		if err := e.sterilization.SteamSterilize(ctx, msuActor, []string{id}, params); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := e.item(t, id); got.Status != models.StatusCooling {
			t.Fatalf("expected cooling, got %q", got.Status)
		}
	})

	t.Run("parameters below the bounds fail", func(t *testing.T) {
		tests := []struct {
			name   string
			params SteamParams
		}{
			{"temperature too low", SteamParams{Temperature: 120.9, Pressure: 20, Duration: 40}},
			{"pressure too low", SteamParams{Temperature: 134, Pressure: 14.5, Duration: 40}},
			{"duration too short", SteamParams{Temperature: 134, Pressure: 20, Duration: 29}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				e, id := prepare(t)
				err := e.sterilization.SteamSterilize(ctx, msuActor, []string{id}, tc.params)
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				if got := e.item(t, id); got.Status != models.StatusSteamSterilization {
					t.Fatalf("item must be unchanged, got %q", got.Status)
				}
			})
		}
	})

	t.Run("requires the steam step", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		params := SteamParams{Temperature: 134, Pressure: 30, Duration: 45}
		err := e.sterilization.SteamSterilize(ctx, msuActor, []string{items[0].ID}, params)
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestSterilizationService_CoolingDwell(t *testing.T) {
	ctx := context.Background()

	prepare := func(t *testing.T) (*env, string) {
		t.Helper()
		e := newEnv(t)
		items := e.register(t, 1)
		for _, target := range []models.Status{
			models.StatusWashingByHand,
			models.StatusAutomaticWashing,
			models.StatusSteamSterilization,
		} {
			if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{items[0].ID}, target); err != nil {
				t.Fatalf("advance to %s: %v", target, err)
			}
		}
		params := SteamParams{Temperature: 134, Pressure: 30, Duration: 45}
		if err := e.sterilization.SteamSterilize(ctx, msuActor, []string{items[0].ID}, params); err != nil {
			t.Fatalf("steam sterilize: %v", err)
		}
		return e, items[0].ID
	}

	t.Run("early finish reverts to the steam step", func(t *testing.T) {
		e, id := prepare(t)
		e.clock.Advance(time.Minute)

		err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{id}, models.StatusFinished)
		if !errors.Is(err, domain.ErrPreconditionNotMet) {
			t.Fatalf("expected ErrPreconditionNotMet, got %v", err)
		}
		if !strings.Contains(err.Error(), "9 minutes remaining") {
			t.Fatalf("expected remaining minutes in error, got %q", err.Error())
		}
		if got := e.item(t, id); got.Status != models.StatusSteamSterilization {
			t.Fatalf("expected revert to steam_sterilization, got %q", got.Status)
		}
	})

	t.Run("revert restarts the dwell", func(t *testing.T) {
		e, id := prepare(t)
		e.clock.Advance(5 * time.Minute)

		if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{id}, models.StatusFinished); !errors.Is(err, domain.ErrPreconditionNotMet) {
			t.Fatalf("expected ErrPreconditionNotMet, got %v", err)
		}

		params := SteamParams{Temperature: 134, Pressure: 30, Duration: 45}
		if err := e.sterilization.SteamSterilize(ctx, msuActor, []string{id}, params); err != nil {
			t.Fatalf("steam sterilize again: %v", err)
		}
		e.clock.Advance(9 * time.Minute)
		if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{id}, models.StatusFinished); !errors.Is(err, domain.ErrPreconditionNotMet) {
			t.Fatalf("dwell must restart from the new cooling entry, got %v", err)
		}
	})

	t.Run("finish after the dwell", func(t *testing.T) {
		e, id := prepare(t)
		e.clock.Advance(CoolingDwell)

		if err := e.sterilization.AdvanceStatus(ctx, msuActor, []string{id}, models.StatusFinished); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := e.item(t, id)
		if got.Status != models.StatusFinished {
			t.Fatalf("expected finished, got %q", got.Status)
		}
		if !got.Status.Sterilized() {
			t.Fatal("finished item must count as sterilized")
		}
	})
}

func TestSterilizationService_MarkUnsterilized(t *testing.T) {
	ctx := context.Background()

	t.Run("resets finished items", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 2)
		e.sterilize(t, items[0].ID, items[1].ID)

		err := e.sterilization.MarkUnsterilized(ctx, msuActor, []string{items[0].ID, items[1].ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, item := range items {
			if got := e.item(t, item.ID); got.Status != models.StatusNotSterilized {
				t.Fatalf("expected not_sterilized, got %q", got.Status)
			}
		}
		action := models.ActionMarkedUnsterilized
		_, total, err := e.store.Audit().Find(ctx, repositories.AuditFilter{Action: &action}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("find audit: %v", err)
		}
		if total != 2 {
			t.Fatalf("expected one record per item, got %d", total)
		}
	})

	t.Run("surgery role resets items in its room", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		e.sterilize(t, items[0].ID)
		e.forward(t, items[0].ID, models.SurgeryRoom(1))

		if err := e.sterilization.MarkUnsterilized(ctx, surgeryActor, []string{items[0].ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("scoped role cannot reset elsewhere", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		err := e.sterilization.MarkUnsterilized(ctx, storageActor, []string{items[0].ID})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("empty batch fails", func(t *testing.T) {
		e := newEnv(t)
		err := e.sterilization.MarkUnsterilized(ctx, msuActor, nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}
