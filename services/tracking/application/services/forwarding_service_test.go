package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

func TestForwardingService_CreateRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a pending transfer", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)

		req, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !req.Pending() || req.From != models.LocationMSU || req.To != models.LocationStorage {
			t.Fatalf("unexpected request %+v", req)
		}
		if req.SubjectKind != models.SubjectItem || req.SubjectID != items[0].ID {
			t.Fatalf("unexpected subject %+v", req)
		}

		if got := e.item(t, items[0].ID); got.Location != models.LocationMSU {
			t.Fatalf("subject must not move before acceptance, got %q", got.Location)
		}

		action := models.ActionForwardingRequested
		_, total, err := e.store.Audit().Find(ctx, repositories.AuditFilter{Action: &action}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("find audit: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected one request record, got %d", total)
		}
	})

	t.Run("grouped items travel with their group", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		if _, err := e.grouping.CreateGroup(ctx, msuActor, "Tray A", []string{items[0].ID}); err != nil {
			t.Fatalf("create group: %v", err)
		}
		_, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("one pending request per subject", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		if _, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage); err != nil {
			t.Fatalf("first request: %v", err)
		}
		_, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.SurgeryRoom(1))
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("rejects the current location as destination", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		_, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationMSU)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects the removed destination", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		_, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationRemoved)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("sending side must hold the subject", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		_, err := e.forwarding.CreateRequest(ctx, surgeryActor, items[0].ID, models.LocationStorage)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestForwardingService_Accept(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the subject to the destination", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		req, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}

		resolved, err := e.forwarding.Accept(ctx, storageActor, req.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Status != models.RequestAccepted || resolved.ResolvedBy != storageActor.ID {
			t.Fatalf("unexpected resolution %+v", resolved)
		}
		if got := e.item(t, items[0].ID); got.Location != models.LocationStorage {
			t.Fatalf("expected storage, got %q", got.Location)
		}

		action := models.ActionForwarded
		_, total, err := e.store.Audit().Find(ctx, repositories.AuditFilter{Action: &action}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("find audit: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected one forwarded record, got %d", total)
		}
	})

	t.Run("resolving twice fails", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		req, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		if _, err := e.forwarding.Accept(ctx, storageActor, req.ID); err != nil {
			t.Fatalf("first accept: %v", err)
		}
		_, err = e.forwarding.Accept(ctx, storageActor, req.ID)
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("only the receiving side resolves", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		req, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		_, err = e.forwarding.Accept(ctx, msuActor, req.ID)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		_, err = e.forwarding.Accept(ctx, surgeryActor, req.ID)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("frees the storage slot left behind", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		e.forward(t, items[0].ID, models.LocationStorage)
		if _, err := e.storage.AssignSlot(ctx, storageActor, items[0].ID, "B2"); err != nil {
			t.Fatalf("assign slot: %v", err)
		}

		req, err := e.forwarding.CreateRequest(ctx, storageActor, items[0].ID, models.SurgeryRoom(1))
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		if _, err := e.forwarding.Accept(ctx, surgeryActor, req.ID); err != nil {
			t.Fatalf("accept: %v", err)
		}

		_, total, err := e.storage.ListSlots(ctx, adminActor, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("list slots: %v", err)
		}
		if total != 0 {
			t.Fatalf("expected slot freed, got %d", total)
		}
	})

	t.Run("moves a group with all its members", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 2)
		group, err := e.grouping.CreateGroup(ctx, msuActor, "Tray A", []string{items[0].ID, items[1].ID})
		if err != nil {
			t.Fatalf("create group: %v", err)
		}
		req, err := e.forwarding.CreateRequest(ctx, msuActor, group.ID.String(), models.LocationStorage)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		if req.SubjectKind != models.SubjectGroup {
			t.Fatalf("expected group subject, got %q", req.SubjectKind)
		}
		if _, err := e.forwarding.Accept(ctx, storageActor, req.ID); err != nil {
			t.Fatalf("accept: %v", err)
		}

		moved, err := e.store.Groups().Get(ctx, group.ID)
		if err != nil {
			t.Fatalf("get group: %v", err)
		}
		if moved.Location != models.LocationStorage {
			t.Fatalf("expected group at storage, got %q", moved.Location)
		}
		for _, item := range items {
			if got := e.item(t, item.ID); got.Location != models.LocationStorage {
				t.Fatalf("expected member %s at storage, got %q", item.ID, got.Location)
			}
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.forwarding.Accept(ctx, adminActor, uuid.New())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestForwardingService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("generic rejection leaves the subject in place", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		e.sterilize(t, items[0].ID)
		req, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}

		resolved, err := e.forwarding.Reject(ctx, storageActor, req.ID, "no capacity")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Status != models.RequestRejected || resolved.RejectionReason != "no capacity" {
			t.Fatalf("unexpected resolution %+v", resolved)
		}

		got := e.item(t, items[0].ID)
		if got.Location != models.LocationMSU {
			t.Fatalf("subject must stay put, got %q", got.Location)
		}
		if got.Status != models.StatusFinished {
			t.Fatalf("status must be untouched, got %q", got.Status)
		}
	})

	t.Run("not properly packaged forces the return", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 2)
		e.sterilize(t, items[0].ID, items[1].ID)
		group, err := e.grouping.CreateGroup(ctx, msuActor, "Tray A", []string{items[0].ID, items[1].ID})
		if err != nil {
			t.Fatalf("create group: %v", err)
		}
		e.forward(t, group.ID.String(), models.LocationStorage)
		if _, err := e.storage.AssignSlot(ctx, storageActor, group.ID.String(), "C3"); err != nil {
			t.Fatalf("assign slot: %v", err)
		}

		e.clock.Advance(time.Minute)
		req, err := e.forwarding.CreateRequest(ctx, storageActor, group.ID.String(), models.SurgeryRoom(1))
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		if _, err := e.forwarding.Reject(ctx, surgeryActor, req.ID, models.ReasonNotProperlyPackaged); err != nil {
			t.Fatalf("reject: %v", err)
		}

		moved, err := e.store.Groups().Get(ctx, group.ID)
		if err != nil {
			t.Fatalf("get group: %v", err)
		}
		if moved.Location != models.LocationMSU {
			t.Fatalf("expected group returned to msu, got %q", moved.Location)
		}
		for _, item := range items {
			got := e.item(t, item.ID)
			if got.Location != models.LocationMSU {
				t.Fatalf("expected member %s at msu, got %q", item.ID, got.Location)
			}
			if got.Status != models.StatusNotSterilized {
				t.Fatalf("expected status reset for %s, got %q", item.ID, got.Status)
			}
		}

		_, total, err := e.storage.ListSlots(ctx, adminActor, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("list slots: %v", err)
		}
		if total != 0 {
			t.Fatalf("expected slot freed, got %d", total)
		}

		rejected := models.ActionRejected
		_, total, err = e.store.Audit().Find(ctx, repositories.AuditFilter{Action: &rejected}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("find audit: %v", err)
		}
		if total != 2 {
			t.Fatalf("expected one rejected record per member, got %d", total)
		}

		forwarded := models.ActionForwarded
		recs, _, err := e.store.Audit().Find(ctx, repositories.AuditFilter{ItemID: items[0].ID, Action: &forwarded}, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("find audit: %v", err)
		}
		// One record for the accepted move to storage, one for the forced return.
		if len(recs) != 2 {
			t.Fatalf("expected 2 forwarded records, got %d", len(recs))
		}
		if recs[0].From != models.LocationStorage || recs[0].To != models.LocationMSU {
			t.Fatalf("return record must document storage to msu, got %q -> %q", recs[0].From, recs[0].To)
		}
	})

	t.Run("resolving twice fails", func(t *testing.T) {
		e := newEnv(t)
		items := e.register(t, 1)
		req, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		if _, err := e.forwarding.Reject(ctx, storageActor, req.ID, "no capacity"); err != nil {
			t.Fatalf("first reject: %v", err)
		}
		_, err = e.forwarding.Reject(ctx, storageActor, req.ID, "no capacity")
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func TestForwardingService_ListRequests(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	items := e.register(t, 3)
	if _, err := e.forwarding.CreateRequest(ctx, msuActor, items[0].ID, models.LocationStorage); err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := e.forwarding.CreateRequest(ctx, msuActor, items[1].ID, models.SurgeryRoom(1)); err != nil {
		t.Fatalf("create request: %v", err)
	}
	accepted, err := e.forwarding.CreateRequest(ctx, msuActor, items[2].ID, models.LocationStorage)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := e.forwarding.Accept(ctx, storageActor, accepted.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	t.Run("status filter", func(t *testing.T) {
		pending := models.RequestPending
		_, total, err := e.forwarding.ListRequests(ctx, adminActor, &pending, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 2 {
			t.Fatalf("expected 2 pending requests, got %d", total)
		}
	})

	t.Run("scoped role sees its incoming queue", func(t *testing.T) {
		reqs, total, err := e.forwarding.ListRequests(ctx, surgeryActor, nil, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 || reqs[0].To != models.SurgeryRoom(1) {
			t.Fatalf("expected only the surgery-bound request, got %d", total)
		}
	})

	t.Run("elevated role sees everything", func(t *testing.T) {
		_, total, err := e.forwarding.ListRequests(ctx, adminActor, nil, repositories.QueryOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 3 {
			t.Fatalf("expected 3 requests, got %d", total)
		}
	})
}
