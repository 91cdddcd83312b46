package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/steritrack/services/tracking/domain/models"
	domainsvcs "github.com/ghuser/steritrack/services/tracking/domain/services"
	"github.com/ghuser/steritrack/services/tracking/infrastructure/persistence/memory"
)

// testClock is a manually advanced clock shared by every engine in a test env.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

var (
	headAdmin    = models.Actor{ID: uuid.New(), Username: "root", Role: models.RoleHeadAdmin}
	adminActor   = models.Actor{ID: uuid.New(), Username: "alice", Role: models.RoleAdmin}
	msuActor     = models.Actor{ID: uuid.New(), Username: "mia", Role: models.RoleMSU}
	storageActor = models.Actor{ID: uuid.New(), Username: "sam", Role: models.RoleStorage}
	surgeryActor = models.Actor{ID: uuid.New(), Username: "sue", Role: models.RoleSurgery, Room: 1}
)

type env struct {
	store         *memory.Store
	clock         *testClock
	registry      *RegistryService
	sterilization *SterilizationService
	grouping      *GroupingService
	forwarding    *ForwardingService
	storage       *StorageService
	history       *HistoryService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clk := &testClock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	audit := domainsvcs.NewAuditLogger(clk.Now)
	return &env{
		store:         store,
		clock:         clk,
		registry:      NewRegistryService(store, audit, nil, clk.Now),
		sterilization: NewSterilizationService(store, audit, clk.Now),
		grouping:      NewGroupingService(store, audit, clk.Now),
		forwarding:    NewForwardingService(store, audit, clk.Now),
		storage:       NewStorageService(store, audit, clk.Now),
		history:       NewHistoryService(store),
	}
}

// register creates quantity items at the central unit and fails the test on error.
func (e *env) register(t *testing.T, quantity int) []*models.Item {
	t.Helper()
	items, err := e.registry.Register(context.Background(), msuActor, "123456", "001", "Scalpel", quantity)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return items
}

// forward moves a subject to the destination through the full request/accept
// handoff, acting as an elevated admin on both sides.
func (e *env) forward(t *testing.T, subjectID string, to models.Location) {
	t.Helper()
	req, err := e.forwarding.CreateRequest(context.Background(), adminActor, subjectID, to)
	if err != nil {
		t.Fatalf("create forwarding request: %v", err)
	}
	if _, err := e.forwarding.Accept(context.Background(), adminActor, req.ID); err != nil {
		t.Fatalf("accept forwarding request: %v", err)
	}
}

// sterilize walks the items through the whole pipeline, including the steam
// parameters and the cooling dwell, leaving them finished.
func (e *env) sterilize(t *testing.T, itemIDs ...string) {
	t.Helper()
	ctx := context.Background()
	for _, target := range []models.Status{
		models.StatusWashingByHand,
		models.StatusAutomaticWashing,
		models.StatusSteamSterilization,
	} {
		if err := e.sterilization.AdvanceStatus(ctx, msuActor, itemIDs, target); err != nil {
			t.Fatalf("advance to %s: %v", target, err)
		}
	}
	params := SteamParams{Temperature: 134, Pressure: 30, Duration: 45}
	if err := e.sterilization.SteamSterilize(ctx, msuActor, itemIDs, params); err != nil {
		t.Fatalf("steam sterilize: %v", err)
	}
	e.clock.Advance(CoolingDwell)
	if err := e.sterilization.AdvanceStatus(ctx, msuActor, itemIDs, models.StatusFinished); err != nil {
		t.Fatalf("finish cooling: %v", err)
	}
}

// item reloads one item from the store.
func (e *env) item(t *testing.T, id string) *models.Item {
	t.Helper()
	item, err := e.store.Items().Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get item %s: %v", id, err)
	}
	return item
}
