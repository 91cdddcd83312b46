package services

import (
	"time"

	"github.com/ghuser/steritrack/pkg/app"
	"github.com/ghuser/steritrack/pkg/cache"
	domainsvcs "github.com/ghuser/steritrack/services/tracking/domain/services"
	"github.com/ghuser/steritrack/services/tracking/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the tracking
// context. It wires the engines with their infrastructure implementations.
type Services struct {
	Registry      *RegistryService
	Sterilization *SterilizationService
	Grouping      *GroupingService
	Forwarding    *ForwardingService
	Storage       *StorageService
	History       *HistoryService
}

// New wires all tracking services with infrastructure from the Application
// container. Every engine shares one store, one audit logger, and one clock.
func New(a *app.Application) *Services {
	store := postgres.NewStore(a.Db, a.EventBus)
	itemCache := cache.NewItemCache(a.Redis)
	now := func() time.Time { return time.Now().UTC() }
	audit := domainsvcs.NewAuditLogger(now)

	return &Services{
		Registry:      NewRegistryService(store, audit, itemCache, now),
		Sterilization: NewSterilizationService(store, audit, now),
		Grouping:      NewGroupingService(store, audit, now),
		Forwarding:    NewForwardingService(store, audit, now),
		Storage:       NewStorageService(store, audit, now),
		History:       NewHistoryService(store),
	}
}
