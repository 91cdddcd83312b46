package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/steritrack/pkg/app"
	"github.com/ghuser/steritrack/pkg/auth"
	"github.com/ghuser/steritrack/services/tracking/application/handlers"
	appsvcs "github.com/ghuser/steritrack/services/tracking/application/services"
)

// TrackingRoutes registers tracking endpoints on the provided chi router.
// All routes require an authenticated session.
func TrackingRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		if a.SessionStore != nil {
			r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		}

		r.Route("/items", func(r chi.Router) {
			r.Post("/", handlers.NewRegisterItemsHandler(svcs).Execute)
			r.Get("/", handlers.NewListItemsHandler(svcs).Execute)
			r.Delete("/", handlers.NewClearAllHandler(svcs).Execute)
			r.Post("/status", handlers.NewAdvanceStatusHandler(svcs).Execute)
			r.Post("/steam", handlers.NewSteamSterilizeHandler(svcs).Execute)
			r.Post("/unsterilized", handlers.NewMarkUnsterilizedHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetItemHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs).Execute)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", handlers.NewCreateGroupHandler(svcs).Execute)
			r.Get("/", handlers.NewListGroupsHandler(svcs).Execute)
			r.Get("/{id}", handlers.NewGetGroupHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewDissolveGroupHandler(svcs).Execute)
			r.Get("/{id}/sterilizable", handlers.NewSterilizableItemsHandler(svcs).Execute)
			r.Delete("/{id}/items/{itemID}", handlers.NewRemoveGroupItemHandler(svcs).Execute)
		})

		r.Route("/forwarding", func(r chi.Router) {
			r.Post("/", handlers.NewCreateRequestHandler(svcs).Execute)
			r.Get("/", handlers.NewListRequestsHandler(svcs).Execute)
			r.Post("/{id}/accept", handlers.NewAcceptRequestHandler(svcs).Execute)
			r.Post("/{id}/reject", handlers.NewRejectRequestHandler(svcs).Execute)
		})

		r.Route("/storage/slots", func(r chi.Router) {
			r.Post("/", handlers.NewAssignSlotHandler(svcs).Execute)
			r.Get("/", handlers.NewListSlotsHandler(svcs).Execute)
			r.Delete("/{id}", handlers.NewRemoveSlotHandler(svcs).Execute)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", handlers.NewListHistoryHandler(svcs).Execute)
			r.Delete("/", handlers.NewClearHistoryHandler(svcs).Execute)
		})
	})
}
