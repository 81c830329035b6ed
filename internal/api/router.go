package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/calendar"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events/stream inside the auth group.
func NewRouter(svc *calendar.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// SSE endpoint (protected by same auth middleware). Mounted before the
	// /events/{id} pattern so "stream" is not captured as an id.
	if sseHandler != nil {
		r.Get("/events/stream", sseHandler.ServeHTTP)
	}

	// Events CRUD and task completion.
	r.Get("/events", h.ListEvents)
	r.Post("/events", h.CreateEvent)
	r.Get("/events/{id}", h.GetEvent)
	r.Patch("/events/{id}", h.UpdateEvent)
	r.Delete("/events/{id}", h.DeleteEvent)
	r.Post("/events/{id}/toggle", h.ToggleTask)

	// Category registry.
	r.Get("/categories", h.ListCategories)
	r.Post("/categories/{id}/toggle", h.ToggleCategory)

	// Holiday overlay.
	r.Get("/holidays", h.ListHolidays)
	r.Post("/holidays/toggle", h.ToggleHolidays)

	// Search and slot queries.
	r.Get("/search", h.Search)
	r.Get("/slots/available", h.SlotAvailable)
	r.Get("/slots/occupied", h.SlotOccupied)

	return r
}
