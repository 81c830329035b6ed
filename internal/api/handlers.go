package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/calendar"
)

// Handler holds API route handlers.
type Handler struct {
	svc *calendar.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *calendar.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListEvents handles GET /events. It returns the current filtered view.
func (h *Handler) ListEvents(w http.ResponseWriter, _ *http.Request) {
	events := h.svc.Events()
	writeJSON(w, http.StatusOK, EventListResponse{Events: events, Total: len(events)})
}

// GetEvent handles GET /events/{id}. Lookups go through the filtered view:
// an event hidden by a category toggle is a 404 even though it is stored.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, ok := h.svc.EventByID(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ev, err := h.svc.CreateEvent(req)
	if err != nil {
		writeError(w, "create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// UpdateEvent handles PATCH /events/{id}.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ev, err := h.svc.UpdateEvent(id, req)
	if err != nil {
		writeError(w, "update event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles DELETE /events/{id}. Deleting a recurring event
// removes its whole series.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteEvent(id); err != nil {
		writeError(w, "delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleTask handles POST /events/{id}/toggle.
func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.ToggleTaskCompletion(id); err != nil {
		writeError(w, "toggle task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: h.svc.Categories()})
}

// ToggleCategory handles POST /categories/{id}/toggle.
func (h *Handler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.ToggleCategory(id); err != nil {
		writeError(w, "toggle category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListHolidays handles GET /holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HolidayListResponse{
		Holidays: h.svc.Holidays(),
		Shown:    h.svc.ShowHolidays(),
	})
}

// ToggleHolidays handles POST /holidays/toggle.
func (h *Handler) ToggleHolidays(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ToggleResponse{Shown: h.svc.ToggleHolidays()})
}

// Search handles GET /search. The query re-derives the view; a blank query
// reverts it to the standard category/holiday filter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	h.svc.Search(q)
	writeJSON(w, http.StatusOK, SearchResponse{Results: h.svc.Events()})
}

// SlotAvailable handles GET /slots/available?date=YYYY-MM-DD&hour=H&minutes=M.
func (h *Handler) SlotAvailable(w http.ResponseWriter, r *http.Request) {
	date, hour, minutes, err := slotParams(r, h.svc.Location())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	avail := h.svc.IsTimeSlotAvailable(date, hour, minutes)
	writeJSON(w, http.StatusOK, SlotResponse{Available: &avail})
}

// SlotOccupied handles GET /slots/occupied?event=ID&date=YYYY-MM-DD&hour=H&minutes=M.
func (h *Handler) SlotOccupied(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event")
	if eventID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'event' is required"))
		return
	}
	date, hour, minutes, err := slotParams(r, h.svc.Location())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	occ := h.svc.IsEventInTimeSlot(eventID, date, hour, minutes)
	writeJSON(w, http.StatusOK, SlotResponse{Occupied: &occ})
}

func slotParams(r *http.Request, loc *time.Location) (time.Time, int, int, error) {
	q := r.URL.Query()
	date, err := time.ParseInLocation("2006-01-02", q.Get("date"), loc)
	if err != nil {
		return time.Time{}, 0, 0, errors.New("query parameter 'date' must be YYYY-MM-DD")
	}
	hour, err := strconv.Atoi(q.Get("hour"))
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, 0, 0, errors.New("query parameter 'hour' must be 0-23")
	}
	minutes := 0
	if m := q.Get("minutes"); m != "" {
		minutes, err = strconv.Atoi(m)
		if err != nil || minutes < 0 || minutes > 59 {
			return time.Time{}, 0, 0, errors.New("query parameter 'minutes' must be 0-59")
		}
	}
	return date, hour, minutes, nil
}
