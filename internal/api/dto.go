package api

import (
	"github.com/starford/dagaz/internal/models"
)

// CalendarEvent is the event payload (aliased from the domain layer).
type CalendarEvent = models.CalendarEvent

// CreateEventRequest is the request body for creating an event.
type CreateEventRequest = models.EventInput

// UpdateEventRequest is the request body for patching an event.
type UpdateEventRequest = models.EventPatch

// EventListResponse wraps the filtered view.
type EventListResponse struct {
	Events []CalendarEvent `json:"events"`
	Total  int             `json:"total"`
}

// CategoryListResponse wraps the category registry.
type CategoryListResponse struct {
	Categories []models.EventCategory `json:"categories"`
}

// HolidayListResponse wraps the raw holiday snapshot and the overlay state.
type HolidayListResponse struct {
	Holidays []models.Holiday `json:"holidays"`
	Shown    bool             `json:"shown"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []CalendarEvent `json:"results"`
}

// SlotResponse reports a slot query result.
type SlotResponse struct {
	Available *bool `json:"available,omitempty"`
	Occupied  *bool `json:"occupied,omitempty"`
}

// ToggleResponse reports a new toggle state.
type ToggleResponse struct {
	Shown bool `json:"shown"`
}
