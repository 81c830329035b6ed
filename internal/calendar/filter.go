package calendar

import (
	"strings"
	"time"

	"github.com/starford/dagaz/internal/models"
)

// refresh re-derives the filtered view from the store, the category
// registry, the holiday overlay, and the active search query.
// Callers must hold the write lock.
func (s *Service) refresh() {
	if strings.TrimSpace(s.query) == "" {
		s.view = s.filterByVisibility()
		return
	}
	s.view = s.searchView(s.query)
}

// filterByVisibility keeps events whose category is currently visible and
// appends one synthetic all-day entry per holiday when the overlay is on.
// Events referencing an unknown category are filtered out, not an error.
func (s *Service) filterByVisibility() []models.CalendarEvent {
	visible := make(map[string]bool, len(s.categories))
	for _, c := range s.categories {
		if c.Visible {
			visible[c.ID] = true
		}
	}

	out := make([]models.CalendarEvent, 0, len(s.events))
	for _, ev := range s.events {
		if visible[ev.CategoryID] {
			out = append(out, ev)
		}
	}
	if s.showHolidays {
		for _, h := range s.holidays {
			out = append(out, s.holidayEvent(h))
		}
	}
	return out
}

// searchView matches the query case-insensitively against event titles,
// descriptions, and resolved category names. Search deliberately ignores
// category visibility so matches in hidden categories still surface.
// Holiday matches are projected the same way as the standard overlay.
func (s *Service) searchView(query string) []models.CalendarEvent {
	q := strings.ToLower(strings.TrimSpace(query))

	names := make(map[string]string, len(s.categories))
	for _, c := range s.categories {
		names[c.ID] = strings.ToLower(c.Name)
	}

	var out []models.CalendarEvent
	for _, ev := range s.events {
		if strings.Contains(strings.ToLower(ev.Title), q) ||
			strings.Contains(strings.ToLower(ev.Description), q) ||
			strings.Contains(names[ev.CategoryID], q) {
			out = append(out, ev)
		}
	}
	if s.showHolidays {
		for _, h := range s.holidays {
			if strings.Contains(strings.ToLower(h.Name), q) ||
				strings.Contains(strings.ToLower(h.Description), q) {
				out = append(out, s.holidayEvent(h))
			}
		}
	}
	return out
}

// holidayEvent projects a holiday into a synthetic all-day entry covering
// its calendar day in the service location.
func (s *Service) holidayEvent(h models.Holiday) models.CalendarEvent {
	day := h.Date.In(s.loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	end := start.Add(24*time.Hour - time.Millisecond)

	categoryID := models.CategoryLocalHoliday
	if h.Type == models.HolidayInternational {
		categoryID = models.CategoryInternationalHoliday
	}

	return models.CalendarEvent{
		ID:          "holiday-" + h.ID,
		Title:       h.Name,
		Description: h.Description,
		Start:       start,
		End:         end,
		CategoryID:  categoryID,
		AllDay:      true,
		Type:        models.TypeHoliday,
	}
}
