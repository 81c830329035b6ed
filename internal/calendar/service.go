// Package calendar implements the event store, category registry, holiday
// overlay, and the query layer over the resulting filtered view.
package calendar

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/recurrence"
)

// EventIndex receives write-through snapshots of store mutations.
// Consumers depend on this interface rather than the concrete index type
// so the service can run without persistence (nil index).
type EventIndex interface {
	UpsertEvents(events []models.CalendarEvent) error
	DeleteEvents(ids []string) error
}

// ChangeFunc is notified after every store mutation with a change kind
// ("created", "updated", "deleted", "filter") and the affected id.
type ChangeFunc func(kind, id string)

// Options configures a Service.
type Options struct {
	Expand       recurrence.Options
	Location     *time.Location // holiday and slot calculations; defaults to time.Local
	ShowHolidays bool
	Index        EventIndex // optional write-through snapshot
	OnChange     ChangeFunc // optional change notification
	Logger       *slog.Logger
}

// Service is the single owner of the event collection. All reads go through
// the filtered view it maintains; all writes re-derive that view before
// returning.
//
// The core itself has no suspension points, but the HTTP and MCP surfaces
// call it concurrently, so state is guarded by one RWMutex at the public
// method boundary.
type Service struct {
	mu sync.RWMutex

	events     []models.CalendarEvent
	categories []models.EventCategory
	holidays   []models.Holiday

	showHolidays bool
	query        string
	view         []models.CalendarEvent

	expand   recurrence.Options
	loc      *time.Location
	idx      EventIndex
	onChange ChangeFunc
	logger   *slog.Logger
}

// NewService creates a service over the seeded categories and the holiday
// snapshot for the session.
func NewService(categories []models.EventCategory, holidays []models.Holiday, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		categories:   append([]models.EventCategory(nil), categories...),
		holidays:     append([]models.Holiday(nil), holidays...),
		showHolidays: opts.ShowHolidays,
		expand:       opts.Expand,
		loc:          loc,
		idx:          opts.Index,
		onChange:     opts.OnChange,
		logger:       logger,
	}
	s.refresh()
	return s
}

// Seed loads events wholesale (snapshot restore). It bypasses expansion and
// write-through: the rows are assumed to already contain derived instances.
func (s *Service) Seed(events []models.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]models.CalendarEvent(nil), events...)
	s.refresh()
}

// CreateEvent validates the input, assigns a fresh id, expands the
// recurrence rule if any, and stores the base plus derived instances.
// The returned event is the base.
func (s *Service) CreateEvent(in models.EventInput) (models.CalendarEvent, error) {
	if err := in.Validate(); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("%w: %s", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := in.Event(uuid.NewString())
	instances := recurrence.Expand(base, s.expand)

	s.events = append(s.events, base)
	s.events = append(s.events, instances...)
	s.persistUpsert(append([]models.CalendarEvent{base}, instances...))
	s.refresh()
	s.notify("created", base.ID)
	return base, nil
}

// UpdateEvent applies a partial update. Updating any member of a recurring
// series targets the series base: prior derived instances are discarded and
// regenerated from the merged base, so regeneration is idempotent.
// Returns apperr.ErrNotFound when the id is unknown.
func (s *Service) UpdateEvent(id string, patch models.EventPatch) (models.CalendarEvent, error) {
	if err := patch.Validate(); err != nil {
		return models.CalendarEvent{}, fmt.Errorf("%w: %s", apperr.ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.find(id)
	if !ok {
		return models.CalendarEvent{}, apperr.ErrNotFound
	}

	// Resolve the series base for derived instances.
	base := target
	if target.IsInstance() {
		if b, ok := s.find(target.SeriesID); ok {
			base = b
		}
	}

	merged := patch.Apply(base)
	if merged.End.Before(merged.Start) {
		return models.CalendarEvent{}, fmt.Errorf("%w: end must not be before start", apperr.ErrValidation)
	}

	if base.SeriesID != "" {
		// Drop every previously derived instance of this series.
		s.persistDelete(s.removeSeriesInstances(base.SeriesID))
	}

	if merged.Recurring {
		merged.SeriesID = base.ID
		s.replace(base.ID, merged)
		instances := recurrence.Expand(merged, s.expand)
		s.events = append(s.events, instances...)
		s.persistUpsert(append([]models.CalendarEvent{merged}, instances...))
	} else {
		merged.SeriesID = ""
		s.replace(base.ID, merged)
		s.persistUpsert([]models.CalendarEvent{merged})
	}

	s.refresh()
	s.notify("updated", base.ID)
	return merged, nil
}

// DeleteEvent removes an event. Deleting any member of a recurring series
// removes the whole series; deleting a plain event removes only that row.
// Returns apperr.ErrNotFound when the id is unknown.
func (s *Service) DeleteEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.find(id)
	if !ok {
		return apperr.ErrNotFound
	}

	var removed []string
	if target.Recurring && target.SeriesID != "" {
		kept := s.events[:0]
		for _, ev := range s.events {
			if ev.SeriesID == target.SeriesID {
				removed = append(removed, ev.ID)
				continue
			}
			kept = append(kept, ev)
		}
		s.events = kept
	} else {
		removed = []string{target.ID}
		s.remove(target.ID)
	}

	s.persistDelete(removed)
	s.refresh()
	s.notify("deleted", id)
	return nil
}

// ToggleTaskCompletion flips the completed flag of a task. Non-task events
// are left untouched. Returns apperr.ErrNotFound when the id is unknown.
func (s *Service) ToggleTaskCompletion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.find(id)
	if !ok {
		return apperr.ErrNotFound
	}
	if target.Type != models.TypeTask {
		return nil
	}
	target.Completed = !target.Completed
	s.replace(target.ID, target)
	s.persistUpsert([]models.CalendarEvent{target})
	s.refresh()
	s.notify("updated", id)
	return nil
}

// ToggleCategory flips the visibility of a category and re-derives the view.
// Returns apperr.ErrNotFound when the category id is unknown.
func (s *Service) ToggleCategory(categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			s.categories[i].Visible = !s.categories[i].Visible
			s.refresh()
			s.notify("filter", categoryID)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// ToggleHolidays flips the holiday overlay and returns the new state.
func (s *Service) ToggleHolidays() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showHolidays = !s.showHolidays
	s.refresh()
	s.notify("filter", "holidays")
	return s.showHolidays
}

// Search re-derives the view for the given query. A blank query reverts to
// the standard category/holiday filter.
func (s *Service) Search(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.refresh()
}

// Events returns the current filtered view.
func (s *Service) Events() []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CalendarEvent(nil), s.view...)
}

// Categories returns the category registry.
func (s *Service) Categories() []models.EventCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EventCategory(nil), s.categories...)
}

// Holidays returns the raw holiday snapshot.
func (s *Service) Holidays() []models.Holiday {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Holiday(nil), s.holidays...)
}

// Location returns the location used for holiday and slot calculations.
func (s *Service) Location() *time.Location {
	return s.loc
}

// ShowHolidays reports whether the holiday overlay is active.
func (s *Service) ShowHolidays() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.showHolidays
}

// find looks up an event in the full store, ignoring visibility.
func (s *Service) find(id string) (models.CalendarEvent, bool) {
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return models.CalendarEvent{}, false
}

func (s *Service) replace(id string, ev models.CalendarEvent) {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = ev
			return
		}
	}
}

func (s *Service) remove(id string) {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return
		}
	}
}

// removeSeriesInstances drops every derived instance of a series, keeping
// the base, and returns the removed ids.
func (s *Service) removeSeriesInstances(seriesID string) []string {
	var removed []string
	kept := s.events[:0]
	for _, ev := range s.events {
		if ev.SeriesID == seriesID && ev.IsInstance() {
			removed = append(removed, ev.ID)
			continue
		}
		kept = append(kept, ev)
	}
	s.events = kept
	return removed
}

// persistUpsert mirrors events into the snapshot. Persistence is
// best-effort: failures are logged, the in-memory store stays authoritative.
func (s *Service) persistUpsert(events []models.CalendarEvent) {
	if s.idx == nil || len(events) == 0 {
		return
	}
	if err := s.idx.UpsertEvents(events); err != nil {
		s.logger.Warn("snapshot upsert failed", slog.Int("count", len(events)), slog.String("error", err.Error()))
	}
}

func (s *Service) persistDelete(ids []string) {
	if s.idx == nil || len(ids) == 0 {
		return
	}
	if err := s.idx.DeleteEvents(ids); err != nil {
		s.logger.Warn("snapshot delete failed", slog.Int("count", len(ids)), slog.String("error", err.Error()))
	}
}

func (s *Service) notify(kind, id string) {
	if s.onChange != nil {
		s.onChange(kind, id)
	}
}
