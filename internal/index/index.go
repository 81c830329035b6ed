package index

import "github.com/starford/dagaz/internal/models"

// EventSnapshot defines the persistence operations backing the store.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type EventSnapshot interface {
	UpsertEvents(events []models.CalendarEvent) error
	DeleteEvents(ids []string) error
	LoadEvents() ([]models.CalendarEvent, error)
	Close() error
}

// Verify *DB satisfies EventSnapshot at compile time.
var _ EventSnapshot = (*DB)(nil)
