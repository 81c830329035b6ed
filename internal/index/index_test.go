package index

import (
	"os"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleEvent(id string) models.CalendarEvent {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	return models.CalendarEvent{
		ID:         id,
		Title:      "Planning",
		Start:      start,
		End:        start.Add(time.Hour),
		CategoryID: "work",
		Type:       models.TypeEvent,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM events`).Scan(&count); err != nil {
		t.Fatalf("events table missing: %v", err)
	}
}

func TestUpsertAndLoad(t *testing.T) {
	db := testDB(t)
	recEnd := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ev := sampleEvent("a")
	ev.SeriesID = "a"
	ev.Recurring = true
	ev.Pattern = models.RecurrenceWeekly
	ev.Interval = 2
	ev.RecurrenceEnd = &recEnd

	if err := db.UpsertEvents([]models.CalendarEvent{ev}); err != nil {
		t.Fatalf("UpsertEvents: %v", err)
	}

	got, err := db.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d events, want 1", len(got))
	}
	round := got[0]
	if round.ID != "a" || round.Pattern != models.RecurrenceWeekly || round.Interval != 2 {
		t.Errorf("roundtrip mismatch: %+v", round)
	}
	if round.RecurrenceEnd == nil || !round.RecurrenceEnd.Equal(recEnd) {
		t.Errorf("recurrence_end = %v, want %v", round.RecurrenceEnd, recEnd)
	}
	if !round.Start.Equal(ev.Start) {
		t.Errorf("start = %v, want %v", round.Start, ev.Start)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	ev := sampleEvent("up")
	_ = db.UpsertEvents([]models.CalendarEvent{ev})

	ev.Title = "Replanned"
	ev.Completed = true
	if err := db.UpsertEvents([]models.CalendarEvent{ev}); err != nil {
		t.Fatalf("UpsertEvents: %v", err)
	}

	got, _ := db.LoadEvents()
	if len(got) != 1 {
		t.Fatalf("loaded %d events, want 1", len(got))
	}
	if got[0].Title != "Replanned" || !got[0].Completed {
		t.Errorf("update not applied: %+v", got[0])
	}
}

func TestDeleteEvents(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEvents([]models.CalendarEvent{sampleEvent("a"), sampleEvent("b"), sampleEvent("c")})

	if err := db.DeleteEvents([]string{"a", "c"}); err != nil {
		t.Fatalf("DeleteEvents: %v", err)
	}
	got, _ := db.LoadEvents()
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only b to survive, got %+v", got)
	}
}

func TestLoadEvents_OrderedByStart(t *testing.T) {
	db := testDB(t)
	late := sampleEvent("late")
	late.Start = late.Start.AddDate(0, 0, 7)
	late.End = late.Start.Add(time.Hour)
	early := sampleEvent("early")

	_ = db.UpsertEvents([]models.CalendarEvent{late, early})
	got, _ := db.LoadEvents()
	if len(got) != 2 || got[0].ID != "early" {
		t.Fatalf("order = %+v, want early first", got)
	}
}
