package calendar_test

import (
	"testing"
	"time"

	"github.com/starford/dagaz/internal/calendar"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/testutil"
)

// The snapshot round trip: a service writing through to SQLite, a restart
// simulated by seeding a fresh service from LoadEvents.
func TestSnapshotRoundTrip(t *testing.T) {
	db := testutil.TestDB(t)
	categories := []models.EventCategory{
		{ID: "work", Name: "Work", Visible: true},
	}
	svc := calendar.NewService(categories, nil, calendar.Options{
		Location: time.UTC,
		Index:    db,
	})

	end := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	if _, err := svc.CreateEvent(models.EventInput{
		Title:         "Daily standup",
		Start:         time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 3, 4, 9, 15, 0, 0, time.UTC),
		CategoryID:    "work",
		Type:          models.TypeEvent,
		Recurring:     true,
		Pattern:       models.RecurrenceDaily,
		Interval:      1,
		RecurrenceEnd: &end,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateEvent(models.EventInput{
		Title:      "One-off review",
		Start:      time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC),
		CategoryID: "work",
		Type:       models.TypeEvent,
	}); err != nil {
		t.Fatal(err)
	}

	wantEvents := svc.Events()

	persisted, err := db.LoadEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != len(wantEvents) {
		t.Fatalf("persisted %d events, view has %d", len(persisted), len(wantEvents))
	}

	restarted := calendar.NewService(categories, nil, calendar.Options{Location: time.UTC})
	restarted.Seed(persisted)

	got := restarted.Events()
	if len(got) != len(wantEvents) {
		t.Fatalf("restarted view has %d events, want %d", len(got), len(wantEvents))
	}
	byID := make(map[string]models.CalendarEvent, len(got))
	for _, ev := range got {
		byID[ev.ID] = ev
	}
	for _, want := range wantEvents {
		ev, ok := byID[want.ID]
		if !ok {
			t.Errorf("event %s missing after restart", want.ID)
			continue
		}
		if ev.Title != want.Title || !ev.Start.Equal(want.Start) || ev.SeriesID != want.SeriesID {
			t.Errorf("event %s = %+v, want %+v", want.ID, ev, want)
		}
	}
}

// Deleting a series must also clear its instances from the snapshot.
func TestSnapshotSeriesDelete(t *testing.T) {
	db := testutil.TestDB(t)
	svcWithDB := calendar.NewService([]models.EventCategory{
		{ID: "work", Name: "Work", Visible: true},
	}, nil, calendar.Options{Location: time.UTC, Index: db})

	end := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	ev, err := svcWithDB.CreateEvent(models.EventInput{
		Title:         "Series",
		Start:         time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		CategoryID:    "work",
		Type:          models.TypeEvent,
		Recurring:     true,
		Pattern:       models.RecurrenceDaily,
		Interval:      1,
		RecurrenceEnd: &end,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svcWithDB.DeleteEvent(ev.ID); err != nil {
		t.Fatal(err)
	}

	persisted, err := db.LoadEvents()
	if err != nil {
		t.Fatal(err)
	}
	if len(persisted) != 0 {
		t.Errorf("snapshot still holds %d events after series delete", len(persisted))
	}
}
