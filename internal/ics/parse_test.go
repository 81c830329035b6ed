package ics

import (
	"testing"
	"time"

	"github.com/starford/dagaz/internal/models"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:one@test
DTSTART:20240304T090000Z
DTEND:20240304T100000Z
SUMMARY:Team meeting
DESCRIPTION:Weekly sync
END:VEVENT
BEGIN:VEVENT
UID:two@test
DTSTART;VALUE=DATE:20240310
DTEND;VALUE=DATE:20240311
SUMMARY:Conference day
END:VEVENT
END:VCALENDAR
`

const recurringICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:gym@test
DTSTART:20240101T070000Z
DTEND:20240101T080000Z
SUMMARY:Gym
RRULE:FREQ=WEEKLY;INTERVAL=2;UNTIL=20240601T000000Z
END:VEVENT
END:VCALENDAR
`

const unsupportedRuleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:skip@test
DTSTART:20240101T070000Z
DTEND:20240101T080000Z
SUMMARY:Monday thing
RRULE:FREQ=WEEKLY;BYDAY=MO
END:VEVENT
BEGIN:VEVENT
UID:keep@test
DTSTART:20240102T070000Z
DTEND:20240102T080000Z
SUMMARY:Plain thing
END:VEVENT
END:VCALENDAR
`

func TestParseEvents(t *testing.T) {
	inputs, err := Parse([]byte(sampleICS), "work", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d inputs, want 2", len(inputs))
	}

	meeting := inputs[0]
	if meeting.Title != "Team meeting" || meeting.Description != "Weekly sync" {
		t.Errorf("meeting = %+v", meeting)
	}
	if meeting.CategoryID != "work" || meeting.Type != models.TypeEvent {
		t.Errorf("meeting category/type = %q/%q", meeting.CategoryID, meeting.Type)
	}
	wantStart := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	if !meeting.Start.Equal(wantStart) {
		t.Errorf("meeting start = %v, want %v", meeting.Start, wantStart)
	}
	if meeting.AllDay {
		t.Error("timed meeting marked all-day")
	}

	conf := inputs[1]
	if !conf.AllDay {
		t.Error("VALUE=DATE event not marked all-day")
	}
}

func TestParseRecurring(t *testing.T) {
	inputs, err := Parse([]byte(recurringICS), "personal", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs, want 1", len(inputs))
	}

	gym := inputs[0]
	if !gym.Recurring || gym.Pattern != models.RecurrenceWeekly || gym.Interval != 2 {
		t.Errorf("recurrence = %+v", gym)
	}
	if gym.RecurrenceEnd == nil {
		t.Fatal("missing recurrence end")
	}
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !gym.RecurrenceEnd.Equal(want) {
		t.Errorf("recurrence end = %v, want %v", gym.RecurrenceEnd, want)
	}
}

func TestParseSkipsUnsupportedRules(t *testing.T) {
	inputs, err := Parse([]byte(unsupportedRuleICS), "work", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 1 {
		t.Fatalf("got %d inputs, want 1", len(inputs))
	}
	if inputs[0].Title != "Plain thing" {
		t.Errorf("kept event = %q", inputs[0].Title)
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(nil, "work", time.UTC); err == nil {
		t.Error("expected error for empty body")
	}
}
