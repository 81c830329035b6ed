// Package models defines the domain types for Dagaz.
package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EventType is the closed tag set for calendar entries.
type EventType string

// Event types.
const (
	TypeEvent   EventType = "event"
	TypeTask    EventType = "task"
	TypeHoliday EventType = "holiday"
)

// RecurrencePattern names the supported recurrence step units.
type RecurrencePattern string

// Recurrence patterns.
const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
)

// Reserved category ids used for synthesized holiday entries.
const (
	CategoryInternationalHoliday = "international-holiday"
	CategoryLocalHoliday         = "local-holiday"
)

// CalendarEvent is a single event, task, or synthesized holiday entry.
//
// Instances generated from a recurring base share the base's SeriesID and
// derive their ID as "<baseID>-recurrence-<n>". Series membership is always
// resolved through SeriesID, never by parsing the ID.
type CalendarEvent struct {
	ID            string            `json:"id"`
	SeriesID      string            `json:"series_id,omitempty"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Start         time.Time         `json:"start"`
	End           time.Time         `json:"end"`
	CategoryID    string            `json:"category_id"`
	AllDay        bool              `json:"all_day"`
	Recurring     bool              `json:"recurring"`
	Pattern       RecurrencePattern `json:"pattern,omitempty"`
	Interval      int               `json:"interval,omitempty"`
	RecurrenceEnd *time.Time        `json:"recurrence_end,omitempty"`
	Type          EventType         `json:"type"`
	Completed     bool              `json:"completed"`
}

// IsInstance reports whether the event is a derived occurrence of a series
// rather than the base that holds the recurrence rule.
func (e *CalendarEvent) IsInstance() bool {
	return e.SeriesID != "" && e.SeriesID != e.ID
}

// EventCategory is a seeded category with a visibility toggle.
// Color is presentation-only and passed through untouched.
type EventCategory struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Color   string `json:"color" yaml:"color"`
	Visible bool   `json:"visible" yaml:"visible"`
}

// HolidayType distinguishes externally sourced holiday kinds.
type HolidayType string

// Holiday types.
const (
	HolidayInternational HolidayType = "international"
	HolidayLocal         HolidayType = "local"
)

// Holiday is a read-only entry supplied by an external provider.
// Holidays are never stored in the event store; they are projected into
// synthetic all-day CalendarEvents at query time.
type Holiday struct {
	ID          string      `json:"id" yaml:"id"`
	Date        time.Time   `json:"date" yaml:"date"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description"`
	Type        HolidayType `json:"type" yaml:"type"`
}

// EventInput is the payload for creating an event.
type EventInput struct {
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Start         time.Time         `json:"start"`
	End           time.Time         `json:"end"`
	CategoryID    string            `json:"category_id"`
	AllDay        bool              `json:"all_day"`
	Recurring     bool              `json:"recurring"`
	Pattern       RecurrencePattern `json:"pattern"`
	Interval      int               `json:"interval"`
	RecurrenceEnd *time.Time        `json:"recurrence_end"`
	Type          EventType         `json:"type"`
	Completed     bool              `json:"completed"`
}

// Validate checks the input before it reaches the store.
func (in *EventInput) Validate() error {
	if err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Start, validation.Required),
		validation.Field(&in.End, validation.Required),
		validation.Field(&in.CategoryID, validation.Required),
		validation.Field(&in.Type, validation.Required, validation.In(TypeEvent, TypeTask)),
	); err != nil {
		return err
	}
	if in.End.Before(in.Start) {
		return errors.New("end: must not be before start")
	}
	if in.Recurring {
		return validation.ValidateStruct(in,
			validation.Field(&in.Pattern, validation.Required,
				validation.In(RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly)),
			validation.Field(&in.Interval, validation.Required, validation.Min(1)),
		)
	}
	return nil
}

// Event materializes the input into a base event with the given id.
func (in *EventInput) Event(id string) CalendarEvent {
	ev := CalendarEvent{
		ID:            id,
		Title:         in.Title,
		Description:   in.Description,
		Start:         in.Start,
		End:           in.End,
		CategoryID:    in.CategoryID,
		AllDay:        in.AllDay,
		Recurring:     in.Recurring,
		Pattern:       in.Pattern,
		Interval:      in.Interval,
		RecurrenceEnd: in.RecurrenceEnd,
		Type:          in.Type,
		Completed:     in.Completed,
	}
	if ev.Recurring {
		ev.SeriesID = id
	}
	return ev
}

// EventPatch is a partial update for an event. Nil fields are left unchanged.
type EventPatch struct {
	Title         *string            `json:"title,omitempty"`
	Description   *string            `json:"description,omitempty"`
	Start         *time.Time         `json:"start,omitempty"`
	End           *time.Time         `json:"end,omitempty"`
	CategoryID    *string            `json:"category_id,omitempty"`
	AllDay        *bool              `json:"all_day,omitempty"`
	Recurring     *bool              `json:"recurring,omitempty"`
	Pattern       *RecurrencePattern `json:"pattern,omitempty"`
	Interval      *int               `json:"interval,omitempty"`
	RecurrenceEnd *time.Time         `json:"recurrence_end,omitempty"`
	Type          *EventType         `json:"type,omitempty"`
	Completed     *bool              `json:"completed,omitempty"`
}

// Validate rejects patches that would merge into an invalid event.
func (p *EventPatch) Validate() error {
	if p.Pattern != nil {
		switch *p.Pattern {
		case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		default:
			return errors.New("pattern: must be a valid recurrence pattern")
		}
	}
	if p.Interval != nil && *p.Interval < 1 {
		return errors.New("interval: must be no less than 1")
	}
	if p.Type != nil && *p.Type != TypeEvent && *p.Type != TypeTask {
		return errors.New("type: must be a valid event type")
	}
	if p.Start != nil && p.End != nil && p.End.Before(*p.Start) {
		return errors.New("end: must not be before start")
	}
	return nil
}

// Apply merges the patch into ev and returns the result. The event identity
// (ID, SeriesID) is never touched by a patch.
func (p *EventPatch) Apply(ev CalendarEvent) CalendarEvent {
	if p.Title != nil {
		ev.Title = *p.Title
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
	if p.Start != nil {
		ev.Start = *p.Start
	}
	if p.End != nil {
		ev.End = *p.End
	}
	if p.CategoryID != nil {
		ev.CategoryID = *p.CategoryID
	}
	if p.AllDay != nil {
		ev.AllDay = *p.AllDay
	}
	if p.Recurring != nil {
		ev.Recurring = *p.Recurring
	}
	if p.Pattern != nil {
		ev.Pattern = *p.Pattern
	}
	if p.Interval != nil {
		ev.Interval = *p.Interval
	}
	if p.RecurrenceEnd != nil {
		ev.RecurrenceEnd = p.RecurrenceEnd
	}
	if p.Type != nil {
		ev.Type = *p.Type
	}
	if p.Completed != nil {
		ev.Completed = *p.Completed
	}
	return ev
}
