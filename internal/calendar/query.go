package calendar

import (
	"time"

	"github.com/starford/dagaz/internal/models"
)

// SlotDuration is the width of a scheduling slot.
const SlotDuration = 30 * time.Minute

// EventByID looks up an event in the current filtered view. An event hidden
// by a category toggle is not retrievable even though it remains stored.
func (s *Service) EventByID(id string) (models.CalendarEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.view {
		if ev.ID == id {
			return ev, true
		}
	}
	return models.CalendarEvent{}, false
}

// IsEventInTimeSlot reports whether the event overlaps the 30-minute slot
// starting at date@hour:minutes. The slot is half-open: an event ending
// exactly at the slot start does not overlap.
func (s *Service) IsEventInTimeSlot(id string, date time.Time, hour, minutes int) bool {
	ev, ok := s.EventByID(id)
	if !ok {
		return false
	}
	slotStart := s.slotStart(date, hour, minutes)
	slotEnd := slotStart.Add(SlotDuration)
	return ev.Start.Before(slotEnd) && ev.End.After(slotStart)
}

// IsTimeSlotAvailable reports whether the slot can be scheduled. Any
// non-holiday all-day event starting on the given calendar day blocks the
// entire day; holidays never block availability.
func (s *Service) IsTimeSlotAvailable(date time.Time, hour, minutes int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ev := range s.view {
		if ev.Type == models.TypeHoliday || !ev.AllDay {
			continue
		}
		if !sameDay(ev.Start.In(s.loc), date.In(s.loc)) {
			continue
		}
		if !date.Before(ev.Start) && !date.After(ev.End) {
			return false
		}
	}
	return true
}

func (s *Service) slotStart(date time.Time, hour, minutes int) time.Time {
	d := date.In(s.loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minutes, 0, 0, s.loc)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
