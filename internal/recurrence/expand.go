// Package recurrence materializes recurring base events into concrete
// occurrence instances.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/starford/dagaz/internal/models"
)

// Defaults applied when Options fields are zero.
const (
	DefaultHorizonYears = 2
	DefaultMaxInstances = 100
)

// Options bounds an expansion.
type Options struct {
	// HorizonYears is the default expansion horizon, counted from the base
	// start, used when the event carries no recurrence end date.
	HorizonYears int

	// MaxInstances caps the total number of occurrences considered,
	// including the base occurrence itself. An expansion therefore yields
	// at most MaxInstances-1 derived instances.
	MaxInstances int
}

func (o Options) withDefaults() Options {
	if o.HorizonYears <= 0 {
		o.HorizonYears = DefaultHorizonYears
	}
	if o.MaxInstances <= 0 {
		o.MaxInstances = DefaultMaxInstances
	}
	return o
}

// Expand returns the derived instances of a recurring base event, in
// occurrence order. The base occurrence itself is never emitted. Every
// instance preserves the base duration, shares the base SeriesID, and gets
// the id "<baseID>-recurrence-<n>" with n the 1-based occurrence index.
//
// Expansion is pure and deterministic: identical inputs yield identical
// instances. A non-recurring event expands to nil.
func Expand(base models.CalendarEvent, opts Options) []models.CalendarEvent {
	if !base.Recurring {
		return nil
	}
	opts = opts.withDefaults()

	interval := base.Interval
	if interval < 1 {
		interval = 1
	}
	until := horizon(base, opts)
	dur := base.End.Sub(base.Start)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     freqFor(base.Pattern),
		Interval: interval,
		Dtstart:  base.Start,
		Until:    until,
	})
	if err != nil {
		// Bounds are sane by construction; a rule that still fails to
		// build simply yields no instances.
		return nil
	}

	seriesID := base.SeriesID
	if seriesID == "" {
		seriesID = base.ID
	}

	var out []models.CalendarEvent
	next := r.Iterator()
	for i := 0; i < opts.MaxInstances; i++ {
		start, ok := next()
		if !ok {
			break
		}
		if i == 0 {
			// Occurrence 0 is the base event, already in the store.
			continue
		}
		inst := base
		inst.ID = fmt.Sprintf("%s-recurrence-%d", base.ID, i)
		inst.SeriesID = seriesID
		inst.Start = start
		inst.End = start.Add(dur)
		out = append(out, inst)
	}
	return out
}

func horizon(base models.CalendarEvent, opts Options) time.Time {
	if base.RecurrenceEnd != nil {
		return *base.RecurrenceEnd
	}
	return base.Start.AddDate(opts.HorizonYears, 0, 0)
}

// freqFor maps a pattern to its RRULE frequency. Unrecognized patterns fall
// back to daily stepping rather than failing; invalid patterns are rejected
// earlier at the input boundary, so this only guards stale snapshot data.
func freqFor(p models.RecurrencePattern) rrule.Frequency {
	switch p {
	case models.RecurrenceWeekly:
		return rrule.WEEKLY
	case models.RecurrenceMonthly:
		return rrule.MONTHLY
	case models.RecurrenceYearly:
		return rrule.YEARLY
	default:
		return rrule.DAILY
	}
}
