// Package ics imports iCalendar (RFC 5545) files into calendar event inputs.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/starford/dagaz/internal/models"
)

// Parse reads a single ICS payload and converts each VEVENT into an
// EventInput assigned to the given category. VEVENTs that cannot be
// converted are logged and skipped.
func Parse(body []byte, categoryID string, loc *time.Location) ([]models.EventInput, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	inputs := make([]models.EventInput, 0)
	for _, ve := range cal.Events() {
		in, perr := parseVEvent(ve, categoryID, loc)
		if perr != nil {
			slog.Warn("skipping vevent", "error", perr)
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func parseVEvent(ve *ical.VEvent, categoryID string, loc *time.Location) (models.EventInput, error) {
	var in models.EventInput
	in.CategoryID = categoryID
	in.Type = models.TypeEvent

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		in.Title = p.Value
	}
	if in.Title == "" {
		return in, errors.New("missing SUMMARY")
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		in.Description = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return in, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		// DTEND is optional; a VEVENT without one covers no time.
		end = start
	}
	in.Start = start.In(loc)
	in.End = end.In(loc)

	// All-day events use VALUE=DATE, or a date-only DTSTART value.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			in.AllDay = true
		}
		if !strings.Contains(p.Value, "T") {
			in.AllDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		if err := applyRRule(&in, p.Value); err != nil {
			return in, err
		}
	}

	return in, nil
}

// applyRRule maps the FREQ/INTERVAL/UNTIL parts of an RRULE onto the
// input's recurrence fields. Rules beyond those parts (BYDAY, COUNT...)
// are not representable and rejected.
func applyRRule(in *models.EventInput, raw string) error {
	in.Interval = 1
	for _, part := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "FREQ":
			pattern, err := patternFor(value)
			if err != nil {
				return err
			}
			in.Recurring = true
			in.Pattern = pattern
		case "INTERVAL":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 1 {
				return fmt.Errorf("bad INTERVAL %q", value)
			}
			in.Interval = n
		case "UNTIL":
			t, err := parseICSTime(value)
			if err != nil {
				return fmt.Errorf("bad UNTIL %q", value)
			}
			in.RecurrenceEnd = &t
		case "BYDAY", "BYMONTH", "BYMONTHDAY", "COUNT":
			return fmt.Errorf("unsupported RRULE part %s", key)
		}
	}
	if in.Recurring && in.Pattern == "" {
		return errors.New("RRULE missing FREQ")
	}
	return nil
}

func patternFor(freq string) (models.RecurrencePattern, error) {
	switch strings.ToUpper(strings.TrimSpace(freq)) {
	case "DAILY":
		return models.RecurrenceDaily, nil
	case "WEEKLY":
		return models.RecurrenceWeekly, nil
	case "MONTHLY":
		return models.RecurrenceMonthly, nil
	case "YEARLY":
		return models.RecurrenceYearly, nil
	default:
		return "", fmt.Errorf("unsupported FREQ %q", freq)
	}
}

// parseICSTime parses basic ICS date and date-time forms.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}
	return time.ParseInLocation("20060102", v, time.Local)
}
