package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"meetsync/models"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

var ErrEmptyCalendar = errors.New("calendar file is empty")

// busyEvent is a VEVENT reduced to what availability painting needs.
type busyEvent struct {
	UID        string
	Kind       models.AvailabilityType
	Start      time.Time
	End        time.Time
	AllDay     bool
	RawRRule   string
	ExDates    []time.Time
	Recurrence *time.Time
}

// parseEvents reads every VEVENT that blocks time. Cancelled and transparent
// events are dropped; events whose times can't be read are logged and
// skipped.
func parseEvents(body []byte, loc *time.Location, logger *zap.Logger) ([]busyEvent, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &models.ImportFormatError{Reason: ErrEmptyCalendar.Error(), Err: ErrEmptyCalendar}
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, &models.ImportFormatError{Reason: "unreadable iCalendar data", Err: err}
	}

	events := make([]busyEvent, 0)
	for _, ve := range cal.Events() {
		ev, ok, err := parseVEvent(ve, loc)
		if err != nil {
			logger.Debug("Skipping calendar event", zap.String("uid", ev.UID), zap.Error(err))
			continue
		}
		if ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (busyEvent, bool, error) {
	var out busyEvent
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}

	status := ""
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		status = strings.ToUpper(strings.TrimSpace(p.Value))
	}
	if status == "CANCELLED" {
		return out, false, nil
	}
	if p := ve.GetProperty(ical.ComponentPropertyTransp); p != nil && strings.EqualFold(strings.TrimSpace(p.Value), "TRANSPARENT") {
		return out, false, nil
	}
	out.Kind = models.AvailabilityBusy
	if status == "TENTATIVE" {
		out.Kind = models.AvailabilityTentative
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, false, errors.New("missing DTSTART")
	}
	out.AllDay = isDateValue(dtStart)

	if out.AllDay {
		start, err := parseICSTime(dtStart.Value, loc)
		if err != nil {
			return out, false, fmt.Errorf("DTSTART: %w", err)
		}
		out.Start = start
		out.End = start.AddDate(0, 0, 1)
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if end, err := parseICSTime(dtEnd.Value, loc); err == nil && end.After(start) {
				out.End = end
			}
		}
	} else {
		start, err := ve.GetStartAt()
		if err != nil {
			return out, false, fmt.Errorf("DTSTART: %w", err)
		}
		end, err := ve.GetEndAt()
		if err != nil {
			return out, false, fmt.Errorf("DTEND: %w", err)
		}
		start = floatingIn(dtStart, start, loc)
		if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			end = floatingIn(dtEnd, end, loc)
		}
		if !end.After(start) {
			return out, false, errors.New("event ends before it starts")
		}
		out.Start, out.End = start, end
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, tzidLocation(p, out.Start.Location())); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyRecurrenceId); p != nil {
		if t, err := parseICSTime(p.Value, tzidLocation(p, out.Start.Location())); err == nil {
			out.Recurrence = &t
		}
	}
	return out, true, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// floatingIn moves a floating time (no TZID, no UTC suffix), which the
// parser reads in time.Local, onto the same wall clock in loc.
func floatingIn(p *ical.IANAProperty, t time.Time, loc *time.Location) time.Time {
	if _, ok := p.ICalParameters["TZID"]; ok || strings.HasSuffix(p.Value, "Z") {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

// tzidLocation resolves a TZID parameter, falling back to fallback.
func tzidLocation(p *ical.IANAProperty, fallback *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	return fallback
}

// parseICSTime handles UTC, floating date-time and date-only values.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}
