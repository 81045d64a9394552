// Package calendar paints an attendee's week from an iCalendar file.
package calendar

import (
	"sort"
	"time"

	"meetsync/models"
	"meetsync/services/timegrid"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
)

// maxOccurrences caps expansion of a single recurring event within one week.
const maxOccurrences = 500

type Importer struct {
	grid   timegrid.Grid
	loc    *time.Location
	logger *zap.Logger
}

// NewImporter builds an importer that reads times in loc (time.Local when nil).
func NewImporter(grid timegrid.Grid, loc *time.Location, logger *zap.Logger) *Importer {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{grid: grid, loc: loc, logger: logger}
}

// WeekStart returns Monday 00:00 of the week containing t, in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, loc)
}

// Cells turns the events of the week containing ref into painted cells,
// sorted by (day, row). A row touched by any busy event is busy; rows touched
// only by tentative events are tentative.
func (im *Importer) Cells(body []byte, ref time.Time) ([]models.Cell, error) {
	events, err := parseEvents(body, im.loc, im.logger)
	if err != nil {
		return nil, err
	}

	weekStart := WeekStart(ref, im.loc)
	weekEnd := weekStart.AddDate(0, 0, im.grid.Days)
	overridden := recurrenceIDs(events)

	painted := make(map[[2]int]models.AvailabilityType)
	for _, ev := range events {
		for _, occ := range im.occurrences(ev, overridden[ev.UID], weekStart, weekEnd) {
			im.paint(painted, weekStart, occ[0], occ[1], ev.Kind)
		}
	}

	cells := make([]models.Cell, 0, len(painted))
	for key, kind := range painted {
		cells = append(cells, models.Cell{Day: key[0], Row: key[1], AvailabilityType: kind})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Day != cells[j].Day {
			return cells[i].Day < cells[j].Day
		}
		return cells[i].Row < cells[j].Row
	})

	im.logger.Info("Calendar imported",
		zap.Int("events", len(events)),
		zap.Int("cells", len(cells)),
		zap.Time("weekStart", weekStart))
	return cells, nil
}

// recurrenceIDs collects, per UID, the instants replaced by override events.
func recurrenceIDs(events []busyEvent) map[string][]time.Time {
	out := make(map[string][]time.Time)
	for _, ev := range events {
		if ev.Recurrence != nil && ev.UID != "" {
			out[ev.UID] = append(out[ev.UID], *ev.Recurrence)
		}
	}
	return out
}

// occurrences lists [start, end) pairs of ev that overlap [from, to).
func (im *Importer) occurrences(ev busyEvent, overridden []time.Time, from, to time.Time) [][2]time.Time {
	duration := ev.End.Sub(ev.Start)
	if ev.RawRRule == "" || ev.Recurrence != nil {
		if ev.End.After(from) && ev.Start.Before(to) {
			return [][2]time.Time{{ev.Start, ev.End}}
		}
		return nil
	}

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		im.logger.Warn("Skipping event with unreadable RRULE",
			zap.String("uid", ev.UID), zap.String("rrule", ev.RawRRule), zap.Error(err))
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}
	for _, rid := range overridden {
		set.ExDate(rid.In(ev.Start.Location()))
	}

	starts := set.Between(from.Add(-duration).In(ev.Start.Location()), to.In(ev.Start.Location()), true)
	if len(starts) > maxOccurrences {
		im.logger.Warn("Truncating recurring event", zap.String("uid", ev.UID), zap.Int("occurrences", len(starts)))
		starts = starts[:maxOccurrences]
	}

	out := make([][2]time.Time, 0, len(starts))
	for _, s := range starts {
		end := s.Add(duration)
		if ev.AllDay {
			s = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location())
			end = s.AddDate(0, 0, int(duration.Hours()+12)/24)
		}
		if end.After(from) && s.Before(to) {
			out = append(out, [2]time.Time{s, end})
		}
	}
	return out
}

// paint marks every row that [start, end) touches on each weekday it spans.
func (im *Importer) paint(painted map[[2]int]models.AvailabilityType, weekStart, start, end time.Time, kind models.AvailabilityType) {
	start, end = start.In(im.loc), end.In(im.loc)
	for day := 0; day < im.grid.Days; day++ {
		midnight := weekStart.AddDate(0, 0, day)
		next := midnight.AddDate(0, 0, 1)
		if !end.After(midnight) || !start.Before(next) {
			continue
		}

		from := im.grid.DayStart
		if start.After(midnight) {
			from = int(start.Sub(midnight).Minutes())
		}
		to := im.grid.DayEnd
		if end.Before(next) {
			to = int(end.Sub(midnight).Minutes())
			if end.Sub(midnight)%time.Minute != 0 {
				to++
			}
		}
		if from < im.grid.DayStart {
			from = im.grid.DayStart
		}
		if to > im.grid.DayEnd {
			to = im.grid.DayEnd
		}
		if from >= to {
			continue
		}

		first := im.grid.RowFromMinute(from)
		last := (to - im.grid.DayStart + im.grid.SlotMinutes - 1) / im.grid.SlotMinutes
		for row := first; row < last; row++ {
			key := [2]int{day, row}
			if painted[key] == models.AvailabilityBusy {
				continue
			}
			painted[key] = kind
		}
	}
}

// MergeCells overlays incoming onto existing with the same busy-wins rule.
func MergeCells(existing, incoming []models.Cell) []models.Cell {
	merged := make(map[[2]int]models.AvailabilityType, len(existing)+len(incoming))
	order := make([][2]int, 0, len(existing)+len(incoming))
	for _, c := range append(append([]models.Cell{}, existing...), incoming...) {
		key := [2]int{c.Day, c.Row}
		prev, ok := merged[key]
		if !ok {
			order = append(order, key)
		}
		if !ok || prev != models.AvailabilityBusy {
			merged[key] = c.AvailabilityType
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i][0] != order[j][0] {
			return order[i][0] < order[j][0]
		}
		return order[i][1] < order[j][1]
	})

	out := make([]models.Cell, len(order))
	for i, key := range order {
		out[i] = models.Cell{Day: key[0], Row: key[1], AvailabilityType: merged[key]}
	}
	return out
}

