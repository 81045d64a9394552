package timegrid

import (
	"fmt"
	"sort"

	"meetsync/models"
)

// run is a contiguous block of rows sharing one availability type.
type run struct {
	first, last int
	kind        models.AvailabilityType
}

// Compress folds painted cells into the minimal ordered list of TimeSlots.
// Cells of any type other than busy or tentative are rejected, as are cells
// off the grid and cells painted twice with different types.
func (g Grid) Compress(cells []models.Cell) ([]models.TimeSlot, error) {
	byDay := make(map[int][]models.Cell)
	seen := make(map[[2]int]models.AvailabilityType, len(cells))

	for _, c := range cells {
		if !c.AvailabilityType.Paintable() {
			return nil, fmt.Errorf("day %d row %d: %w %q", c.Day, c.Row, ErrUnknownAvailability, c.AvailabilityType)
		}
		if c.Day < 0 || c.Day >= g.Days || c.Row < 0 || c.Row >= g.Rows() {
			return nil, fmt.Errorf("day %d row %d: %w", c.Day, c.Row, ErrCellOutOfRange)
		}
		key := [2]int{c.Day, c.Row}
		if prev, ok := seen[key]; ok {
			if prev != c.AvailabilityType {
				return nil, fmt.Errorf("day %d row %d: %w", c.Day, c.Row, ErrConflictingCell)
			}
			continue
		}
		seen[key] = c.AvailabilityType
		byDay[c.Day] = append(byDay[c.Day], c)
	}

	slots := make([]models.TimeSlot, 0, len(byDay))
	for day, rows := range byDay {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Row < rows[j].Row })
		for _, r := range contiguousRuns(rows) {
			slots = append(slots, models.TimeSlot{
				Day:              day,
				StartMinute:      g.MinuteFromRow(r.first),
				EndMinute:        g.MinuteFromRow(r.last + 1),
				AvailabilityType: r.kind,
			})
		}
	}

	sortSlots(slots)
	return slots, nil
}

// contiguousRuns expects rows sorted ascending and free of duplicates.
func contiguousRuns(rows []models.Cell) []run {
	if len(rows) == 0 {
		return nil
	}

	runs := make([]run, 0, 4)
	cur := run{first: rows[0].Row, last: rows[0].Row, kind: rows[0].AvailabilityType}
	for _, c := range rows[1:] {
		if c.Row == cur.last+1 && c.AvailabilityType == cur.kind {
			cur.last = c.Row
			continue
		}
		runs = append(runs, cur)
		cur = run{first: c.Row, last: c.Row, kind: c.AvailabilityType}
	}
	return append(runs, cur)
}

// Decompress expands slots into one cell per covered row, in slot order.
// Available rows are never emitted.
func (g Grid) Decompress(slots []models.TimeSlot) []models.Cell {
	cells := make([]models.Cell, 0, len(slots)*4)
	for _, s := range slots {
		if s.AvailabilityType == models.AvailabilityAvailable {
			continue
		}
		for row := g.RowFromMinute(s.StartMinute); row < g.RowFromMinute(s.EndMinute); row++ {
			cells = append(cells, models.Cell{Day: s.Day, Row: row, AvailabilityType: s.AvailabilityType})
		}
	}
	return cells
}

// Normalize validates slots coming from outside the codec (API calls, import
// files) and returns them in canonical form: sorted, merged, with explicit
// available slots dropped.
func (g Grid) Normalize(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	kept := make([]models.TimeSlot, 0, len(slots))
	for i, s := range slots {
		if err := g.ValidateSlot(s); err != nil {
			return nil, fmt.Errorf("timeSlots[%d]: %w", i, err)
		}
		if s.AvailabilityType == models.AvailabilityAvailable {
			continue
		}
		kept = append(kept, s)
	}

	sortSlots(kept)
	for i := 1; i < len(kept); i++ {
		prev, cur := kept[i-1], kept[i]
		if prev.Day == cur.Day && cur.StartMinute < prev.EndMinute {
			return nil, fmt.Errorf("day %d at minute %d: %w", cur.Day, cur.StartMinute, ErrOverlappingSlots)
		}
	}

	return g.Compress(g.Decompress(kept))
}

// ValidateSlot checks a single slot against the grid bounds.
func (g Grid) ValidateSlot(s models.TimeSlot) error {
	switch {
	case !s.AvailabilityType.Valid():
		return fmt.Errorf("%w %q", ErrUnknownAvailability, s.AvailabilityType)
	case s.Day < 0 || s.Day >= g.Days:
		return fmt.Errorf("%w: day %d outside 0..%d", ErrInvalidSlot, s.Day, g.Days-1)
	case s.StartMinute < g.DayStart || s.EndMinute > g.DayEnd:
		return fmt.Errorf("%w: %d-%d outside %d-%d", ErrInvalidSlot, s.StartMinute, s.EndMinute, g.DayStart, g.DayEnd)
	case s.StartMinute >= s.EndMinute:
		return fmt.Errorf("%w: start %d not before end %d", ErrInvalidSlot, s.StartMinute, s.EndMinute)
	case !g.Aligned(s.StartMinute) || !g.Aligned(s.EndMinute):
		return fmt.Errorf("%w: times must follow %d-minute increments", ErrInvalidSlot, g.SlotMinutes)
	}
	return nil
}

func sortSlots(slots []models.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].StartMinute < slots[j].StartMinute
	})
}
