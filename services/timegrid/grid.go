package timegrid

import "errors"

const (
	// SlotMinutes is the width of one grid row.
	SlotMinutes = 15
	// DaysPerWeek covers Monday through Friday.
	DaysPerWeek = 5
	// MinutesPerDay is the exclusive upper bound for any minute value.
	MinutesPerDay = 24 * 60
)

var (
	ErrUnknownAvailability = errors.New("unknown availability type")
	ErrCellOutOfRange      = errors.New("cell outside the grid")
	ErrConflictingCell     = errors.New("cell painted with two availability types")
	ErrOverlappingSlots    = errors.New("time slots overlap")
	ErrInvalidSlot         = errors.New("invalid time slot")
	ErrInvalidGrid         = errors.New("invalid grid configuration")
)

// Grid describes the painting surface: Days columns of rows SlotMinutes wide,
// starting at DayStart and ending at DayEnd (both minutes since 00:00).
type Grid struct {
	SlotMinutes int
	DayStart    int
	DayEnd      int
	Days        int
}

// DefaultGrid is the full-day, five-day, 15-minute grid.
func DefaultGrid() Grid {
	return Grid{
		SlotMinutes: SlotMinutes,
		DayStart:    0,
		DayEnd:      MinutesPerDay,
		Days:        DaysPerWeek,
	}
}

// New builds a grid from a configured day start and row width.
func New(dayStart, slotMinutes int) (Grid, error) {
	g := Grid{
		SlotMinutes: slotMinutes,
		DayStart:    dayStart,
		DayEnd:      MinutesPerDay,
		Days:        DaysPerWeek,
	}
	return g, g.Validate()
}

// Validate checks that rows tile [DayStart, DayEnd) exactly.
func (g Grid) Validate() error {
	if g.SlotMinutes <= 0 || g.Days <= 0 {
		return ErrInvalidGrid
	}
	if g.DayStart < 0 || g.DayEnd > MinutesPerDay || g.DayStart >= g.DayEnd {
		return ErrInvalidGrid
	}
	if (g.DayEnd-g.DayStart)%g.SlotMinutes != 0 {
		return ErrInvalidGrid
	}
	return nil
}

// Rows is the number of rows per day.
func (g Grid) Rows() int {
	return (g.DayEnd - g.DayStart) / g.SlotMinutes
}

// MinuteFromRow converts a row index to minutes since 00:00.
func (g Grid) MinuteFromRow(row int) int {
	return row*g.SlotMinutes + g.DayStart
}

// RowFromMinute converts minutes since 00:00 to a row index. It is the exact
// inverse of MinuteFromRow for aligned minutes.
func (g Grid) RowFromMinute(minute int) int {
	return (minute - g.DayStart) / g.SlotMinutes
}

// Aligned reports whether minute falls on a row boundary.
func (g Grid) Aligned(minute int) bool {
	return (minute-g.DayStart)%g.SlotMinutes == 0
}
