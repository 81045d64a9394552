package models

// AvailabilityType classifies a stretch of an attendee's week. Rows without a
// slot are implicitly available, so "available" rarely appears on the wire.
type AvailabilityType string

const (
	AvailabilityBusy      AvailabilityType = "busy"
	AvailabilityTentative AvailabilityType = "tentative"
	AvailabilityAvailable AvailabilityType = "available"
)

// Valid reports whether t is one of the known availability types.
func (t AvailabilityType) Valid() bool {
	switch t {
	case AvailabilityBusy, AvailabilityTentative, AvailabilityAvailable:
		return true
	}
	return false
}

// Paintable reports whether t may appear on a painted grid cell.
func (t AvailabilityType) Paintable() bool {
	return t == AvailabilityBusy || t == AvailabilityTentative
}

// TimeSlot is one maximal, contiguous interval of a single availability type
// within one weekday.
type TimeSlot struct {
	Day              int              `json:"day"`         // Monday=0 ... Friday=4
	StartMinute      int              `json:"startMinute"` // minutes since 00:00
	EndMinute        int              `json:"endMinute"`   // exclusive, > StartMinute
	AvailabilityType AvailabilityType `json:"availabilityType"`
}

// Cell is one painted (day, row) unit of the weekly grid. Cells only exist
// while a schedule is being edited; the store keeps TimeSlots.
type Cell struct {
	Day              int              `json:"day"`
	Row              int              `json:"row"`
	AvailabilityType AvailabilityType `json:"availabilityType"`
}

// SetScheduleRequest carries the painted cells of the selected attendee.
type SetScheduleRequest struct {
	Cells []Cell `json:"cells" binding:"required"`
}
