package submission

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"meetsync/models"
)

var (
	ErrNoUsers          = errors.New("add at least one attendee before submitting")
	ErrInvalidWorkHours = errors.New("work hours must be HH:MM with start before end")
	ErrWindowTooShort   = errors.New("work hours window is shorter than the meeting")
)

const (
	// DayEndSentinel is the exclusive end of day accepted from callers.
	DayEndSentinel = "24:00"
	// WireDayEnd replaces DayEndSentinel on the wire.
	WireDayEnd = "23:59"
)

// Guard checks that a submission makes sense before any request is built.
type Guard struct{}

// Validate reports the first failed precondition as a *models.ValidationError.
// A nil hours window skips the work-hours checks.
func (Guard) Validate(userCount int, hours *models.HoursWindow, meetingLength int) error {
	if userCount <= 0 {
		return models.NewValidationError("availability", ErrNoUsers)
	}
	if hours == nil {
		return nil
	}

	start, err := ParseClock(hours.Start)
	if err != nil {
		return &models.ValidationError{Field: "hours.start", Reason: err.Error(), Err: err}
	}
	end, err := ParseClock(hours.End)
	if err != nil {
		return &models.ValidationError{Field: "hours.end", Reason: err.Error(), Err: err}
	}
	if start >= end {
		cause := fmt.Errorf("%w: %s is not before %s", ErrInvalidWorkHours, hours.Start, hours.End)
		return &models.ValidationError{Field: "hours", Reason: cause.Error(), Err: cause}
	}
	if end-start < meetingLength {
		cause := fmt.Errorf("%w: %d minutes available, %d needed", ErrWindowTooShort, end-start, meetingLength)
		return &models.ValidationError{Field: "hours", Reason: cause.Error(), Err: cause}
	}
	return nil
}

// ParseClock converts "HH:MM" to minutes since 00:00. "24:00" is accepted and
// maps to 1440.
func ParseClock(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWorkHours, value)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWorkHours, value)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWorkHours, value)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidWorkHours, value)
	}
	return h*60 + m, nil
}

// NormalizeDayEnd rewrites the "24:00" sentinel as "23:59". The solver reads
// "24:00" as the start of the day, so the last minute is given up.
func NormalizeDayEnd(end string) string {
	if strings.TrimSpace(end) == DayEndSentinel {
		return WireDayEnd
	}
	return end
}
