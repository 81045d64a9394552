package submission

import (
	"fmt"
	"strings"
	"time"

	"meetsync/models"
)

// FormatReport renders suggestions as the plain-text file offered for
// download. dayStart is the grid's day start in minutes; slot indexes are
// relative to it.
func FormatReport(resp *models.SolverResponse, dayStart int, generated time.Time) (string, error) {
	if resp == nil || resp.Suggestions == nil {
		return "", ErrNoResults
	}

	var b strings.Builder
	b.WriteString("MeetSync - Suggested Meeting Times\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generated.Format("2006-01-02 3:04:05 PM"))

	for _, s := range resp.Suggestions {
		slotMinutes := s.SlotMinutes
		if slotMinutes <= 0 {
			slotMinutes = 15
		}
		length := s.MeetingLengthMinutes
		if length <= 0 {
			length = slotMinutes
		}
		start := dayStart + s.StartSlotIndex*slotMinutes

		conflicts := "none"
		if len(s.Conflicts) > 0 {
			conflicts = strings.Join(s.Conflicts, ", ")
		}

		fmt.Fprintf(&b, "%s: %s - %s\n", s.Day, clock12(start), clock12(start+length))
		fmt.Fprintf(&b, "  Score: %s | Coverage: %d%% | Fully available: %d\n",
			formatScore(s.Score), int(s.Coverage*100+0.5), s.FullyAvailableAttendees)
		fmt.Fprintf(&b, "  Conflicts: %s\n\n", conflicts)
	}
	return b.String(), nil
}

// clock12 formats minutes since 00:00 as "9:05 AM". Values past midnight
// wrap around.
func clock12(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	h24, m := minutes/60, minutes%60
	suffix := "AM"
	if h24 >= 12 {
		suffix = "PM"
	}
	h12 := (h24+11)%12 + 1
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

func formatScore(score float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", score), "0"), ".")
}
