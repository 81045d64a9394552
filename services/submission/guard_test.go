package submission

import (
	"errors"
	"testing"

	"meetsync/models"
)

func TestGuardValidate(t *testing.T) {
	var g Guard
	tests := []struct {
		name   string
		users  int
		hours  *models.HoursWindow
		length int
		want   error
	}{
		{"no users", 0, nil, 15, ErrNoUsers},
		{"no hours", 2, nil, 15, nil},
		{"valid window", 1, &models.HoursWindow{Start: "09:00", End: "17:00"}, 60, nil},
		{"full day", 1, &models.HoursWindow{Start: "00:00", End: "24:00"}, 1440, nil},
		{"exact fit", 1, &models.HoursWindow{Start: "09:00", End: "10:00"}, 60, nil},
		{"start after end", 1, &models.HoursWindow{Start: "17:00", End: "09:00"}, 15, ErrInvalidWorkHours},
		{"equal bounds", 1, &models.HoursWindow{Start: "09:00", End: "09:00"}, 15, ErrInvalidWorkHours},
		{"garbage start", 1, &models.HoursWindow{Start: "9am", End: "17:00"}, 15, ErrInvalidWorkHours},
		{"past midnight", 1, &models.HoursWindow{Start: "09:00", End: "24:30"}, 15, ErrInvalidWorkHours},
		{"too short", 1, &models.HoursWindow{Start: "09:00", End: "09:30"}, 45, ErrWindowTooShort},
		{"users checked first", 0, &models.HoursWindow{Start: "17:00", End: "09:00"}, 15, ErrNoUsers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Validate(tt.users, tt.hours, tt.length)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *models.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:15", 555, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDayEnd(t *testing.T) {
	if got := NormalizeDayEnd("24:00"); got != "23:59" {
		t.Errorf("NormalizeDayEnd(24:00) = %q", got)
	}
	if got := NormalizeDayEnd("17:30"); got != "17:30" {
		t.Errorf("NormalizeDayEnd(17:30) = %q", got)
	}
}

func TestBuildRequest(t *testing.T) {
	snap := models.StoreSnapshot{
		Users: []models.User{
			{ID: "a", Name: "Alice", Priority: 2, TimeSlots: []models.TimeSlot{
				{Day: 0, StartMinute: 0, EndMinute: 45, AvailabilityType: models.AvailabilityBusy},
			}},
			{ID: "b", Name: "Bob", Priority: 1},
		},
		MeetingLengthMinutes: 30,
	}

	req := BuildRequest(snap, &models.HoursWindow{Start: "08:00", End: "24:00"}, 5)
	if len(req.Availability) != 2 || req.Availability[0].Name != "Alice" || req.Availability[0].Priority != 2 {
		t.Fatalf("unexpected availability %+v", req.Availability)
	}
	if req.Availability[1].TimeSlots == nil {
		t.Error("empty slots must serialise as an empty array")
	}
	if req.MeetingLengthMinutes != 30 || req.TopK != 5 {
		t.Errorf("unexpected request %+v", req)
	}
	if req.Constraints == nil || req.Constraints.GlobalBlockers.Hours.End != "23:59" {
		t.Errorf("expected end normalised to 23:59, got %+v", req.Constraints)
	}

	if BuildRequest(snap, nil, 0).Constraints != nil {
		t.Error("no hours should omit constraints")
	}
}
