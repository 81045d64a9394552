package transfer

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"meetsync/models"
)

func TestExport(t *testing.T) {
	data, err := Export([]models.User{
		{ID: "secret", Name: "Alice", Priority: 2, TimeSlots: []models.TimeSlot{
			{Day: 1, StartMinute: 60, EndMinute: 90, AvailabilityType: models.AvailabilityBusy},
		}},
		{ID: "other", Name: "Bob", Priority: 1},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if _, ok := decoded[0]["id"]; ok {
		t.Error("ids must not be exported")
	}
	if slots, ok := decoded[1]["timeSlots"].([]any); !ok || len(slots) != 0 {
		t.Errorf("missing slots should export as [], got %v", decoded[1]["timeSlots"])
	}
}

func TestExportThenParse(t *testing.T) {
	users := []models.User{{Name: "Alice", Priority: 3, TimeSlots: []models.TimeSlot{
		{Day: 4, StartMinute: 1380, EndMinute: 1440, AvailabilityType: models.AvailabilityTentative},
	}}}
	data, err := Export(users)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	got, err := ParseImport(data)
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}
	want := []models.ExportedUser{{Name: "Alice", Priority: 3, TimeSlots: users[0].TimeSlots}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseImport_Defaults(t *testing.T) {
	got, err := ParseImport([]byte(`[
		{"name": " Alice "},
		{"name": "Bob", "priority": -1, "timeSlots": "nope"},
		{"name": "Carol", "priority": 2.5, "timeSlots": null},
		{"name": "", "priority": 4},
		{"priority": 4},
		{"name": 42},
		{"name": "Dave", "priority": 7, "timeSlots": []}
	]`))
	if err != nil {
		t.Fatalf("ParseImport: %v", err)
	}

	want := []models.ExportedUser{
		{Name: "Alice", Priority: 1, TimeSlots: []models.TimeSlot{}},
		{Name: "Bob", Priority: 1, TimeSlots: []models.TimeSlot{}},
		{Name: "Carol", Priority: 1, TimeSlots: []models.TimeSlot{}},
		{Name: "Dave", Priority: 7, TimeSlots: []models.TimeSlot{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseImport_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "   "},
		{"object", `{"name":"Alice"}`},
		{"truncated", `[{"name":"Alice"`},
		{"entry not object", `[{"name":"Alice"}, 3]`},
		{"bad slot shape", `[{"name":"Alice","timeSlots":[{"day":"monday"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImport([]byte(tt.data))
			var fe *models.ImportFormatError
			if !errors.As(err, &fe) {
				t.Errorf("expected *ImportFormatError, got %v", err)
			}
		})
	}
}
