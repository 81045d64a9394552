// Package transfer reads and writes the users file exchanged between
// sessions: a JSON array of {name, priority, timeSlots}.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"meetsync/models"
)

// ExportFilename is suggested to clients downloading the users file.
const ExportFilename = "meetsync-users.json"

// Export renders users in the file format, ids stripped.
func Export(users []models.User) ([]byte, error) {
	out := make([]models.ExportedUser, 0, len(users))
	for _, u := range users {
		slots := u.TimeSlots
		if slots == nil {
			slots = []models.TimeSlot{}
		}
		out = append(out, models.ExportedUser{
			Name:      u.Name,
			Priority:  u.Priority,
			TimeSlots: slots,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}
	return data, nil
}

type rawUser struct {
	Name      json.RawMessage `json:"name"`
	Priority  json.RawMessage `json:"priority"`
	TimeSlots json.RawMessage `json:"timeSlots"`
}

// ParseImport decodes a users file leniently: entries without a usable name
// are skipped, a missing or non-positive priority becomes 1 and a missing or
// non-array timeSlots becomes empty. Anything else malformed aborts the whole
// import with a *models.ImportFormatError.
func ParseImport(data []byte) ([]models.ExportedUser, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &models.ImportFormatError{Reason: "file is empty"}
	}
	if trimmed[0] != '[' {
		return nil, &models.ImportFormatError{Reason: "expected a JSON array of users"}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, &models.ImportFormatError{Reason: "malformed JSON", Err: err}
	}

	users := make([]models.ExportedUser, 0, len(entries))
	for i, entry := range entries {
		var raw rawUser
		if err := json.Unmarshal(entry, &raw); err != nil {
			return nil, &models.ImportFormatError{Reason: fmt.Sprintf("entry %d is not an object", i), Err: err}
		}

		name := parseName(raw.Name)
		if name == "" {
			continue
		}

		slots, err := parseSlots(raw.TimeSlots)
		if err != nil {
			return nil, &models.ImportFormatError{Reason: fmt.Sprintf("entry %d (%s) has unreadable timeSlots", i, name), Err: err}
		}

		users = append(users, models.ExportedUser{
			Name:      name,
			Priority:  parsePriority(raw.Priority),
			TimeSlots: slots,
		})
	}
	return users, nil
}

func parseName(raw json.RawMessage) string {
	var name string
	if len(raw) == 0 || json.Unmarshal(raw, &name) != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

func parsePriority(raw json.RawMessage) int {
	var p float64
	if len(raw) == 0 || json.Unmarshal(raw, &p) != nil {
		return models.DefaultPriority
	}
	if p <= 0 || p != math.Trunc(p) || p > math.MaxInt32 {
		return models.DefaultPriority
	}
	return int(p)
}

func parseSlots(raw json.RawMessage) ([]models.TimeSlot, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []models.TimeSlot{}, nil
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal(trimmed, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []models.TimeSlot{}
	}
	return slots, nil
}
