package models

// SolverAttendee is one attendee as sent to the solver. Ids never leave the
// service.
type SolverAttendee struct {
	Name      string     `json:"name"`
	TimeSlots []TimeSlot `json:"timeSlots"`
	Priority  int        `json:"priority"`
}

// HoursWindow restricts suggestions to a daily window, "HH:MM" on both ends.
type HoursWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GlobalBlockers struct {
	Hours HoursWindow `json:"hours"`
}

type Constraints struct {
	GlobalBlockers GlobalBlockers `json:"global_blockers"`
}

// SolverRequest is the wire body posted to the solver.
type SolverRequest struct {
	Availability         []SolverAttendee `json:"availability"`
	MeetingLengthMinutes int              `json:"meeting_length_minutes"`
	Constraints          *Constraints     `json:"constraints,omitempty"`
	TopK                 int              `json:"top_k,omitempty"`
}

// Suggestion is one ranked meeting candidate returned by the solver.
type Suggestion struct {
	Day                     string   `json:"day"`
	StartSlotIndex          int      `json:"start_slot_index"`
	SlotMinutes             int      `json:"slot_minutes"`
	MeetingLengthMinutes    int      `json:"meeting_length_minutes"`
	Score                   float64  `json:"score"`
	Coverage                float64  `json:"coverage"` // 0..1
	Conflicts               []string `json:"conflicts"`
	FullyAvailableAttendees int      `json:"fully_available_attendees"`
}

type SolverResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// SubmitRequest is the HTTP payload that triggers a solver run. Hours is
// optional; without it no global blocker is sent.
type SubmitRequest struct {
	Hours *HoursWindow `json:"hours,omitempty"`
}
