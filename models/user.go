package models

// DefaultPriority is assigned to attendees created or imported without one.
const DefaultPriority = 1

// User is an attendee whose weekly availability is being collected.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	TimeSlots []TimeSlot `json:"timeSlots"`
	Priority  int        `json:"priority"`
}

// Clone returns a deep copy so callers can't mutate store-owned slices.
func (u User) Clone() User {
	out := u
	out.TimeSlots = append([]TimeSlot(nil), u.TimeSlots...)
	if out.TimeSlots == nil {
		out.TimeSlots = []TimeSlot{}
	}
	return out
}

// UserPatch is a shallow partial update; nil fields are left untouched.
type UserPatch struct {
	Name      *string     `json:"name,omitempty"`
	Priority  *int        `json:"priority,omitempty"`
	TimeSlots *[]TimeSlot `json:"timeSlots,omitempty"`
}

// CreateUserRequest is the payload for registering an attendee.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Priority *int   `json:"priority,omitempty"`
}

// MeetingLengthRequest updates the global meeting length.
type MeetingLengthRequest struct {
	Minutes int `json:"minutes" binding:"required"`
}

// StoreSnapshot is a consistent read of the whole store.
type StoreSnapshot struct {
	Users                []User `json:"users"`
	SelectedID           string `json:"selectedId,omitempty"`
	MeetingLengthMinutes int    `json:"meetingLengthMinutes"`
}

// ExportedUser is one entry of the users export file.
type ExportedUser struct {
	Name      string     `json:"name"`
	Priority  int        `json:"priority"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}
