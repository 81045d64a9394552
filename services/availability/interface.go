package availability

import (
	"errors"

	"meetsync/models"
)

var (
	ErrEmptyName            = errors.New("name must not be empty")
	ErrDuplicateName        = errors.New("name already in use")
	ErrInvalidPriority      = errors.New("priority must be a positive integer")
	ErrInvalidMeetingLength = errors.New("meeting length must be between 1 and 1440 minutes")
)

// DefaultMeetingLength is used when the store is built without one.
const DefaultMeetingLength = 15

// AvailabilityService is the contract the HTTP layer and the submission
// service depend on.
type AvailabilityService interface {
	// AddUser registers an attendee with no time slots and selects it.
	AddUser(name string, priority int) (models.User, error)
	// UpdateSelectedUser merges the provided fields into the selected attendee.
	UpdateSelectedUser(patch models.UserPatch) (models.User, error)
	SelectUser(id string) error
	DeleteUser(id string) error
	SetMeetingLength(minutes int) error
	// SaveSelectedSchedule compresses painted cells and replaces the selected
	// attendee's time slots with the result.
	SaveSelectedSchedule(cells []models.Cell) (models.User, error)
	// SelectedSchedule returns the selected attendee's time slots as cells.
	SelectedSchedule() ([]models.Cell, error)
	// ImportUsers adds a batch of attendees atomically. With replace set the
	// current attendees are dropped first.
	ImportUsers(records []models.ExportedUser, replace bool) ([]models.User, error)

	Users() []models.User
	User(id string) (models.User, error)
	Selected() (models.User, error)
	MeetingLength() int
	Snapshot() models.StoreSnapshot
}
