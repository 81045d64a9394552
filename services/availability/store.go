package availability

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"meetsync/models"
	"meetsync/services/notification"
	"meetsync/services/timegrid"

	"go.uber.org/zap"
)

var _ AvailabilityService = (*Store)(nil)

// Store holds the attendee list, the current selection and the meeting
// length. Mutations and the notifications they trigger are serialised by
// writeMu, so subscribers see every change in order and always observe the
// state the change produced. Handlers must not call back into mutating
// methods on their own goroutine: the mutation would wait for the lock its
// own caller holds. Hand such work to another goroutine instead.
type Store struct {
	writeMu    sync.Mutex
	publishing atomic.Bool

	mu            sync.RWMutex
	users         []models.User
	selectedID    string
	meetingLength int

	grid   timegrid.Grid
	bus    notification.NotificationBus
	logger *zap.Logger
}

func NewStore(grid timegrid.Grid, bus notification.NotificationBus, logger *zap.Logger, meetingLength int) (*Store, error) {
	if bus == nil {
		return nil, fmt.Errorf("availability store initialization error: notification bus is nil")
	}
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("availability store initialization error: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if meetingLength == 0 {
		meetingLength = DefaultMeetingLength
	}
	if err := validateMeetingLength(meetingLength); err != nil {
		return nil, err
	}
	return &Store{
		users:         []models.User{},
		meetingLength: meetingLength,
		grid:          grid,
		bus:           bus,
		logger:        logger,
	}, nil
}

// Grid exposes the grid the store validates slots against.
func (s *Store) Grid() timegrid.Grid { return s.grid }

// lockWriter takes writeMu. Waiting behind an in-flight notification is
// logged, since a handler calling back into the store never gets the lock.
func (s *Store) lockWriter(op string) {
	if s.writeMu.TryLock() {
		return
	}
	if s.publishing.Load() {
		s.logger.Warn("Mutation waiting on an in-flight notification", zap.String("op", op))
	}
	s.writeMu.Lock()
}

// publish delivers topics in order and stops at the first handler error.
// Callers hold writeMu.
func (s *Store) publish(topics ...notification.Topic) error {
	s.publishing.Store(true)
	defer s.publishing.Store(false)
	for _, t := range topics {
		if err := s.bus.Publish(t); err != nil {
			s.logger.Error("Store notification failed", zap.String("topic", string(t)), zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// nameTaken ignores the user at index skip.
func (s *Store) nameTaken(name string, skip int) bool {
	for i := range s.users {
		if i != skip && s.users[i].Name == name {
			return true
		}
	}
	return false
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", models.NewValidationError("name", ErrEmptyName)
	}
	return trimmed, nil
}

func validatePriority(priority int) error {
	if priority <= 0 {
		return models.NewValidationError("priority", fmt.Errorf("%w, got %d", ErrInvalidPriority, priority))
	}
	return nil
}

func validateMeetingLength(minutes int) error {
	if minutes <= 0 || minutes > timegrid.MinutesPerDay {
		return models.NewValidationError("meetingLengthMinutes", fmt.Errorf("%w, got %d", ErrInvalidMeetingLength, minutes))
	}
	return nil
}

func duplicateName(name string) error {
	return models.NewValidationError("name", fmt.Errorf("%w: %q", ErrDuplicateName, name))
}
