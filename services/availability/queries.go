package availability

import (
	"fmt"

	"meetsync/models"
)

// Users returns a deep copy of the attendees in insertion order.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.users)
}

func (s *Store) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.User{}, fmt.Errorf("User %s: %w", id, models.ErrUserNotFound)
	}
	return s.users[idx].Clone(), nil
}

// Selected returns the selected attendee or ErrNoSelection.
func (s *Store) Selected() (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(s.selectedID)
	if idx < 0 {
		return models.User{}, models.ErrNoSelection
	}
	return s.users[idx].Clone(), nil
}

func (s *Store) SelectedSchedule() ([]models.Cell, error) {
	u, err := s.Selected()
	if err != nil {
		return nil, err
	}
	return s.grid.Decompress(u.TimeSlots), nil
}

func (s *Store) MeetingLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meetingLength
}

// Snapshot reads users, selection and meeting length under one lock.
func (s *Store) Snapshot() models.StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StoreSnapshot{
		Users:                cloneUsers(s.users),
		SelectedID:           s.selectedID,
		MeetingLengthMinutes: s.meetingLength,
	}
}

func cloneUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i := range users {
		out[i] = users[i].Clone()
	}
	return out
}
