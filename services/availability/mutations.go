package availability

import (
	"errors"
	"fmt"

	"meetsync/models"
	"meetsync/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Store) AddUser(name string, priority int) (models.User, error) {
	s.lockWriter("AddUser")
	defer s.writeMu.Unlock()

	name, err := normalizeName(name)
	if err != nil {
		return models.User{}, err
	}
	if err := validatePriority(priority); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	if s.nameTaken(name, -1) {
		s.mu.Unlock()
		s.logger.Warn("Rejected duplicate attendee name", zap.String("name", name))
		return models.User{}, duplicateName(name)
	}
	u := models.User{
		ID:        uuid.New().String(),
		Name:      name,
		TimeSlots: []models.TimeSlot{},
		Priority:  priority,
	}
	s.users = append(s.users, u)
	s.selectedID = u.ID
	s.mu.Unlock()

	s.logger.Info("Attendee added", zap.String("userID", u.ID), zap.String("name", u.Name))
	return u.Clone(), s.publish(notification.UsersChanged, notification.SelectionChanged)
}

func (s *Store) UpdateSelectedUser(patch models.UserPatch) (models.User, error) {
	s.lockWriter("UpdateSelectedUser")
	defer s.writeMu.Unlock()

	updated, err := s.applyPatch(patch)
	if err != nil {
		return models.User{}, err
	}
	return updated, s.publish(notification.SelectedUserChanged)
}

// applyPatch validates every provided field before changing any of them.
func (s *Store) applyPatch(patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.selectedID)
	if idx < 0 {
		s.logger.Error("Update without a selected attendee")
		return models.User{}, models.ErrNoSelection
	}

	next := s.users[idx].Clone()
	if patch.Name != nil {
		name, err := normalizeName(*patch.Name)
		if err != nil {
			return models.User{}, err
		}
		if s.nameTaken(name, idx) {
			return models.User{}, duplicateName(name)
		}
		next.Name = name
	}
	if patch.Priority != nil {
		if err := validatePriority(*patch.Priority); err != nil {
			return models.User{}, err
		}
		next.Priority = *patch.Priority
	}
	if patch.TimeSlots != nil {
		slots, err := s.grid.Normalize(*patch.TimeSlots)
		if err != nil {
			return models.User{}, &models.ValidationError{Field: "timeSlots", Reason: err.Error(), Err: err}
		}
		next.TimeSlots = slots
	}

	s.users[idx] = next
	return next.Clone(), nil
}

func (s *Store) SaveSelectedSchedule(cells []models.Cell) (models.User, error) {
	slots, err := s.grid.Compress(cells)
	if err != nil {
		return models.User{}, &models.ValidationError{Field: "cells", Reason: err.Error(), Err: err}
	}
	return s.UpdateSelectedUser(models.UserPatch{TimeSlots: &slots})
}

func (s *Store) SelectUser(id string) error {
	s.lockWriter("SelectUser")
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		s.logger.Error("Select of unknown attendee", zap.String("userID", id))
		return fmt.Errorf("SelectUser %s: %w", id, models.ErrUserNotFound)
	}
	s.selectedID = id
	s.mu.Unlock()

	return s.publish(notification.SelectionChanged)
}

func (s *Store) DeleteUser(id string) error {
	s.lockWriter("DeleteUser")
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Error("Delete of unknown attendee", zap.String("userID", id))
		return fmt.Errorf("DeleteUser %s: %w", id, models.ErrUserNotFound)
	}
	s.users = append(s.users[:idx:idx], s.users[idx+1:]...)
	wasSelected := s.selectedID == id
	if wasSelected {
		s.selectedID = ""
	}
	s.mu.Unlock()

	s.logger.Info("Attendee deleted", zap.String("userID", id), zap.Bool("wasSelected", wasSelected))
	if wasSelected {
		return s.publish(notification.SelectionChanged, notification.UsersChanged)
	}
	return s.publish(notification.UsersChanged)
}

func (s *Store) SetMeetingLength(minutes int) error {
	s.lockWriter("SetMeetingLength")
	defer s.writeMu.Unlock()

	if err := validateMeetingLength(minutes); err != nil {
		return err
	}

	s.mu.Lock()
	s.meetingLength = minutes
	s.mu.Unlock()

	return s.publish(notification.MeetingLengthChanged)
}

// ImportUsers validates the whole batch before touching state. Imported
// attendees get fresh ids; the last one becomes selected.
func (s *Store) ImportUsers(records []models.ExportedUser, replace bool) ([]models.User, error) {
	s.lockWriter("ImportUsers")
	defer s.writeMu.Unlock()

	if len(records) == 0 && !replace {
		return []models.User{}, nil
	}

	s.mu.Lock()
	batch := make([]models.User, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		name, err := normalizeName(rec.Name)
		if err != nil {
			s.mu.Unlock()
			return nil, importError(i, err)
		}
		if seen[name] || (!replace && s.nameTaken(name, -1)) {
			s.mu.Unlock()
			return nil, importError(i, duplicateName(name))
		}
		seen[name] = true

		slots, err := s.grid.Normalize(rec.TimeSlots)
		if err != nil {
			s.mu.Unlock()
			return nil, importError(i, &models.ValidationError{Field: "timeSlots", Reason: err.Error(), Err: err})
		}
		priority := rec.Priority
		if priority <= 0 {
			priority = models.DefaultPriority
		}
		batch = append(batch, models.User{
			ID:        uuid.New().String(),
			Name:      name,
			TimeSlots: slots,
			Priority:  priority,
		})
	}

	prevSelected := s.selectedID
	if replace {
		s.users = batch
		s.selectedID = ""
	} else {
		s.users = append(s.users, batch...)
	}
	if len(batch) > 0 {
		s.selectedID = batch[len(batch)-1].ID
	}
	selectionChanged := s.selectedID != prevSelected
	s.mu.Unlock()

	s.logger.Info("Attendees imported", zap.Int("count", len(batch)), zap.Bool("replace", replace))

	out := make([]models.User, len(batch))
	for i := range batch {
		out[i] = batch[i].Clone()
	}
	if selectionChanged {
		return out, s.publish(notification.UsersChanged, notification.SelectionChanged)
	}
	return out, s.publish(notification.UsersChanged)
}

func importError(index int, err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return &models.ValidationError{
			Field:  fmt.Sprintf("[%d].%s", index, ve.Field),
			Reason: ve.Reason,
			Err:    ve.Err,
		}
	}
	return err
}
