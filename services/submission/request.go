package submission

import "meetsync/models"

// BuildRequest turns a store snapshot into the solver wire body. The caller
// must have validated hours with Guard first.
func BuildRequest(snap models.StoreSnapshot, hours *models.HoursWindow, topK int) models.SolverRequest {
	attendees := make([]models.SolverAttendee, 0, len(snap.Users))
	for _, u := range snap.Users {
		slots := u.TimeSlots
		if slots == nil {
			slots = []models.TimeSlot{}
		}
		attendees = append(attendees, models.SolverAttendee{
			Name:      u.Name,
			TimeSlots: slots,
			Priority:  u.Priority,
		})
	}

	req := models.SolverRequest{
		Availability:         attendees,
		MeetingLengthMinutes: snap.MeetingLengthMinutes,
		TopK:                 topK,
	}
	if hours != nil {
		req.Constraints = &models.Constraints{
			GlobalBlockers: models.GlobalBlockers{
				Hours: models.HoursWindow{
					Start: hours.Start,
					End:   NormalizeDayEnd(hours.End),
				},
			},
		}
	}
	return req
}
