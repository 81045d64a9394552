package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// State and attendee endpoints
	GetStateHandler           gin.HandlerFunc
	AddUserHandler            gin.HandlerFunc
	SelectUserHandler         gin.HandlerFunc
	DeleteUserHandler         gin.HandlerFunc
	UpdateSelectedUserHandler gin.HandlerFunc

	// Schedule endpoints
	GetScheduleHandler      gin.HandlerFunc
	SaveScheduleHandler     gin.HandlerFunc
	ImportCalendarHandler   gin.HandlerFunc
	SetMeetingLengthHandler gin.HandlerFunc

	// Users file endpoints
	ExportUsersHandler gin.HandlerFunc
	ImportUsersHandler gin.HandlerFunc

	// Solver endpoints
	SubmitHandler       gin.HandlerFunc
	SubmitAsyncHandler  gin.HandlerFunc
	LatestHandler       gin.HandlerFunc
	ExportReportHandler gin.HandlerFunc

	// Push channel
	EventsHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires every handler method into the bundle.
func NewHandlerBundle(av *AvailabilityHandler, tr *TransferHandler, sub *SubmissionHandler, hub *EventsHub, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		GetStateHandler:           av.GetStateHandler,
		AddUserHandler:            av.AddUserHandler,
		SelectUserHandler:         av.SelectUserHandler,
		DeleteUserHandler:         av.DeleteUserHandler,
		UpdateSelectedUserHandler: av.UpdateSelectedUserHandler,

		GetScheduleHandler:      av.GetScheduleHandler,
		SaveScheduleHandler:     av.SaveScheduleHandler,
		ImportCalendarHandler:   av.ImportCalendarHandler,
		SetMeetingLengthHandler: av.SetMeetingLengthHandler,

		ExportUsersHandler: tr.ExportUsersHandler,
		ImportUsersHandler: tr.ImportUsersHandler,

		SubmitHandler:       sub.SubmitHandler,
		SubmitAsyncHandler:  sub.SubmitAsyncHandler,
		LatestHandler:       sub.LatestHandler,
		ExportReportHandler: sub.ExportReportHandler,

		EventsHandler: hub.ServeWS,
		HealthHandler: health.HealthCheckHandler,
	}
}
