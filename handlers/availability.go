package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"meetsync/models"
	"meetsync/services/availability"
	"meetsync/services/calendar"
	"meetsync/services/timegrid"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// maxUploadBytes bounds calendar and users file uploads.
const maxUploadBytes = 2 << 20

type AvailabilityHandler struct {
	Store    availability.AvailabilityService
	Grid     timegrid.Grid
	Importer *calendar.Importer
	Now      func() time.Time
}

func NewAvailabilityHandler(store availability.AvailabilityService, grid timegrid.Grid, importer *calendar.Importer) *AvailabilityHandler {
	return &AvailabilityHandler{Store: store, Grid: grid, Importer: importer, Now: time.Now}
}

// GetStateHandler handles GET /api/state.
func (h *AvailabilityHandler) GetStateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Snapshot())
}

// AddUserHandler handles POST /api/users.
func (h *AvailabilityHandler) AddUserHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid add user request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	priority := models.DefaultPriority
	if req.Priority != nil {
		priority = *req.Priority
	}

	u, err := h.Store.AddUser(req.Name, priority)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// SelectUserHandler handles POST /api/users/:id/select.
func (h *AvailabilityHandler) SelectUserHandler(c *gin.Context) {
	if err := h.Store.SelectUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Store.Snapshot())
}

// DeleteUserHandler handles DELETE /api/users/:id.
func (h *AvailabilityHandler) DeleteUserHandler(c *gin.Context) {
	if err := h.Store.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendee deleted"})
}

// UpdateSelectedUserHandler handles PATCH /api/users/selected.
func (h *AvailabilityHandler) UpdateSelectedUserHandler(c *gin.Context) {
	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	u, err := h.Store.UpdateSelectedUser(patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// scheduleResponse is what a grid renderer needs to repaint one attendee.
type scheduleResponse struct {
	UserID      string        `json:"userId"`
	Cells       []models.Cell `json:"cells"`
	SlotMinutes int           `json:"slotMinutes"`
	DayStart    int           `json:"dayStartMinutes"`
	Rows        int           `json:"rows"`
	Days        int           `json:"days"`
}

func (h *AvailabilityHandler) schedule(u models.User, cells []models.Cell) scheduleResponse {
	return scheduleResponse{
		UserID:      u.ID,
		Cells:       cells,
		SlotMinutes: h.Grid.SlotMinutes,
		DayStart:    h.Grid.DayStart,
		Rows:        h.Grid.Rows(),
		Days:        h.Grid.Days,
	}
}

// GetScheduleHandler handles GET /api/users/selected/schedule.
func (h *AvailabilityHandler) GetScheduleHandler(c *gin.Context) {
	u, err := h.Store.Selected()
	if err != nil {
		respondError(c, err)
		return
	}
	cells, err := h.Store.SelectedSchedule()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.schedule(u, cells))
}

// SaveScheduleHandler handles PUT /api/users/selected/schedule.
func (h *AvailabilityHandler) SaveScheduleHandler(c *gin.Context) {
	var req models.SetScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	u, err := h.Store.SaveSelectedSchedule(req.Cells)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ImportCalendarHandler handles POST /api/users/selected/calendar. The body
// is an iCalendar file, either raw or as the multipart field "file".
// ?week=YYYY-MM-DD picks the week (default: current), ?merge=true keeps the
// cells already painted.
func (h *AvailabilityHandler) ImportCalendarHandler(c *gin.Context) {
	logger := getLogger(c)

	if _, err := h.Store.Selected(); err != nil {
		respondError(c, err)
		return
	}

	ref := h.Now()
	if week := c.Query("week"); week != "" {
		parsed, err := time.ParseInLocation("2006-01-02", week, ref.Location())
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid week", "week must be YYYY-MM-DD")
			return
		}
		ref = parsed
	}
	merge, err := strconv.ParseBool(c.DefaultQuery("merge", "false"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid merge flag", err.Error())
		return
	}

	body, err := readUpload(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}

	cells, err := h.Importer.Cells(body, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	if merge {
		existing, err := h.Store.SelectedSchedule()
		if err != nil {
			respondError(c, err)
			return
		}
		cells = calendar.MergeCells(existing, cells)
	}

	u, err := h.Store.SaveSelectedSchedule(cells)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Calendar applied to attendee",
		zap.String("userID", u.ID), zap.Int("slots", len(u.TimeSlots)), zap.Bool("merge", merge))
	c.JSON(http.StatusOK, u)
}

// SetMeetingLengthHandler handles PUT /api/settings/meeting-length.
func (h *AvailabilityHandler) SetMeetingLengthHandler(c *gin.Context) {
	var req models.MeetingLengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.Store.SetMeetingLength(req.Minutes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetingLengthMinutes": h.Store.MeetingLength()})
}

// readUpload returns the field "file" of a multipart upload, the raw body
// for any other content type.
func readUpload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("multipart field \"file\": %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
