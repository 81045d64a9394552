package handlers

import (
	"errors"
	"net/http"

	"meetsync/models"
	"meetsync/services/submission"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		validation *models.ValidationError
		transport  *models.TransportError
		format     *models.ImportFormatError
	)

	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", validation.Error())
	case errors.As(err, &format):
		utils.JSONError(c, http.StatusBadRequest, "Invalid import file", format.Error())
	case errors.Is(err, models.ErrUserNotFound):
		getLogger(c).Error("Unknown attendee referenced", zap.Error(err))
		utils.JSONError(c, http.StatusNotFound, "Attendee not found", err.Error())
	case errors.Is(err, models.ErrNoSelection):
		getLogger(c).Error("Operation requires a selected attendee", zap.Error(err))
		utils.JSONError(c, http.StatusConflict, "No attendee selected", err.Error())
	case errors.Is(err, submission.ErrNoResults):
		utils.JSONError(c, http.StatusNotFound, "No results yet", err.Error())
	case errors.As(err, &transport):
		utils.JSONError(c, http.StatusBadGateway, "Solver request failed", transport.Error())
	default:
		getLogger(c).Error("Unhandled error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
