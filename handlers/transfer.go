package handlers

import (
	"net/http"
	"strconv"

	"meetsync/services/availability"
	"meetsync/services/transfer"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransferHandler struct {
	Store availability.AvailabilityService
}

func NewTransferHandler(store availability.AvailabilityService) *TransferHandler {
	return &TransferHandler{Store: store}
}

// ExportUsersHandler handles GET /api/transfer/users.
func (h *TransferHandler) ExportUsersHandler(c *gin.Context) {
	data, err := transfer.Export(h.Store.Users())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+transfer.ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ImportUsersHandler handles POST /api/transfer/users. ?replace=true drops the
// current attendees first.
func (h *TransferHandler) ImportUsersHandler(c *gin.Context) {
	logger := getLogger(c)

	replace, err := strconv.ParseBool(c.DefaultQuery("replace", "false"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid replace flag", err.Error())
		return
	}

	body, err := readUpload(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}

	records, err := transfer.ParseImport(body)
	if err != nil {
		respondError(c, err)
		return
	}
	users, err := h.Store.ImportUsers(records, replace)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Attendees imported", zap.Int("count", len(users)), zap.Bool("replace", replace))
	c.JSON(http.StatusCreated, gin.H{"imported": users})
}
