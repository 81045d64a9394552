package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"meetsync/models"
	"meetsync/services/submission"
	"meetsync/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportFilename is the attachment name of the plain-text results export.
const ReportFilename = "meetsync-results.txt"

type SubmissionHandler struct {
	Service  submission.SubmissionService
	DayStart int
}

func NewSubmissionHandler(svc submission.SubmissionService, dayStart int) *SubmissionHandler {
	return &SubmissionHandler{Service: svc, DayStart: dayStart}
}

// maxSubmitBytes bounds the submit request body.
const maxSubmitBytes = 64 << 10

// bindSubmit accepts an empty body as "no hours window".
func bindSubmit(c *gin.Context) (*models.SubmitRequest, error) {
	var req models.SubmitRequest
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubmitBytes)
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return &req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SubmitHandler handles POST /api/submit and waits for the solver.
func (h *SubmissionHandler) SubmitHandler(c *gin.Context) {
	logger := getLogger(c)

	req, err := bindSubmit(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.Service.Submit(c.Request.Context(), req.Hours)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("Suggestions returned", zap.Int("count", len(resp.Suggestions)))
	c.JSON(http.StatusOK, resp)
}

// SubmitAsyncHandler handles POST /api/submit/async. The outcome is read back
// through the latest results endpoint.
func (h *SubmissionHandler) SubmitAsyncHandler(c *gin.Context) {
	logger := getLogger(c)

	req, err := bindSubmit(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	err = h.Service.SubmitAsync(req.Hours, func(resp *models.SolverResponse, err error) {
		if err != nil {
			logger.Warn("Background submission failed", zap.Error(err))
			return
		}
		logger.Info("Background submission finished", zap.Int("count", len(resp.Suggestions)))
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Submission accepted"})
}

// LatestHandler handles GET /api/results/latest.
func (h *SubmissionHandler) LatestHandler(c *gin.Context) {
	result, err := h.Service.Latest()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportReportHandler handles GET /api/results/export.
func (h *SubmissionHandler) ExportReportHandler(c *gin.Context) {
	result, err := h.Service.Latest()
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := submission.FormatReport(result.Response, h.DayStart, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+ReportFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}
