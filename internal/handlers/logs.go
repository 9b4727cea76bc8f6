package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/apierror"
	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/service"
)

// LogsHandler handles manual log HTTP requests
type LogsHandler struct {
	records service.RecordsService
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(records service.RecordsService) *LogsHandler {
	return &LogsHandler{records: records}
}

// CreateLog records a new manual log entry
// POST /api/v1/logs
func (h *LogsHandler) CreateLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "body", err.Error())
		return
	}

	log, err := h.records.CreateLog(c.Request.Context(), uid, &req)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to create log", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListLogs lists manual logs inside an optional time window
// GET /api/v1/logs
func (h *LogsHandler) ListLogs(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	logs, err := h.records.ListLogs(c.Request.Context(), uid, start, end)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to list logs", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// UpdateLog edits an existing manual log owned by the caller
// PATCH /api/v1/logs/:id
func (h *LogsHandler) UpdateLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	logID := c.Param("id")

	var req models.UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "body", err.Error())
		return
	}

	log, err := h.records.UpdateLog(c.Request.Context(), uid, logID, &req)
	if errors.Is(err, service.ErrNotFound) {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "log", logID))
		return
	}
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to update log", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, log)
}

// DeleteLog removes a manual log owned by the caller
// DELETE /api/v1/logs/:id
func (h *LogsHandler) DeleteLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	logID := c.Param("id")

	err := h.records.DeleteLog(c.Request.Context(), uid, logID)
	if errors.Is(err, service.ErrNotFound) {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "log", logID))
		return
	}
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to delete log", logger.Err(err))
		writeInternal(c)
		return
	}

	c.Status(http.StatusNoContent)
}
