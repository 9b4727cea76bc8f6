package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/service"
)

// MedicationsHandler handles medication log HTTP requests
type MedicationsHandler struct {
	records service.RecordsService
}

// NewMedicationsHandler creates a new medications handler
func NewMedicationsHandler(records service.RecordsService) *MedicationsHandler {
	return &MedicationsHandler{records: records}
}

// CreateMedicationLog records a taken/skipped medication event
// POST /api/v1/medications
func (h *MedicationsHandler) CreateMedicationLog(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.CreateMedicationLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "body", err.Error())
		return
	}

	log, err := h.records.CreateMedicationLog(c.Request.Context(), uid, &req)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to create medication log", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListMedicationLogs lists medication logs inside an optional window
// GET /api/v1/medications
func (h *MedicationsHandler) ListMedicationLogs(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	logs, err := h.records.ListMedicationLogs(c.Request.Context(), uid, start, end)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to list medication logs", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
