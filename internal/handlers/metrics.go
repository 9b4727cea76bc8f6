package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/service"
)

// MetricsHandler exposes collected health metrics
type MetricsHandler struct {
	records service.RecordsService
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(records service.RecordsService) *MetricsHandler {
	return &MetricsHandler{records: records}
}

// ListMetrics lists metrics inside an optional window, optionally
// filtered by type
// GET /api/v1/metrics
func (h *MetricsHandler) ListMetrics(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	start, end, ok := parseWindow(c)
	if !ok {
		return
	}

	metricType := models.MetricType(c.Query("type"))

	metrics, err := h.records.ListMetrics(c.Request.Context(), uid, metricType, start, end)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to list metrics", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// IngestMetrics accepts a device-pushed metric batch (Apple Health style)
// POST /api/v1/metrics
func (h *MetricsHandler) IngestMetrics(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.IngestMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "body", err.Error())
		return
	}
	if (req.ReplaceStart == nil) != (req.ReplaceEnd == nil) {
		writeValidation(c, "replace_start", "replace_start and replace_end must be given together")
		return
	}

	written, err := h.records.IngestMetrics(c.Request.Context(), uid, &req)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to ingest metrics", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"metrics_written": written})
}
