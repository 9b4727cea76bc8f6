package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/apierror"
	"github.com/lunahealth/backend/internal/insights"
	"github.com/lunahealth/backend/internal/llm"
	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
)

// InsightsHandler handles insight-related HTTP requests
type InsightsHandler struct {
	insights  *insights.Service
	generator *llm.Generator
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService *insights.Service, generator *llm.Generator) *InsightsHandler {
	return &InsightsHandler{
		insights:  insightsService,
		generator: generator,
	}
}

// GetInsights returns the current insight batch, refreshing when stale
// GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	log := logger.Ctx(c.Request.Context())

	resp, err := h.insights.GetOrRefresh(c.Request.Context(), uid, false)
	if err != nil {
		log.Error("failed to get insights", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshInsights forces a recompute regardless of freshness
// POST /api/v1/insights/refresh
func (h *InsightsHandler) RefreshInsights(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	log := logger.Ctx(c.Request.Context())

	resp, err := h.insights.GetOrRefresh(c.Request.Context(), uid, true)
	if err != nil {
		log.Error("failed to refresh insights", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateLLMInsights runs the LLM generator over the user's recent data
// POST /api/v1/insights/generate
func (h *InsightsHandler) GenerateLLMInsights(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	log := logger.Ctx(c.Request.Context())

	generated, err := h.generator.GenerateInsights(c.Request.Context(), uid)
	if err != nil {
		log.Error("llm insight generation failed", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewServiceUnavailableError(requestID, 30))
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": generated})
}

// Ask answers a free-text question about the user's data
// POST /api/v1/insights/ask
func (h *InsightsHandler) Ask(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "question", "is required")
		return
	}

	log := logger.Ctx(c.Request.Context())

	answer, err := h.generator.Ask(c.Request.Context(), uid, req.Question)
	if err != nil {
		log.Error("llm question failed", logger.Err(err))
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewServiceUnavailableError(requestID, 30))
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
