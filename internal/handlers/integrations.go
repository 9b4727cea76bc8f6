package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/apierror"
	"github.com/lunahealth/backend/internal/collector"
	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/service"
)

// IntegrationsHandler handles provider connection HTTP requests
type IntegrationsHandler struct {
	integrations service.IntegrationsService
}

// NewIntegrationsHandler creates a new integrations handler
func NewIntegrationsHandler(integrations service.IntegrationsService) *IntegrationsHandler {
	return &IntegrationsHandler{integrations: integrations}
}

func knownProvider(provider string) bool {
	switch provider {
	case collector.ProviderFitbit, collector.ProviderGoogleCalendar, collector.ProviderWeather:
		return true
	}
	return false
}

// ListIntegrations lists the caller's provider connections
// GET /api/v1/integrations
func (h *IntegrationsHandler) ListIntegrations(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	integrations, err := h.integrations.List(c.Request.Context(), uid)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to list integrations", logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"integrations": integrations})
}

// ConnectIntegration stores tokens for a provider and marks it connected
// POST /api/v1/integrations/:provider/connect
func (h *IntegrationsHandler) ConnectIntegration(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	provider := c.Param("provider")
	if !knownProvider(provider) {
		writeValidation(c, "provider", "must be one of fitbit, google_calendar, weather")
		return
	}

	var req models.ConnectIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidation(c, "access_token", "is required")
		return
	}

	integ, err := h.integrations.Connect(c.Request.Context(), uid, provider, req.AccessToken, req.RefreshToken, req.ExpiresAt)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to connect integration",
			logger.String("provider", provider),
			logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, integ)
}

// DisconnectIntegration clears tokens and marks the provider disconnected
// DELETE /api/v1/integrations/:provider
func (h *IntegrationsHandler) DisconnectIntegration(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	provider := c.Param("provider")

	err := h.integrations.Disconnect(c.Request.Context(), uid, provider)
	if errors.Is(err, service.ErrNotFound) {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "integration", provider))
		return
	}
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to disconnect integration",
			logger.String("provider", provider),
			logger.Err(err))
		writeInternal(c)
		return
	}

	c.Status(http.StatusNoContent)
}
