package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/apierror"
	"github.com/lunahealth/backend/internal/collector"
	"github.com/lunahealth/backend/internal/logger"
)

// SyncHandler handles provider sync requests
type SyncHandler struct {
	collector *collector.Service
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(collectorService *collector.Service) *SyncHandler {
	return &SyncHandler{collector: collectorService}
}

// Sync runs one provider's collector for the authenticated user
// POST /api/v1/sync/:provider
func (h *SyncHandler) Sync(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	provider := c.Param("provider")
	log := logger.Ctx(c.Request.Context())
	requestID := apierror.GetRequestID(c)

	result, err := h.collector.Sync(c.Request.Context(), uid, provider)
	switch {
	case errors.Is(err, collector.ErrUnknownProvider):
		writeValidation(c, "provider", "must be one of fitbit, google_calendar, weather")
		return
	case errors.Is(err, collector.ErrNotConnected):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "integration", provider))
		return
	case errors.Is(err, collector.ErrReauthRequired):
		apierror.WriteProblem(c, apierror.NewReauthRequiredError(requestID, provider))
		return
	case err != nil:
		log.Error("sync failed",
			logger.String("provider", provider),
			logger.Err(err))
		writeInternal(c)
		return
	}

	c.JSON(http.StatusOK, result)
}
