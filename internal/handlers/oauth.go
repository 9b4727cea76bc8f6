package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/logger"
)

// OAuthHandler bridges provider OAuth callbacks back into the mobile app.
// Providers only redirect to https URLs, so this endpoint forwards the
// authorization code into the app's custom URL scheme.
type OAuthHandler struct {
	appScheme string
}

// NewOAuthHandler creates a new OAuth bridge handler
func NewOAuthHandler(appScheme string) *OAuthHandler {
	if appScheme == "" {
		appScheme = "lunahealth"
	}
	return &OAuthHandler{appScheme: appScheme}
}

// Callback forwards the provider's redirect into the app
// GET /oauth/:provider/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")
	if !knownProvider(provider) {
		writeValidation(c, "provider", "must be one of fitbit, google_calendar, weather")
		return
	}

	target := fmt.Sprintf("%s://%s-callback", h.appScheme, provider)

	params := url.Values{}
	if errCode := c.Query("error"); errCode != "" {
		logger.Ctx(c.Request.Context()).Warn("oauth callback returned error",
			logger.String("provider", provider),
			logger.String("error", errCode))
		params.Set("error", errCode)
	} else {
		code := c.Query("code")
		if code == "" {
			writeValidation(c, "code", "is required")
			return
		}
		params.Set("code", code)
		if state := c.Query("state"); state != "" {
			params.Set("state", state)
		}
	}

	c.Redirect(http.StatusFound, target+"?"+params.Encode())
}
