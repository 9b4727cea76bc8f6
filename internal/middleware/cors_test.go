package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func doCORSRequest(t *testing.T, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsAllByDefault(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	w := doCORSRequest(t, http.MethodGet, "https://anywhere.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestCORSRestrictedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.lunahealth.io, https://staging.lunahealth.io")

	w := doCORSRequest(t, http.MethodGet, "https://app.lunahealth.io")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.lunahealth.io" {
		t.Errorf("Allow-Origin = %q, want echoed origin", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}

	w = doCORSRequest(t, http.MethodOptions, "https://evil.example")
	if w.Code != http.StatusForbidden {
		t.Errorf("preflight from unlisted origin = %d, want 403", w.Code)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	w := doCORSRequest(t, http.MethodOptions, "https://anywhere.example")
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
}
