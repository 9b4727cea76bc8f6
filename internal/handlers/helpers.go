// Package handlers wires HTTP requests to services.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lunahealth/backend/internal/apierror"
)

// defaultQueryWindowDays bounds list endpoints when the caller gives no
// explicit range.
const defaultQueryWindowDays = 30

// userID extracts the authenticated user id set by the auth middleware.
// An empty id means the route was wired without auth, which is a bug.
func userID(c *gin.Context) (string, bool) {
	id := c.GetString("user_id")
	if id == "" {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
		return "", false
	}
	return id, true
}

// parseWindow reads optional RFC 3339 start/end query parameters, filling
// in the default lookback when absent.
func parseWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := now.AddDate(0, 0, -defaultQueryWindowDays)
	end := now

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeValidation(c, "start", "must be an RFC 3339 timestamp")
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeValidation(c, "end", "must be an RFC 3339 timestamp")
			return time.Time{}, time.Time{}, false
		}
		end = parsed
	}
	if end.Before(start) {
		writeValidation(c, "end", "must not be before start")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

func writeValidation(c *gin.Context, field, message string) {
	requestID := apierror.GetRequestID(c)
	apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
		{Field: field, Message: message},
	}))
}

func writeInternal(c *gin.Context) {
	requestID := apierror.GetRequestID(c)
	apierror.WriteProblem(c, apierror.NewInternalError(requestID))
}
