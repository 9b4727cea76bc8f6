package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/service"
)

type stubRecordsService struct {
	created   *models.ManualLog
	updateErr error
	deleteErr error
}

func (s *stubRecordsService) CreateLog(ctx context.Context, userID string, req *models.CreateLogRequest) (*models.ManualLog, error) {
	s.created = &models.ManualLog{
		ID:       "log-1",
		UserID:   userID,
		LogType:  req.LogType,
		Value:    req.Value,
		LoggedAt: req.LoggedAt,
	}
	return s.created, nil
}

func (s *stubRecordsService) ListLogs(ctx context.Context, userID string, start, end time.Time) ([]models.ManualLog, error) {
	return []models.ManualLog{}, nil
}

func (s *stubRecordsService) UpdateLog(ctx context.Context, userID, logID string, req *models.UpdateLogRequest) (*models.ManualLog, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.ManualLog{ID: logID, UserID: userID}, nil
}

func (s *stubRecordsService) DeleteLog(ctx context.Context, userID, logID string) error {
	return s.deleteErr
}

func (s *stubRecordsService) CreateMedicationLog(ctx context.Context, userID string, req *models.CreateMedicationLogRequest) (*models.MedicationLog, error) {
	return &models.MedicationLog{ID: "med-1", UserID: userID}, nil
}

func (s *stubRecordsService) ListMedicationLogs(ctx context.Context, userID string, start, end time.Time) ([]models.MedicationLog, error) {
	return []models.MedicationLog{}, nil
}

func (s *stubRecordsService) ListMetrics(ctx context.Context, userID string, metricType models.MetricType, start, end time.Time) ([]models.HealthMetric, error) {
	return []models.HealthMetric{}, nil
}

func (s *stubRecordsService) IngestMetrics(ctx context.Context, userID string, req *models.IngestMetricsRequest) (int, error) {
	return len(req.Metrics), nil
}

func newLogsRouter(records service.RecordsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	h := NewLogsHandler(records)
	r.POST("/api/v1/logs", h.CreateLog)
	r.GET("/api/v1/logs", h.ListLogs)
	r.PATCH("/api/v1/logs/:id", h.UpdateLog)
	r.DELETE("/api/v1/logs/:id", h.DeleteLog)
	return r
}

func TestCreateLog(t *testing.T) {
	svc := &stubRecordsService{}
	r := newLogsRouter(svc)

	body := `{"log_type":"symptom","value":"headache","logged_at":"2024-01-15T08:00:00Z"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "user-1", svc.created.UserID)
	assert.Equal(t, models.LogSymptom, svc.created.LogType)
}

func TestCreateLogRejectsMissingFields(t *testing.T) {
	r := newLogsRouter(&stubRecordsService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs", strings.NewReader(`{"value":"headache"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateLogNotFoundMapsTo404(t *testing.T) {
	r := newLogsRouter(&stubRecordsService{updateErr: service.ErrNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/logs/log-9", strings.NewReader(`{"value":"migraine"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteLogReturnsNoContent(t *testing.T) {
	r := newLogsRouter(&stubRecordsService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/logs/log-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListLogsRejectsBadWindow(t *testing.T) {
	r := newLogsRouter(&stubRecordsService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs?start=not-a-time", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
