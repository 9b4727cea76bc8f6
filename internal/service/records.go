// Package service holds the business logic between handlers and
// repositories.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/repository"
)

var (
	// ErrNotFound means the record does not exist or belongs to someone else.
	// The two cases are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("record not found")
)

// RecordsService manages user-entered logs and metric queries.
type RecordsService interface {
	CreateLog(ctx context.Context, userID string, req *models.CreateLogRequest) (*models.ManualLog, error)
	ListLogs(ctx context.Context, userID string, start, end time.Time) ([]models.ManualLog, error)
	UpdateLog(ctx context.Context, userID, logID string, req *models.UpdateLogRequest) (*models.ManualLog, error)
	DeleteLog(ctx context.Context, userID, logID string) error
	CreateMedicationLog(ctx context.Context, userID string, req *models.CreateMedicationLogRequest) (*models.MedicationLog, error)
	ListMedicationLogs(ctx context.Context, userID string, start, end time.Time) ([]models.MedicationLog, error)
	ListMetrics(ctx context.Context, userID string, metricType models.MetricType, start, end time.Time) ([]models.HealthMetric, error)
	IngestMetrics(ctx context.Context, userID string, req *models.IngestMetricsRequest) (int, error)
}

type recordsService struct {
	logs        repository.LogRepository
	medications repository.MedicationRepository
	metrics     repository.MetricRepository
}

// NewRecordsService creates a new records service
func NewRecordsService(logs repository.LogRepository, medications repository.MedicationRepository, metrics repository.MetricRepository) RecordsService {
	return &recordsService{
		logs:        logs,
		medications: medications,
		metrics:     metrics,
	}
}

func (s *recordsService) CreateLog(ctx context.Context, userID string, req *models.CreateLogRequest) (*models.ManualLog, error) {
	log := &models.ManualLog{
		UserID:   userID,
		LogType:  req.LogType,
		Value:    req.Value,
		Severity: req.Severity,
		LoggedAt: req.LoggedAt,
		Notes:    req.Notes,
		Metadata: req.Metadata,
	}
	return s.logs.Create(ctx, log)
}

func (s *recordsService) ListLogs(ctx context.Context, userID string, start, end time.Time) ([]models.ManualLog, error) {
	return s.logs.GetByUserAndWindow(ctx, userID, start, end)
}

// ownedLog loads a log and verifies ownership.
func (s *recordsService) ownedLog(ctx context.Context, userID, logID string) (*models.ManualLog, error) {
	log, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log == nil || log.UserID != userID {
		return nil, ErrNotFound
	}
	return log, nil
}

func (s *recordsService) UpdateLog(ctx context.Context, userID, logID string, req *models.UpdateLogRequest) (*models.ManualLog, error) {
	log, err := s.ownedLog(ctx, userID, logID)
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		log.Value = *req.Value
	}
	if req.Severity != nil {
		log.Severity = req.Severity
	}
	if req.LoggedAt != nil {
		log.LoggedAt = *req.LoggedAt
	}
	if req.Notes != nil {
		log.Notes = req.Notes
	}
	if req.Metadata != nil {
		log.Metadata = req.Metadata
	}

	return s.logs.Update(ctx, logID, log)
}

func (s *recordsService) DeleteLog(ctx context.Context, userID, logID string) error {
	if _, err := s.ownedLog(ctx, userID, logID); err != nil {
		return err
	}
	return s.logs.Delete(ctx, logID)
}

func (s *recordsService) CreateMedicationLog(ctx context.Context, userID string, req *models.CreateMedicationLogRequest) (*models.MedicationLog, error) {
	log := &models.MedicationLog{
		UserID:         userID,
		LoggedAt:       req.LoggedAt,
		TookMedication: req.TookMedication != nil && *req.TookMedication,
		Notes:          req.Notes,
	}
	return s.medications.Create(ctx, log)
}

func (s *recordsService) ListMedicationLogs(ctx context.Context, userID string, start, end time.Time) ([]models.MedicationLog, error) {
	return s.medications.GetByUserAndWindow(ctx, userID, start, end)
}

func (s *recordsService) ListMetrics(ctx context.Context, userID string, metricType models.MetricType, start, end time.Time) ([]models.HealthMetric, error) {
	if metricType == "" {
		return s.metrics.GetByUserAndWindow(ctx, userID, start, end)
	}
	return s.metrics.GetByUserAndType(ctx, userID, metricType, start, end)
}

// IngestMetrics stores a device-pushed metric batch. A replace window
// supersedes the source's prior rows of the pushed types, matching the
// collectors' delete-then-insert convention.
func (s *recordsService) IngestMetrics(ctx context.Context, userID string, req *models.IngestMetricsRequest) (int, error) {
	rows := make([]models.HealthMetric, 0, len(req.Metrics))
	seen := make(map[models.MetricType]bool)
	var types []models.MetricType
	for _, m := range req.Metrics {
		if !seen[m.MetricType] {
			seen[m.MetricType] = true
			types = append(types, m.MetricType)
		}
		rows = append(rows, models.HealthMetric{
			UserID:     userID,
			MetricType: m.MetricType,
			Value:      m.Value,
			Unit:       m.Unit,
			Source:     req.Source,
			ExternalID: m.ExternalID,
			RecordedAt: m.RecordedAt,
			Metadata:   m.Metadata,
		})
	}

	if req.ReplaceStart != nil && req.ReplaceEnd != nil {
		if err := s.metrics.DeleteInWindow(ctx, userID, req.Source, types, *req.ReplaceStart, *req.ReplaceEnd); err != nil {
			return 0, err
		}
	}
	if err := s.metrics.InsertBatch(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
