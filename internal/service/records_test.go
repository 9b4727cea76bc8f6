package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lunahealth/backend/internal/models"
)

type mockLogRepo struct {
	logs    map[string]*models.ManualLog
	deleted []string
}

func newMockLogRepo() *mockLogRepo {
	return &mockLogRepo{logs: make(map[string]*models.ManualLog)}
}

func (m *mockLogRepo) Create(ctx context.Context, log *models.ManualLog) (*models.ManualLog, error) {
	log.ID = "log-1"
	m.logs[log.ID] = log
	return log, nil
}

func (m *mockLogRepo) GetByID(ctx context.Context, id string) (*models.ManualLog, error) {
	return m.logs[id], nil
}

func (m *mockLogRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.ManualLog, error) {
	var out []models.ManualLog
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLogRepo) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.ManualLog, error) {
	return nil, nil
}

func (m *mockLogRepo) Update(ctx context.Context, id string, log *models.ManualLog) (*models.ManualLog, error) {
	m.logs[id] = log
	return log, nil
}

func (m *mockLogRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.logs, id)
	return nil
}

type mockMedicationRepo struct {
	created []models.MedicationLog
}

func (m *mockMedicationRepo) Create(ctx context.Context, log *models.MedicationLog) (*models.MedicationLog, error) {
	log.ID = "med-1"
	m.created = append(m.created, *log)
	return log, nil
}

func (m *mockMedicationRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MedicationLog, error) {
	return m.created, nil
}

type mockMetricRepo struct {
	inserted []models.HealthMetric
	deletes  []struct {
		source models.MetricSource
		types  []models.MetricType
		start  time.Time
		end    time.Time
	}
}

func (m *mockMetricRepo) InsertBatch(ctx context.Context, metrics []models.HealthMetric) error {
	m.inserted = append(m.inserted, metrics...)
	return nil
}

func (m *mockMetricRepo) DeleteInWindow(ctx context.Context, userID string, source models.MetricSource, types []models.MetricType, start, end time.Time) error {
	m.deletes = append(m.deletes, struct {
		source models.MetricSource
		types  []models.MetricType
		start  time.Time
		end    time.Time
	}{source, types, start, end})
	return nil
}

func (m *mockMetricRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.HealthMetric, error) {
	return m.inserted, nil
}

func (m *mockMetricRepo) GetByUserAndType(ctx context.Context, userID string, metricType models.MetricType, start, end time.Time) ([]models.HealthMetric, error) {
	return nil, nil
}

func (m *mockMetricRepo) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.HealthMetric, error) {
	return nil, nil
}

func newRecordsService(logs *mockLogRepo) RecordsService {
	return NewRecordsService(logs, &mockMedicationRepo{}, nil)
}

func TestUpdateLogRejectsOtherUsers(t *testing.T) {
	logs := newMockLogRepo()
	svc := newRecordsService(logs)

	created, err := svc.CreateLog(context.Background(), "owner", &models.CreateLogRequest{
		LogType:  models.LogSymptom,
		Value:    "headache",
		LoggedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	value := "migraine"
	_, err = svc.UpdateLog(context.Background(), "intruder", created.ID, &models.UpdateLogRequest{Value: &value})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("update by non-owner: err = %v, want ErrNotFound", err)
	}

	updated, err := svc.UpdateLog(context.Background(), "owner", created.ID, &models.UpdateLogRequest{Value: &value})
	if err != nil {
		t.Fatalf("update by owner failed: %v", err)
	}
	if updated.Value != "migraine" {
		t.Errorf("value = %q, want migraine", updated.Value)
	}
}

func TestDeleteLogRejectsOtherUsers(t *testing.T) {
	logs := newMockLogRepo()
	svc := newRecordsService(logs)

	created, err := svc.CreateLog(context.Background(), "owner", &models.CreateLogRequest{
		LogType:  models.LogCaffeine,
		Value:    "espresso",
		LoggedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteLog(context.Background(), "intruder", created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete by non-owner: err = %v, want ErrNotFound", err)
	}
	if len(logs.deleted) != 0 {
		t.Fatal("log was deleted despite failed ownership check")
	}

	if err := svc.DeleteLog(context.Background(), "owner", created.ID); err != nil {
		t.Fatalf("delete by owner failed: %v", err)
	}
	if len(logs.deleted) != 1 {
		t.Error("log was not deleted")
	}
}

func TestCreateMedicationLog(t *testing.T) {
	meds := &mockMedicationRepo{}
	svc := NewRecordsService(newMockLogRepo(), meds, nil)

	took := true
	log, err := svc.CreateMedicationLog(context.Background(), "user-1", &models.CreateMedicationLogRequest{
		LoggedAt:       time.Now(),
		TookMedication: &took,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !log.TookMedication {
		t.Error("took_medication was not carried over")
	}
	if log.UserID != "user-1" {
		t.Errorf("user id = %q, want user-1", log.UserID)
	}
}

func TestIngestMetricsReplacesWindow(t *testing.T) {
	metrics := &mockMetricRepo{}
	svc := NewRecordsService(newMockLogRepo(), &mockMedicationRepo{}, metrics)

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	written, err := svc.IngestMetrics(context.Background(), "user-1", &models.IngestMetricsRequest{
		Source:       models.SourceAppleHealth,
		ReplaceStart: &start,
		ReplaceEnd:   &end,
		Metrics: []models.IngestMetric{
			{MetricType: models.MetricSteps, Value: 8200, Unit: "steps", RecordedAt: start.Add(12 * time.Hour)},
			{MetricType: models.MetricSteps, Value: 1100, Unit: "steps", RecordedAt: start.Add(20 * time.Hour)},
			{MetricType: models.MetricHeartRate, Value: 61, Unit: "bpm", RecordedAt: start.Add(12 * time.Hour)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if written != 3 {
		t.Errorf("written = %d, want 3", written)
	}

	if len(metrics.deletes) != 1 {
		t.Fatalf("deletes = %d, want 1", len(metrics.deletes))
	}
	del := metrics.deletes[0]
	if del.source != models.SourceAppleHealth {
		t.Errorf("delete source = %q, want apple_health", del.source)
	}
	if len(del.types) != 2 {
		t.Errorf("delete types = %v, want steps and heart_rate once each", del.types)
	}
	if !del.start.Equal(start) || !del.end.Equal(end) {
		t.Errorf("delete window = [%v, %v], want [%v, %v]", del.start, del.end, start, end)
	}

	for _, row := range metrics.inserted {
		if row.UserID != "user-1" || row.Source != models.SourceAppleHealth {
			t.Errorf("row %+v missing user or source stamp", row)
		}
	}
}

func TestIngestMetricsWithoutWindowAppends(t *testing.T) {
	metrics := &mockMetricRepo{}
	svc := NewRecordsService(newMockLogRepo(), &mockMedicationRepo{}, metrics)

	_, err := svc.IngestMetrics(context.Background(), "user-1", &models.IngestMetricsRequest{
		Source: models.SourceManual,
		Metrics: []models.IngestMetric{
			{MetricType: models.MetricWeight, Value: 64.2, Unit: "kg", RecordedAt: time.Now()},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics.deletes) != 0 {
		t.Error("no replace window was given, nothing should be deleted")
	}
	if len(metrics.inserted) != 1 {
		t.Errorf("inserted = %d, want 1", len(metrics.inserted))
	}
}
