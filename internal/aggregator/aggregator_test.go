package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
)

type stubMetricRepo struct {
	rows []models.HealthMetric
	err  error
}

func (s *stubMetricRepo) InsertBatch(ctx context.Context, metrics []models.HealthMetric) error {
	return nil
}

func (s *stubMetricRepo) DeleteInWindow(ctx context.Context, userID string, source models.MetricSource, types []models.MetricType, start, end time.Time) error {
	return nil
}

func (s *stubMetricRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.HealthMetric, error) {
	return s.rows, s.err
}

func (s *stubMetricRepo) GetByUserAndType(ctx context.Context, userID string, metricType models.MetricType, start, end time.Time) ([]models.HealthMetric, error) {
	return nil, nil
}

func (s *stubMetricRepo) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.HealthMetric, error) {
	return nil, nil
}

type stubLogRepo struct {
	rows []models.ManualLog
	err  error
}

func (s *stubLogRepo) Create(ctx context.Context, log *models.ManualLog) (*models.ManualLog, error) {
	return log, nil
}

func (s *stubLogRepo) GetByID(ctx context.Context, id string) (*models.ManualLog, error) {
	return nil, nil
}

func (s *stubLogRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.ManualLog, error) {
	return s.rows, s.err
}

func (s *stubLogRepo) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.ManualLog, error) {
	return nil, nil
}

func (s *stubLogRepo) Update(ctx context.Context, id string, log *models.ManualLog) (*models.ManualLog, error) {
	return log, nil
}

func (s *stubLogRepo) Delete(ctx context.Context, id string) error { return nil }

type stubFoodRepo struct {
	rows []models.FoodEntry
	err  error
}

func (s *stubFoodRepo) UpsertBatch(ctx context.Context, entries []models.FoodEntry) error {
	return nil
}

func (s *stubFoodRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.FoodEntry, error) {
	return s.rows, s.err
}

type stubCalendarRepo struct {
	rows []models.CalendarEvent
	err  error
}

func (s *stubCalendarRepo) UpsertBatch(ctx context.Context, events []models.CalendarEvent) error {
	return nil
}

func (s *stubCalendarRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.CalendarEvent, error) {
	return s.rows, s.err
}

func (s *stubCalendarRepo) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.CalendarEvent, error) {
	return nil, nil
}

type stubWeatherRepo struct {
	rows []models.WeatherRecord
	err  error
}

func (s *stubWeatherRepo) Upsert(ctx context.Context, record *models.WeatherRecord) error {
	return nil
}

func (s *stubWeatherRepo) GetByUserAndDates(ctx context.Context, userID string, startDate, endDate string) ([]models.WeatherRecord, error) {
	return s.rows, s.err
}

type stubMedicationRepo struct {
	rows []models.MedicationLog
	err  error
}

func (s *stubMedicationRepo) Create(ctx context.Context, log *models.MedicationLog) (*models.MedicationLog, error) {
	return log, nil
}

func (s *stubMedicationRepo) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MedicationLog, error) {
	return s.rows, s.err
}

type stubProfileRepo struct {
	profile *models.Profile
	err     error
}

func (s *stubProfileRepo) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profile, s.err
}

func TestBuildAssemblesAllSources(t *testing.T) {
	now := time.Now()
	svc := NewService(
		&stubMetricRepo{rows: []models.HealthMetric{{MetricType: models.MetricSleep, Value: 7}}},
		&stubLogRepo{rows: []models.ManualLog{{LogType: models.LogSymptom, Value: "headache"}}},
		&stubFoodRepo{},
		&stubCalendarRepo{rows: []models.CalendarEvent{{Title: "Standup"}}},
		&stubWeatherRepo{},
		&stubMedicationRepo{},
		&stubProfileRepo{profile: &models.Profile{ID: "user-1", Timezone: "Asia/Tokyo"}},
		logger.Default(),
	)

	actx, err := svc.Build(context.Background(), "user-1", DefaultWindow(now))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if actx.Timezone.String() != "Asia/Tokyo" {
		t.Errorf("timezone = %s, want Asia/Tokyo", actx.Timezone)
	}
	if len(actx.Metrics) != 1 || len(actx.Logs) != 1 || len(actx.Events) != 1 {
		t.Errorf("unexpected slice sizes: metrics=%d logs=%d events=%d",
			len(actx.Metrics), len(actx.Logs), len(actx.Events))
	}
	// empty sources still give non-nil slices
	if actx.Foods == nil || actx.Weather == nil || actx.Medications == nil {
		t.Error("empty sources must yield empty, non-nil slices")
	}
}

func TestBuildToleratesPartialFailure(t *testing.T) {
	svc := NewService(
		&stubMetricRepo{rows: []models.HealthMetric{{MetricType: models.MetricSteps, Value: 9000}}},
		&stubLogRepo{err: errors.New("store timeout")},
		&stubFoodRepo{},
		&stubCalendarRepo{},
		&stubWeatherRepo{},
		&stubMedicationRepo{},
		&stubProfileRepo{},
		logger.Default(),
	)

	actx, err := svc.Build(context.Background(), "user-1", DefaultWindow(time.Now()))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if len(actx.Metrics) != 1 {
		t.Errorf("metrics should survive another source failing")
	}
	if len(actx.Logs) != 0 || actx.Logs == nil {
		t.Errorf("failed source should yield empty, non-nil slice")
	}
	if actx.Timezone != time.UTC {
		t.Errorf("missing profile should default to UTC, got %s", actx.Timezone)
	}
}

func TestBuildFailsWhenAllSourcesFail(t *testing.T) {
	boom := errors.New("store down")
	svc := NewService(
		&stubMetricRepo{err: boom},
		&stubLogRepo{err: boom},
		&stubFoodRepo{err: boom},
		&stubCalendarRepo{err: boom},
		&stubWeatherRepo{err: boom},
		&stubMedicationRepo{err: boom},
		&stubProfileRepo{},
		logger.Default(),
	)

	if _, err := svc.Build(context.Background(), "user-1", DefaultWindow(time.Now())); err == nil {
		t.Fatal("expected error when every source fails")
	}
}
