package repository

import (
	"context"
	"time"

	"github.com/lunahealth/backend/internal/models"
)

// MetricRepository defines the interface for health metric data access
type MetricRepository interface {
	InsertBatch(ctx context.Context, metrics []models.HealthMetric) error
	// DeleteInWindow removes a source's rows of the given types whose
	// recorded_at falls inside [start, end]. Used by collectors to
	// supersede a day's rows before re-inserting.
	DeleteInWindow(ctx context.Context, userID string, source models.MetricSource, types []models.MetricType, start, end time.Time) error
	GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.HealthMetric, error)
	GetByUserAndType(ctx context.Context, userID string, metricType models.MetricType, start, end time.Time) ([]models.HealthMetric, error)
	GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.HealthMetric, error)
}

// LogRepository defines the interface for manual log data access
type LogRepository interface {
	Create(ctx context.Context, log *models.ManualLog) (*models.ManualLog, error)
	GetByID(ctx context.Context, id string) (*models.ManualLog, error)
	GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.ManualLog, error)
	GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.ManualLog, error)
	Update(ctx context.Context, id string, log *models.ManualLog) (*models.ManualLog, error)
	Delete(ctx context.Context, id string) error
}

// FoodRepository defines the interface for food entry data access
type FoodRepository interface {
	// UpsertBatch inserts entries, merging on (user_id, external_id) so
	// retried syncs with stable external ids stay idempotent.
	UpsertBatch(ctx context.Context, entries []models.FoodEntry) error
	GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.FoodEntry, error)
}

// CalendarRepository defines the interface for calendar event data access
type CalendarRepository interface {
	UpsertBatch(ctx context.Context, events []models.CalendarEvent) error
	GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.CalendarEvent, error)
	GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.CalendarEvent, error)
}

// WeatherRepository defines the interface for daily weather data access
type WeatherRepository interface {
	Upsert(ctx context.Context, record *models.WeatherRecord) error
	GetByUserAndDates(ctx context.Context, userID string, startDate, endDate string) ([]models.WeatherRecord, error)
}

// MedicationRepository defines the interface for medication log data access
type MedicationRepository interface {
	Create(ctx context.Context, log *models.MedicationLog) (*models.MedicationLog, error)
	GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MedicationLog, error)
}

// IntegrationRepository defines the interface for integration state access
type IntegrationRepository interface {
	GetByUserAndProvider(ctx context.Context, userID, provider string) (*models.Integration, error)
	GetByUser(ctx context.Context, userID string) ([]models.Integration, error)
	Connect(ctx context.Context, integration *models.Integration) (*models.Integration, error)
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error
	TouchLastSync(ctx context.Context, id string, at time.Time) error
	Disconnect(ctx context.Context, id string) error
}

// InsightRepository defines the interface for insight persistence
type InsightRepository interface {
	CreateBatch(ctx context.Context, insights []models.Insight) error
	GetByBatchID(ctx context.Context, userID, batchID string) ([]models.Insight, error)
	GetByUser(ctx context.Context, userID string, limit int) ([]models.Insight, error)
	GetBySource(ctx context.Context, userID string, source models.InsightSource, limit int) ([]models.Insight, error)
}

// ProfileRepository defines the interface for user profile access
type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (*models.Profile, error)
}
