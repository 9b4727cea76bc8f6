package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type weatherRepository struct {
	client *supabase.Client
}

// NewWeatherRepository creates a new weather record repository
func NewWeatherRepository(client *supabase.Client) WeatherRepository {
	return &weatherRepository{client: client}
}

func (r *weatherRepository) Upsert(ctx context.Context, record *models.WeatherRecord) error {
	data := map[string]interface{}{
		"user_id":          record.UserID,
		"date":             record.Date,
		"temperature_high": record.TemperatureHigh,
		"temperature_low":  record.TemperatureLow,
		"precipitation_mm": record.PrecipitationMM,
		"humidity_avg":     record.HumidityAvg,
		"pressure_hpa":     record.PressureHPA,
		"weather_code":     record.WeatherCode,
	}

	if _, err := r.client.Upsert(ctx, "weather_records", data, "user_id,date"); err != nil {
		return fmt.Errorf("failed to upsert weather record: %w", err)
	}

	return nil
}

func (r *weatherRepository) GetByUserAndDates(ctx context.Context, userID string, startDate, endDate string) ([]models.WeatherRecord, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and":     fmt.Sprintf("(date.gte.%s,date.lte.%s)", startDate, endDate),
		"select":  "*",
		"order":   "date.asc",
	}

	body, err := r.client.Query(ctx, "weather_records", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather records: %w", err)
	}

	var records []models.WeatherRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return records, nil
}
