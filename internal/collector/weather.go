package collector

import (
	"context"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/providers/weather"
	"github.com/lunahealth/backend/internal/repository"
)

type weatherCollector struct {
	client  *weather.Client
	records repository.WeatherRepository
	now     func() time.Time
}

func newWeatherCollector(client *weather.Client, records repository.WeatherRepository) *weatherCollector {
	return &weatherCollector{
		client:  client,
		records: records,
		now:     time.Now,
	}
}

// Collect fetches today's weather for the profile location and upserts
// the daily record. Profiles without a location yield a skipped result
// rather than an error.
func (c *weatherCollector) Collect(ctx context.Context, profile *models.Profile, loc *time.Location) (*models.SyncResult, error) {
	now := c.now()

	if profile == nil || profile.Latitude == nil || profile.Longitude == nil {
		return &models.SyncResult{
			Provider:       "weather",
			SkippedSources: []string{"weather:no_location"},
			SyncedAt:       now,
		}, nil
	}

	today := now.In(loc).Format("2006-01-02")
	daily, err := c.client.GetDaily(ctx, *profile.Latitude, *profile.Longitude, today, loc.String())
	if err != nil {
		return nil, err
	}

	record := &models.WeatherRecord{
		UserID:          profile.ID,
		Date:            daily.Date,
		TemperatureHigh: daily.TemperatureHigh,
		TemperatureLow:  daily.TemperatureLow,
		PrecipitationMM: daily.PrecipitationMM,
		HumidityAvg:     daily.HumidityAvg,
		PressureHPA:     daily.PressureHPA,
		WeatherCode:     daily.WeatherCode,
	}
	if err := c.records.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return &models.SyncResult{
		Provider: "weather",
		SyncedAt: now,
	}, nil
}
