// Package collector pulls data from external providers into the store.
// Each provider sync is idempotent: re-running it for the same window
// replaces or merges rows instead of duplicating them.
package collector

import (
	"context"
	"errors"
	"time"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/providers/fitbit"
	"github.com/lunahealth/backend/internal/providers/googlecal"
	"github.com/lunahealth/backend/internal/providers/weather"
	"github.com/lunahealth/backend/internal/repository"
)

// Provider names accepted by Sync.
const (
	ProviderFitbit         = "fitbit"
	ProviderGoogleCalendar = "google_calendar"
	ProviderWeather        = "weather"
)

var (
	// ErrReauthRequired means the provider rejected the stored refresh
	// token; the user must reconnect the integration.
	ErrReauthRequired = errors.New("collector: provider reauthorization required")
	// ErrNotConnected means the user has no active integration for the
	// requested provider.
	ErrNotConnected = errors.New("collector: integration not connected")
	// ErrUnknownProvider means the provider name is not recognized.
	ErrUnknownProvider = errors.New("collector: unknown provider")
)

// Service routes sync requests to the per-provider collectors.
type Service struct {
	fitbit       *fitbitCollector
	calendar     *calendarCollector
	weather      *weatherCollector
	integrations repository.IntegrationRepository
	profiles     repository.ProfileRepository
	log          logger.Logger
}

// NewService creates the collector service.
func NewService(
	fitbitClient *fitbit.Client,
	calendarClient *googlecal.Client,
	weatherClient *weather.Client,
	metrics repository.MetricRepository,
	foods repository.FoodRepository,
	events repository.CalendarRepository,
	records repository.WeatherRepository,
	integrations repository.IntegrationRepository,
	profiles repository.ProfileRepository,
	log logger.Logger,
) *Service {
	return &Service{
		fitbit:       newFitbitCollector(fitbitClient, metrics, foods, integrations, log),
		calendar:     newCalendarCollector(calendarClient, events, integrations, log),
		weather:      newWeatherCollector(weatherClient, records),
		integrations: integrations,
		profiles:     profiles,
		log:          log,
	}
}

// Sync runs one provider's collector for one user.
func (s *Service) Sync(ctx context.Context, userID, provider string) (*models.SyncResult, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	loc := userLocation(profile, s.log)

	switch provider {
	case ProviderFitbit:
		integ, err := s.connectedIntegration(ctx, userID, ProviderFitbit)
		if err != nil {
			return nil, err
		}
		return s.fitbit.Collect(ctx, integ, loc)
	case ProviderGoogleCalendar:
		integ, err := s.connectedIntegration(ctx, userID, ProviderGoogleCalendar)
		if err != nil {
			return nil, err
		}
		return s.calendar.Collect(ctx, integ, loc)
	case ProviderWeather:
		// Weather needs no OAuth, only a profile location
		return s.weather.Collect(ctx, profile, loc)
	default:
		return nil, ErrUnknownProvider
	}
}

// SyncAll runs every connected provider plus weather. Per-provider
// failures are logged and reported in the result list, not fatal.
func (s *Service) SyncAll(ctx context.Context, userID string) []models.SyncResult {
	var results []models.SyncResult
	for _, provider := range []string{ProviderFitbit, ProviderGoogleCalendar, ProviderWeather} {
		result, err := s.Sync(ctx, userID, provider)
		if err != nil {
			if !errors.Is(err, ErrNotConnected) {
				s.log.Warn("provider sync failed",
					logger.String("provider", provider),
					logger.String("user_id", userID),
					logger.Err(err))
			}
			results = append(results, models.SyncResult{
				Provider:       provider,
				SkippedSources: []string{provider + ":" + err.Error()},
				SyncedAt:       time.Now(),
			})
			continue
		}
		results = append(results, *result)
	}
	return results
}

func (s *Service) connectedIntegration(ctx context.Context, userID, provider string) (*models.Integration, error) {
	integ, err := s.integrations.GetByUserAndProvider(ctx, userID, provider)
	if err != nil {
		return nil, err
	}
	if integ == nil || !integ.IsConnected {
		return nil, ErrNotConnected
	}
	return integ, nil
}

// userLocation resolves the profile timezone, falling back to UTC when
// the profile is missing or carries a bad zone name.
func userLocation(profile *models.Profile, log logger.Logger) *time.Location {
	if profile == nil || profile.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(profile.Timezone)
	if err != nil {
		log.Warn("invalid profile timezone, using UTC",
			logger.String("timezone", profile.Timezone), logger.Err(err))
		return time.UTC
	}
	return loc
}
