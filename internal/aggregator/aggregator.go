// Package aggregator assembles the per-user analysis context from every
// data source in one concurrent pass.
package aggregator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/repository"
)

// DefaultWindowDays is the analysis lookback when the caller does not
// supply a window.
const DefaultWindowDays = 30

// Service builds analysis contexts.
type Service struct {
	metrics     repository.MetricRepository
	logs        repository.LogRepository
	foods       repository.FoodRepository
	events      repository.CalendarRepository
	weather     repository.WeatherRepository
	medications repository.MedicationRepository
	profiles    repository.ProfileRepository
	log         logger.Logger
}

// NewService creates the aggregator service.
func NewService(
	metrics repository.MetricRepository,
	logs repository.LogRepository,
	foods repository.FoodRepository,
	events repository.CalendarRepository,
	weather repository.WeatherRepository,
	medications repository.MedicationRepository,
	profiles repository.ProfileRepository,
	log logger.Logger,
) *Service {
	return &Service{
		metrics:     metrics,
		logs:        logs,
		foods:       foods,
		events:      events,
		weather:     weather,
		medications: medications,
		profiles:    profiles,
		log:         log,
	}
}

// DefaultWindow returns the standard lookback window ending now.
func DefaultWindow(now time.Time) models.Window {
	return models.Window{
		Start: now.AddDate(0, 0, -DefaultWindowDays),
		End:   now,
	}
}

// Build fetches all sources for one user concurrently and assembles the
// analysis context. A single failing source is logged and contributes an
// empty slice; only all sources failing is an error. Slices in the
// returned context are never nil.
func (s *Service) Build(ctx context.Context, userID string, window models.Window) (*models.AnalysisContext, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("failed to load profile, using UTC",
			logger.String("user_id", userID), logger.Err(err))
	}

	loc := time.UTC
	if profile != nil && profile.Timezone != "" {
		if l, err := time.LoadLocation(profile.Timezone); err == nil {
			loc = l
		} else {
			s.log.Warn("invalid profile timezone, using UTC",
				logger.String("timezone", profile.Timezone), logger.Err(err))
		}
	}

	out := &models.AnalysisContext{
		UserID:      userID,
		Window:      window,
		Timezone:    loc,
		Metrics:     []models.HealthMetric{},
		Logs:        []models.ManualLog{},
		Foods:       []models.FoodEntry{},
		Events:      []models.CalendarEvent{},
		Weather:     []models.WeatherRecord{},
		Medications: []models.MedicationLog{},
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	fetch := func(source string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				s.log.Warn("source fetch failed, continuing without it",
					logger.String("source", source),
					logger.String("user_id", userID),
					logger.Err(err))
			}
		}()
	}

	fetch("metrics", func() error {
		rows, err := s.metrics.GetByUserAndWindow(ctx, userID, window.Start, window.End)
		if err != nil {
			return err
		}
		if rows != nil {
			out.Metrics = rows
		}
		return nil
	})
	fetch("logs", func() error {
		rows, err := s.logs.GetByUserAndWindow(ctx, userID, window.Start, window.End)
		if err != nil {
			return err
		}
		if rows != nil {
			out.Logs = rows
		}
		return nil
	})
	fetch("foods", func() error {
		rows, err := s.foods.GetByUserAndWindow(ctx, userID, window.Start, window.End)
		if err != nil {
			return err
		}
		if rows != nil {
			out.Foods = rows
		}
		return nil
	})
	fetch("events", func() error {
		rows, err := s.events.GetByUserAndWindow(ctx, userID, window.Start, window.End)
		if err != nil {
			return err
		}
		if rows != nil {
			out.Events = rows
		}
		return nil
	})
	fetch("weather", func() error {
		rows, err := s.weather.GetByUserAndDates(ctx, userID,
			window.Start.In(loc).Format("2006-01-02"),
			window.End.In(loc).Format("2006-01-02"))
		if err != nil {
			return err
		}
		if rows != nil {
			out.Weather = rows
		}
		return nil
	})
	fetch("medications", func() error {
		rows, err := s.medications.GetByUserAndWindow(ctx, userID, window.Start, window.End)
		if err != nil {
			return err
		}
		if rows != nil {
			out.Medications = rows
		}
		return nil
	})

	wg.Wait()

	if failures == 6 {
		return nil, fmt.Errorf("all sources failed for user %s", userID)
	}

	return out, nil
}
