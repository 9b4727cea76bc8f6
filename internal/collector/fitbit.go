package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/providers/fitbit"
	"github.com/lunahealth/backend/internal/repository"
)

// sleepLookback is how far back sleep rows are replaced on each sync. A
// session that started yesterday evening and ended this morning belongs
// to this morning, so one day is not enough.
const sleepLookback = 36 * time.Hour

// fitbitTimeLayout is the zoneless timestamp format Fitbit uses. Values
// are in the user's Fitbit profile timezone.
const fitbitTimeLayout = "2006-01-02T15:04:05.000"

// dailyMetricTypes are the metric types a daily fitbit sync supersedes.
var dailyMetricTypes = []models.MetricType{
	models.MetricSteps,
	models.MetricCaloriesBurned,
	models.MetricActiveCalories,
	models.MetricRestingHeartRate,
	models.MetricCaloriesConsumed,
}

type fitbitCollector struct {
	client       *fitbit.Client
	metrics      repository.MetricRepository
	foods        repository.FoodRepository
	integrations repository.IntegrationRepository
	log          logger.Logger
	now          func() time.Time
}

func newFitbitCollector(client *fitbit.Client, metrics repository.MetricRepository, foods repository.FoodRepository, integrations repository.IntegrationRepository, log logger.Logger) *fitbitCollector {
	return &fitbitCollector{
		client:       client,
		metrics:      metrics,
		foods:        foods,
		integrations: integrations,
		log:          log,
		now:          time.Now,
	}
}

// ensureToken returns a usable access token, refreshing first when the
// stored one is expired or about to expire. A rejected refresh token
// disconnects the integration and surfaces ErrReauthRequired.
func (c *fitbitCollector) ensureToken(ctx context.Context, integ *models.Integration) (string, error) {
	if integ.TokenExpiresAt == nil || c.now().Before(integ.TokenExpiresAt.Add(-2*time.Minute)) {
		return integ.AccessToken, nil
	}

	token, err := c.client.RefreshToken(ctx, integ.RefreshToken)
	if errors.Is(err, fitbit.ErrUnauthorized) {
		if derr := c.integrations.Disconnect(ctx, integ.ID); derr != nil {
			c.log.Error("failed to disconnect integration",
				logger.String("integration_id", integ.ID), logger.Err(derr))
		}
		return "", ErrReauthRequired
	}
	if err != nil {
		return "", fmt.Errorf("failed to refresh fitbit token: %w", err)
	}

	expiresAt := c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	if err := c.integrations.UpdateTokens(ctx, integ.ID, token.AccessToken, token.RefreshToken, expiresAt); err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// Collect syncs today's Fitbit data for one user. The four endpoints are
// fetched concurrently; a single failing endpoint is skipped rather than
// failing the run, except for auth failures which abort it.
func (c *fitbitCollector) Collect(ctx context.Context, integ *models.Integration, loc *time.Location) (*models.SyncResult, error) {
	token, err := c.ensureToken(ctx, integ)
	if err != nil {
		return nil, err
	}

	now := c.now()
	localNow := now.In(loc)
	today := localNow.Format("2006-01-02")
	sleepStart := now.Add(-sleepLookback).In(loc).Format("2006-01-02")

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		activity *fitbit.DailyActivity
		sleep    *fitbit.SleepRange
		heart    *fitbit.HeartRate
		food     *fitbit.FoodLog
		skipped  []string
		authErr  error
	)

	fetch := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				mu.Lock()
				defer mu.Unlock()
				if errors.Is(err, fitbit.ErrUnauthorized) && authErr == nil {
					authErr = err
					return
				}
				skipped = append(skipped, "fitbit:"+name)
				c.log.Warn("fitbit endpoint failed, skipping",
					logger.String("endpoint", name),
					logger.String("user_id", integ.UserID),
					logger.Err(err))
			}
		}()
	}

	fetch("activity", func() error {
		var err error
		activity, err = c.client.GetDailyActivity(ctx, token, today)
		return err
	})
	fetch("sleep", func() error {
		var err error
		sleep, err = c.client.GetSleepRange(ctx, token, sleepStart, today)
		return err
	})
	fetch("heart", func() error {
		var err error
		heart, err = c.client.GetHeartRate(ctx, token, today)
		return err
	})
	fetch("food", func() error {
		var err error
		food, err = c.client.GetFoodLog(ctx, token, today)
		return err
	})
	wg.Wait()

	if authErr != nil {
		if derr := c.integrations.Disconnect(ctx, integ.ID); derr != nil {
			c.log.Error("failed to disconnect integration",
				logger.String("integration_id", integ.ID), logger.Err(derr))
		}
		return nil, ErrReauthRequired
	}

	dayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	dailyMetrics := c.buildDailyMetrics(integ.UserID, activity, heart, food, dayStart)
	sleepMetrics, err := c.buildSleepMetrics(integ.UserID, sleep, loc)
	if err != nil {
		c.log.Warn("failed to parse sleep sessions", logger.String("user_id", integ.UserID), logger.Err(err))
	}

	// Replace-then-insert keeps re-syncing the same day idempotent
	if len(dailyMetrics) > 0 {
		if err := c.metrics.DeleteInWindow(ctx, integ.UserID, models.SourceFitbit, dailyMetricTypes, dayStart, dayEnd); err != nil {
			return nil, err
		}
		if err := c.metrics.InsertBatch(ctx, dailyMetrics); err != nil {
			return nil, err
		}
	}
	if len(sleepMetrics) > 0 {
		if err := c.metrics.DeleteInWindow(ctx, integ.UserID, models.SourceFitbit, []models.MetricType{models.MetricSleep}, now.Add(-sleepLookback), now); err != nil {
			return nil, err
		}
		if err := c.metrics.InsertBatch(ctx, sleepMetrics); err != nil {
			return nil, err
		}
	}

	entries := c.buildFoodEntries(integ.UserID, food, loc)
	if len(entries) > 0 {
		if err := c.foods.UpsertBatch(ctx, entries); err != nil {
			return nil, err
		}
	}

	if err := c.integrations.TouchLastSync(ctx, integ.ID, now); err != nil {
		c.log.Warn("failed to update last sync", logger.String("integration_id", integ.ID), logger.Err(err))
	}

	return &models.SyncResult{
		Provider:       "fitbit",
		MetricsWritten: len(dailyMetrics) + len(sleepMetrics),
		FoodsWritten:   len(entries),
		SkippedSources: skipped,
		SyncedAt:       now,
	}, nil
}

func (c *fitbitCollector) buildDailyMetrics(userID string, activity *fitbit.DailyActivity, heart *fitbit.HeartRate, food *fitbit.FoodLog, dayStart time.Time) []models.HealthMetric {
	var out []models.HealthMetric

	add := func(metricType models.MetricType, value float64, unit string) {
		out = append(out, models.HealthMetric{
			UserID:     userID,
			MetricType: metricType,
			Value:      value,
			Unit:       unit,
			Source:     models.SourceFitbit,
			RecordedAt: dayStart,
		})
	}

	if activity != nil {
		if activity.Summary.Steps > 0 {
			add(models.MetricSteps, float64(activity.Summary.Steps), "count")
		}
		if activity.Summary.CaloriesOut > 0 {
			add(models.MetricCaloriesBurned, float64(activity.Summary.CaloriesOut), "kcal")
		}
		if activity.Summary.ActivityCalories > 0 {
			add(models.MetricActiveCalories, float64(activity.Summary.ActivityCalories), "kcal")
		}
	}

	resting := 0
	if heart != nil && len(heart.ActivitiesHeart) > 0 {
		resting = heart.ActivitiesHeart[0].Value.RestingHeartRate
	}
	if resting == 0 && activity != nil {
		resting = activity.Summary.RestingHeartRate
	}
	if resting > 0 {
		add(models.MetricRestingHeartRate, float64(resting), "bpm")
	}

	if food != nil && food.Summary.Calories > 0 {
		add(models.MetricCaloriesConsumed, food.Summary.Calories, "kcal")
	}

	return out
}

func (c *fitbitCollector) buildSleepMetrics(userID string, sleep *fitbit.SleepRange, loc *time.Location) ([]models.HealthMetric, error) {
	if sleep == nil {
		return nil, nil
	}

	var out []models.HealthMetric
	var firstErr error
	for _, session := range sleep.Sleep {
		endTime, err := time.ParseInLocation(fitbitTimeLayout, session.EndTime, loc)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to parse sleep end time %q: %w", session.EndTime, err)
			}
			continue
		}

		externalID := fmt.Sprintf("%d", session.LogID)
		out = append(out, models.HealthMetric{
			UserID:     userID,
			MetricType: models.MetricSleep,
			Value:      float64(session.MinutesAsleep) / 60.0,
			Unit:       "hours",
			Source:     models.SourceFitbit,
			ExternalID: &externalID,
			RecordedAt: endTime,
			Metadata: map[string]interface{}{
				"efficiency":    session.Efficiency,
				"is_main_sleep": session.IsMainSleep,
			},
		})
	}

	return out, firstErr
}

func (c *fitbitCollector) buildFoodEntries(userID string, food *fitbit.FoodLog, loc *time.Location) []models.FoodEntry {
	if food == nil {
		return nil
	}

	var out []models.FoodEntry
	for _, item := range food.Foods {
		consumedAt := time.Now().In(loc)
		// Food logs carry a date but no time of day; noon keeps the entry
		// inside the right local day regardless of UTC offset
		if day, err := time.ParseInLocation("2006-01-02", item.LogDate, loc); err == nil {
			consumedAt = day.Add(12 * time.Hour)
		}

		dairy, gluten, caffeine := TagIngredients(item.LoggedFood.Name + " " + item.LoggedFood.Brand)
		externalID := fmt.Sprintf("%d", item.LogID)

		entry := models.FoodEntry{
			UserID:           userID,
			Name:             item.LoggedFood.Name,
			Calories:         item.NutritionalValues.Calories,
			Protein:          item.NutritionalValues.Protein,
			Carbs:            item.NutritionalValues.Carbs,
			Fat:              item.NutritionalValues.Fat,
			Fiber:            item.NutritionalValues.Fiber,
			Sodium:           item.NutritionalValues.Sodium,
			Sugar:            item.NutritionalValues.Sugars,
			ContainsDairy:    dairy,
			ContainsGluten:   gluten,
			ContainsCaffeine: caffeine,
			Source:           models.SourceFitbit,
			ExternalID:       &externalID,
			ConsumedAt:       consumedAt,
		}
		if item.LoggedFood.Brand != "" {
			brand := item.LoggedFood.Brand
			entry.Brand = &brand
		}
		out = append(out, entry)
	}

	return out
}
