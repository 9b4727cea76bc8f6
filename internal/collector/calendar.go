package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/providers/googlecal"
	"github.com/lunahealth/backend/internal/repository"
)

// Calendar sync window relative to now. The analysis engine looks back a
// month and predictions need tomorrow's events.
const (
	calendarLookback  = 30 * 24 * time.Hour
	calendarLookahead = 7 * 24 * time.Hour
)

type calendarCollector struct {
	client       *googlecal.Client
	events       repository.CalendarRepository
	integrations repository.IntegrationRepository
	log          logger.Logger
	now          func() time.Time
}

func newCalendarCollector(client *googlecal.Client, events repository.CalendarRepository, integrations repository.IntegrationRepository, log logger.Logger) *calendarCollector {
	return &calendarCollector{
		client:       client,
		events:       events,
		integrations: integrations,
		log:          log,
		now:          time.Now,
	}
}

func (c *calendarCollector) ensureToken(ctx context.Context, integ *models.Integration) (string, error) {
	if integ.TokenExpiresAt == nil || c.now().Before(integ.TokenExpiresAt.Add(-2*time.Minute)) {
		return integ.AccessToken, nil
	}

	token, err := c.client.RefreshToken(ctx, integ.RefreshToken)
	if errors.Is(err, googlecal.ErrUnauthorized) {
		if derr := c.integrations.Disconnect(ctx, integ.ID); derr != nil {
			c.log.Error("failed to disconnect integration",
				logger.String("integration_id", integ.ID), logger.Err(derr))
		}
		return "", ErrReauthRequired
	}
	if err != nil {
		return "", fmt.Errorf("failed to refresh google token: %w", err)
	}

	expiresAt := c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	if err := c.integrations.UpdateTokens(ctx, integ.ID, token.AccessToken, token.RefreshToken, expiresAt); err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// Collect syncs the user's primary calendar into the event store.
func (c *calendarCollector) Collect(ctx context.Context, integ *models.Integration, loc *time.Location) (*models.SyncResult, error) {
	token, err := c.ensureToken(ctx, integ)
	if err != nil {
		return nil, err
	}

	now := c.now()
	items, err := c.client.ListEvents(ctx, token, now.Add(-calendarLookback), now.Add(calendarLookahead))
	if errors.Is(err, googlecal.ErrUnauthorized) {
		if derr := c.integrations.Disconnect(ctx, integ.ID); derr != nil {
			c.log.Error("failed to disconnect integration",
				logger.String("integration_id", integ.ID), logger.Err(derr))
		}
		return nil, ErrReauthRequired
	}
	if err != nil {
		return nil, err
	}

	events := make([]models.CalendarEvent, 0, len(items))
	for _, item := range items {
		if item.Status == "cancelled" {
			continue
		}

		event, err := mapEvent(integ.UserID, item, loc)
		if err != nil {
			c.log.Warn("skipping unparseable calendar event",
				logger.String("event_id", item.ID), logger.Err(err))
			continue
		}
		events = append(events, event)
	}

	if err := c.events.UpsertBatch(ctx, events); err != nil {
		return nil, err
	}

	if err := c.integrations.TouchLastSync(ctx, integ.ID, now); err != nil {
		c.log.Warn("failed to update last sync", logger.String("integration_id", integ.ID), logger.Err(err))
	}

	return &models.SyncResult{
		Provider:      "google_calendar",
		EventsWritten: len(events),
		SyncedAt:      now,
	}, nil
}

func mapEvent(userID string, item googlecal.Event, loc *time.Location) (models.CalendarEvent, error) {
	externalID := item.ID
	event := models.CalendarEvent{
		UserID:     userID,
		Title:      item.Summary,
		ExternalID: &externalID,
	}

	switch {
	case item.Start.DateTime != "":
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return event, fmt.Errorf("bad start time: %w", err)
		}
		event.StartTime = start
		if item.End.DateTime != "" {
			if end, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
				event.EndTime = &end
			}
		}
	case item.Start.Date != "":
		start, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return event, fmt.Errorf("bad start date: %w", err)
		}
		event.StartTime = start
		event.IsAllDay = true
	default:
		return event, fmt.Errorf("event has no start")
	}

	return event, nil
}
