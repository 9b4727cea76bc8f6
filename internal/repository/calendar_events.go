package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type calendarRepository struct {
	client *supabase.Client
}

// NewCalendarRepository creates a new calendar event repository
func NewCalendarRepository(client *supabase.Client) CalendarRepository {
	return &calendarRepository{client: client}
}

func (r *calendarRepository) UpsertBatch(ctx context.Context, events []models.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}

	data := make([]map[string]interface{}, len(events))
	for i, e := range events {
		item := map[string]interface{}{
			"user_id":     e.UserID,
			"title":       e.Title,
			"start_time":  e.StartTime.Format(time.RFC3339),
			"end_time":    nil,
			"event_type":  nil,
			"is_all_day":  e.IsAllDay,
			"external_id": nil,
		}
		if e.EndTime != nil {
			item["end_time"] = e.EndTime.Format(time.RFC3339)
		}
		if e.EventType != nil {
			item["event_type"] = *e.EventType
		}
		if e.ExternalID != nil {
			item["external_id"] = *e.ExternalID
		}
		data[i] = item
	}

	if _, err := r.client.Upsert(ctx, "calendar_events", data, "user_id,external_id"); err != nil {
		return fmt.Errorf("failed to upsert calendar events: %w", err)
	}

	return nil
}

func (r *calendarRepository) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.CalendarEvent, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(start_time.gte.%s,start_time.lte.%s)",
			start.Format(time.RFC3339), end.Format(time.RFC3339)),
		"select": "*",
		"order":  "start_time.asc",
	}

	body, err := r.client.Query(ctx, "calendar_events", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar events: %w", err)
	}

	var events []models.CalendarEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return events, nil
}

func (r *calendarRepository) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.CalendarEvent, error) {
	query := map[string]interface{}{
		"user_id":    fmt.Sprintf("eq.%s", userID),
		"start_time": fmt.Sprintf("gte.%s", since.Format(time.RFC3339)),
		"select":     "*",
		"order":      "start_time.desc",
		"limit":      limit,
	}

	body, err := r.client.Query(ctx, "calendar_events", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent calendar events: %w", err)
	}

	var events []models.CalendarEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return events, nil
}
