package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type logRepository struct {
	client *supabase.Client
}

// NewLogRepository creates a new manual log repository
func NewLogRepository(client *supabase.Client) LogRepository {
	return &logRepository{client: client}
}

func (r *logRepository) Create(ctx context.Context, log *models.ManualLog) (*models.ManualLog, error) {
	data := map[string]interface{}{
		"user_id":   log.UserID,
		"log_type":  log.LogType,
		"value":     log.Value,
		"logged_at": log.LoggedAt.Format(time.RFC3339),
	}
	if log.Severity != nil {
		data["severity"] = *log.Severity
	}
	if log.Notes != nil {
		data["notes"] = *log.Notes
	}
	if len(log.Metadata) > 0 {
		data["metadata"] = log.Metadata
	}

	body, err := r.client.Insert(ctx, "manual_logs", data)
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	var logs []models.ManualLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("no log returned")
	}

	return &logs[0], nil
}

func (r *logRepository) GetByID(ctx context.Context, id string) (*models.ManualLog, error) {
	query := map[string]interface{}{
		"id":     fmt.Sprintf("eq.%s", id),
		"select": "*",
	}

	body, err := r.client.Query(ctx, "manual_logs", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}

	var logs []models.ManualLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(logs) == 0 {
		return nil, nil
	}

	return &logs[0], nil
}

func (r *logRepository) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.ManualLog, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(logged_at.gte.%s,logged_at.lte.%s)",
			start.Format(time.RFC3339), end.Format(time.RFC3339)),
		"select": "*",
		"order":  "logged_at.asc",
	}

	body, err := r.client.Query(ctx, "manual_logs", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}

	var logs []models.ManualLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return logs, nil
}

func (r *logRepository) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.ManualLog, error) {
	query := map[string]interface{}{
		"user_id":   fmt.Sprintf("eq.%s", userID),
		"logged_at": fmt.Sprintf("gte.%s", since.Format(time.RFC3339)),
		"select":    "*",
		"order":     "logged_at.desc",
		"limit":     limit,
	}

	body, err := r.client.Query(ctx, "manual_logs", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent logs: %w", err)
	}

	var logs []models.ManualLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return logs, nil
}

func (r *logRepository) Update(ctx context.Context, id string, log *models.ManualLog) (*models.ManualLog, error) {
	data := map[string]interface{}{
		"value":      log.Value,
		"logged_at":  log.LoggedAt.Format(time.RFC3339),
		"updated_at": time.Now().Format(time.RFC3339),
	}
	if log.Severity != nil {
		data["severity"] = *log.Severity
	}
	if log.Notes != nil {
		data["notes"] = *log.Notes
	}
	if len(log.Metadata) > 0 {
		data["metadata"] = log.Metadata
	}

	query := map[string]interface{}{
		"id": fmt.Sprintf("eq.%s", id),
	}

	body, err := r.client.UpdateWhere(ctx, "manual_logs", query, data)
	if err != nil {
		return nil, fmt.Errorf("failed to update log: %w", err)
	}

	var logs []models.ManualLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("no log returned")
	}

	return &logs[0], nil
}

func (r *logRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, "manual_logs", id); err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	return nil
}
