package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type medicationRepository struct {
	client *supabase.Client
}

// NewMedicationRepository creates a new medication log repository
func NewMedicationRepository(client *supabase.Client) MedicationRepository {
	return &medicationRepository{client: client}
}

func (r *medicationRepository) Create(ctx context.Context, log *models.MedicationLog) (*models.MedicationLog, error) {
	data := map[string]interface{}{
		"user_id":         log.UserID,
		"logged_at":       log.LoggedAt.Format(time.RFC3339),
		"took_medication": log.TookMedication,
	}
	if log.Notes != nil {
		data["notes"] = *log.Notes
	}

	body, err := r.client.Insert(ctx, "medication_logs", data)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication log: %w", err)
	}

	var logs []models.MedicationLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(logs) == 0 {
		return nil, fmt.Errorf("no medication log returned")
	}

	return &logs[0], nil
}

func (r *medicationRepository) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MedicationLog, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(logged_at.gte.%s,logged_at.lte.%s)",
			start.Format(time.RFC3339), end.Format(time.RFC3339)),
		"select": "*",
		"order":  "logged_at.asc",
	}

	body, err := r.client.Query(ctx, "medication_logs", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get medication logs: %w", err)
	}

	var logs []models.MedicationLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return logs, nil
}
