package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type foodRepository struct {
	client *supabase.Client
}

// NewFoodRepository creates a new food entry repository
func NewFoodRepository(client *supabase.Client) FoodRepository {
	return &foodRepository{client: client}
}

func (r *foodRepository) UpsertBatch(ctx context.Context, entries []models.FoodEntry) error {
	if len(entries) == 0 {
		return nil
	}

	data := make([]map[string]interface{}, len(entries))
	for i, e := range entries {
		item := map[string]interface{}{
			"user_id":           e.UserID,
			"name":              e.Name,
			"brand":             nil,
			"calories":          e.Calories,
			"protein":           e.Protein,
			"carbs":             e.Carbs,
			"fat":               e.Fat,
			"fiber":             e.Fiber,
			"sodium":            e.Sodium,
			"sugar":             e.Sugar,
			"contains_dairy":    e.ContainsDairy,
			"contains_gluten":   e.ContainsGluten,
			"contains_caffeine": e.ContainsCaffeine,
			"source":            e.Source,
			"external_id":       nil,
			"consumed_at":       e.ConsumedAt.Format(time.RFC3339),
		}
		if e.Brand != nil {
			item["brand"] = *e.Brand
		}
		if e.ExternalID != nil {
			item["external_id"] = *e.ExternalID
		}
		data[i] = item
	}

	// Merging on (user_id, external_id) keeps retried syncs idempotent
	if _, err := r.client.Upsert(ctx, "food_entries", data, "user_id,external_id"); err != nil {
		return fmt.Errorf("failed to upsert food entries: %w", err)
	}

	return nil
}

func (r *foodRepository) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.FoodEntry, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(consumed_at.gte.%s,consumed_at.lte.%s)",
			start.Format(time.RFC3339), end.Format(time.RFC3339)),
		"select": "*",
		"order":  "consumed_at.asc",
	}

	body, err := r.client.Query(ctx, "food_entries", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get food entries: %w", err)
	}

	var entries []models.FoodEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return entries, nil
}
