package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type insightRepository struct {
	client *supabase.Client
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(client *supabase.Client) InsightRepository {
	return &insightRepository{client: client}
}

func (r *insightRepository) CreateBatch(ctx context.Context, insights []models.Insight) error {
	if len(insights) == 0 {
		return nil
	}

	data := make([]map[string]interface{}, len(insights))
	for i, insight := range insights {
		// PostgREST requires all objects to have the same keys for bulk insert
		item := map[string]interface{}{
			"user_id":         insight.UserID,
			"batch_id":        nil,
			"type":            insight.Type,
			"source":          insight.Source,
			"title":           insight.Title,
			"description":     insight.Description,
			"confidence":      insight.Confidence,
			"related_metrics": insight.RelatedMetrics,
			"metadata":        map[string]interface{}{},
			"computed_at":     insight.ComputedAt.Format(time.RFC3339),
		}
		if insight.BatchID != nil {
			item["batch_id"] = *insight.BatchID
		}
		if len(insight.Metadata) > 0 {
			item["metadata"] = insight.Metadata
		}
		data[i] = item
	}

	if _, err := r.client.Insert(ctx, "ai_insights", data); err != nil {
		return fmt.Errorf("failed to create insights: %w", err)
	}

	return nil
}

func (r *insightRepository) GetByBatchID(ctx context.Context, userID, batchID string) ([]models.Insight, error) {
	query := map[string]interface{}{
		"user_id":  fmt.Sprintf("eq.%s", userID),
		"batch_id": fmt.Sprintf("eq.%s", batchID),
		"select":   "*",
		"order":    "confidence.desc",
	}

	body, err := r.client.Query(ctx, "ai_insights", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights by batch: %w", err)
	}

	var insights []models.Insight
	if err := json.Unmarshal(body, &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return insights, nil
}

func (r *insightRepository) GetByUser(ctx context.Context, userID string, limit int) ([]models.Insight, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"order":   "computed_at.desc",
		"limit":   limit,
	}

	body, err := r.client.Query(ctx, "ai_insights", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}

	var insights []models.Insight
	if err := json.Unmarshal(body, &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return insights, nil
}

func (r *insightRepository) GetBySource(ctx context.Context, userID string, source models.InsightSource, limit int) ([]models.Insight, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"source":  fmt.Sprintf("eq.%s", source),
		"select":  "*",
		"order":   "computed_at.desc",
		"limit":   limit,
	}

	body, err := r.client.Query(ctx, "ai_insights", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights by source: %w", err)
	}

	var insights []models.Insight
	if err := json.Unmarshal(body, &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return insights, nil
}
