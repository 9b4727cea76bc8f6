package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/pkg/supabase"
)

type metricRepository struct {
	client *supabase.Client
}

// NewMetricRepository creates a new health metric repository
func NewMetricRepository(client *supabase.Client) MetricRepository {
	return &metricRepository{client: client}
}

func (r *metricRepository) InsertBatch(ctx context.Context, metrics []models.HealthMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	data := make([]map[string]interface{}, len(metrics))
	for i, m := range metrics {
		// PostgREST requires all objects to have the same keys for bulk insert
		item := map[string]interface{}{
			"user_id":     m.UserID,
			"metric_type": m.MetricType,
			"value":       m.Value,
			"unit":        m.Unit,
			"source":      m.Source,
			"external_id": nil,
			"recorded_at": m.RecordedAt.Format(time.RFC3339),
			"metadata":    map[string]interface{}{},
		}
		if m.ExternalID != nil {
			item["external_id"] = *m.ExternalID
		}
		if len(m.Metadata) > 0 {
			item["metadata"] = m.Metadata
		}
		data[i] = item
	}

	if _, err := r.client.Insert(ctx, "health_metrics", data); err != nil {
		return fmt.Errorf("failed to insert metrics: %w", err)
	}

	return nil
}

func (r *metricRepository) DeleteInWindow(ctx context.Context, userID string, source models.MetricSource, types []models.MetricType, start, end time.Time) error {
	if len(types) == 0 {
		return nil
	}

	typeList := make([]string, len(types))
	for i, t := range types {
		typeList[i] = string(t)
	}

	query := map[string]interface{}{
		"user_id":     fmt.Sprintf("eq.%s", userID),
		"source":      fmt.Sprintf("eq.%s", source),
		"metric_type": fmt.Sprintf("in.(%s)", strings.Join(typeList, ",")),
		"and": fmt.Sprintf("(recorded_at.gte.%s,recorded_at.lte.%s)",
			start.Format(time.RFC3339), end.Format(time.RFC3339)),
	}

	if err := r.client.DeleteWhere(ctx, "health_metrics", query); err != nil {
		return fmt.Errorf("failed to delete metrics in window: %w", err)
	}

	return nil
}

func (r *metricRepository) GetByUserAndWindow(ctx context.Context, userID string, start, end time.Time) ([]models.HealthMetric, error) {
	query := map[string]interface{}{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and": fmt.Sprintf("(recorded_at.gte.%s,recorded_at.lte.%s)",
			start.Format(time.RFC3339), end.Format(time.RFC3339)),
		"select": "*",
		"order":  "recorded_at.asc",
	}

	body, err := r.client.Query(ctx, "health_metrics", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}

	var metrics []models.HealthMetric
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return metrics, nil
}

func (r *metricRepository) GetByUserAndType(ctx context.Context, userID string, metricType models.MetricType, start, end time.Time) ([]models.HealthMetric, error) {
	query := map[string]interface{}{
		"user_id":     fmt.Sprintf("eq.%s", userID),
		"metric_type": fmt.Sprintf("eq.%s", metricType),
		"and": fmt.Sprintf("(recorded_at.gte.%s,recorded_at.lte.%s)",
			start.Format(time.RFC3339), end.Format(time.RFC3339)),
		"select": "*",
		"order":  "recorded_at.asc",
	}

	body, err := r.client.Query(ctx, "health_metrics", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics by type: %w", err)
	}

	var metrics []models.HealthMetric
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return metrics, nil
}

func (r *metricRepository) GetRecent(ctx context.Context, userID string, since time.Time, limit int) ([]models.HealthMetric, error) {
	query := map[string]interface{}{
		"user_id":     fmt.Sprintf("eq.%s", userID),
		"recorded_at": fmt.Sprintf("gte.%s", since.Format(time.RFC3339)),
		"select":      "*",
		"order":       "recorded_at.desc",
		"limit":       limit,
	}

	body, err := r.client.Query(ctx, "health_metrics", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent metrics: %w", err)
	}

	var metrics []models.HealthMetric
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return metrics, nil
}
