package models

import "time"

// InsightType represents the taxonomy of generated insights.
type InsightType string

const (
	InsightTypeCorrelation    InsightType = "correlation"
	InsightTypePrediction     InsightType = "prediction"
	InsightTypeRecommendation InsightType = "recommendation"
)

// InsightSource tags which pipeline produced an insight. Confidence
// values are not comparable across sources: heuristic confidences come
// from a documented formula, LLM confidences are model self-reported.
type InsightSource string

const (
	InsightSourceHeuristic InsightSource = "heuristic"
	InsightSourceLLM       InsightSource = "llm"
)

// Insight is a generated natural-language observation with an attached
// confidence score. Persisted append-only; consumed read-only.
type Insight struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"user_id"`
	BatchID        *string                `json:"batch_id,omitempty"`
	Type           InsightType            `json:"type"`
	Source         InsightSource          `json:"source"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Confidence     float64                `json:"confidence"` // 0..1, heuristic scalar
	RelatedMetrics []string               `json:"related_metrics"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	ComputedAt     time.Time              `json:"computed_at"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Window bounds one analysis run.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AnalysisContext is the ephemeral per-run aggregate of all data for one
// user over one window. Never persisted; rebuilt each run. Slices are
// never nil: an empty source yields an empty slice.
type AnalysisContext struct {
	UserID      string
	Window      Window
	Timezone    *time.Location
	Metrics     []HealthMetric
	Logs        []ManualLog
	Foods       []FoodEntry
	Events      []CalendarEvent
	Weather     []WeatherRecord
	Medications []MedicationLog
}

// InsightsResponse is the API response for the insights endpoint.
type InsightsResponse struct {
	Insights   []Insight `json:"insights"`
	ComputedAt time.Time `json:"computed_at"`
	Refreshed  bool      `json:"refreshed"`
}
