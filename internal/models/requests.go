package models

import "time"

// CreateLogRequest represents the request to create a manual log
type CreateLogRequest struct {
	LogType  LogType                `json:"log_type" binding:"required"`
	Value    string                 `json:"value" binding:"required"`
	Severity *int                   `json:"severity" binding:"omitempty,min=1,max=10"`
	LoggedAt time.Time              `json:"logged_at" binding:"required"`
	Notes    *string                `json:"notes"`
	Metadata map[string]interface{} `json:"metadata"`
}

// UpdateLogRequest represents the request to edit a manual log
type UpdateLogRequest struct {
	Value    *string                `json:"value"`
	Severity *int                   `json:"severity" binding:"omitempty,min=1,max=10"`
	LoggedAt *time.Time             `json:"logged_at"`
	Notes    *string                `json:"notes"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CreateMedicationLogRequest records one medication action
type CreateMedicationLogRequest struct {
	LoggedAt       time.Time `json:"logged_at" binding:"required"`
	TookMedication *bool     `json:"took_medication" binding:"required"`
	Notes          *string   `json:"notes"`
}

// IngestMetric is one device-recorded measurement in an ingest batch
type IngestMetric struct {
	MetricType MetricType             `json:"metric_type" binding:"required"`
	Value      float64                `json:"value"`
	Unit       string                 `json:"unit"`
	RecordedAt time.Time              `json:"recorded_at" binding:"required"`
	ExternalID *string                `json:"external_id"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// IngestMetricsRequest pushes a batch of device-side metrics (Apple
// Health style). When a replace window is given, the source's prior
// rows of the pushed types inside it are superseded.
type IngestMetricsRequest struct {
	Source       MetricSource   `json:"source" binding:"required"`
	ReplaceStart *time.Time     `json:"replace_start"`
	ReplaceEnd   *time.Time     `json:"replace_end"`
	Metrics      []IngestMetric `json:"metrics" binding:"required,min=1,dive"`
}

// ConnectIntegrationRequest carries OAuth tokens obtained by the client
type ConnectIntegrationRequest struct {
	AccessToken  string     `json:"access_token" binding:"required"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// AskRequest carries a free-text question for the LLM path
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// SyncResult summarizes one collector run
type SyncResult struct {
	Provider       string    `json:"provider"`
	MetricsWritten int       `json:"metrics_written"`
	FoodsWritten   int       `json:"foods_written"`
	EventsWritten  int       `json:"events_written"`
	SkippedSources []string  `json:"skipped_sources,omitempty"`
	SyncedAt       time.Time `json:"synced_at"`
}
