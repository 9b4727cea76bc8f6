package models

import "time"

// MetricType identifies a quantitative health measurement kind.
type MetricType string

const (
	MetricSteps            MetricType = "steps"
	MetricHeartRate        MetricType = "heart_rate"
	MetricRestingHeartRate MetricType = "resting_heart_rate"
	MetricHRV              MetricType = "hrv"
	MetricSleep            MetricType = "sleep"
	MetricWeight           MetricType = "weight"
	MetricActiveCalories   MetricType = "active_calories"
	MetricCaloriesBurned   MetricType = "calories_burned"
	MetricCaloriesConsumed MetricType = "calories_consumed"
)

// MetricSource identifies where a metric row came from.
type MetricSource string

const (
	SourceFitbit      MetricSource = "fitbit"
	SourceAppleHealth MetricSource = "apple_health"
	SourceManual      MetricSource = "manual"
)

// HealthMetric is a single quantitative health measurement. Rows are
// append-only per sync; a sync run for a (user, source, type, day)
// supersedes that day's prior rows.
type HealthMetric struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	MetricType MetricType             `json:"metric_type"`
	Value      float64                `json:"value"`
	Unit       string                 `json:"unit"`
	Source     MetricSource           `json:"source"`
	ExternalID *string                `json:"external_id,omitempty"`
	RecordedAt time.Time              `json:"recorded_at"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// LogType identifies a user-entered record kind.
type LogType string

const (
	LogSymptom      LogType = "symptom"
	LogBristolStool LogType = "bristol_stool"
	LogCaffeine     LogType = "caffeine"
	LogExercise     LogType = "exercise"
	LogSupplement   LogType = "supplement"
	LogMedication   LogType = "medication"
	LogWeight       LogType = "weight"
	LogCycle        LogType = "cycle"
	LogCustom       LogType = "custom"
)

// ManualLog is a user-entered qualitative or semi-quantitative record.
// Value encoding depends on the log type (sometimes JSON-in-string).
type ManualLog struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	LogType   LogType                `json:"log_type"`
	Value     string                 `json:"value"`
	Severity  *int                   `json:"severity,omitempty"` // 1-10
	LoggedAt  time.Time              `json:"logged_at"`
	Notes     *string                `json:"notes,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// FoodEntry is a nutrition record with ingredient flags derived by
// keyword matching at ingestion time.
type FoodEntry struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	Name             string       `json:"name"`
	Brand            *string      `json:"brand,omitempty"`
	Calories         float64      `json:"calories"`
	Protein          float64      `json:"protein"`
	Carbs            float64      `json:"carbs"`
	Fat              float64      `json:"fat"`
	Fiber            float64      `json:"fiber"`
	Sodium           float64      `json:"sodium"`
	Sugar            float64      `json:"sugar"`
	ContainsDairy    bool         `json:"contains_dairy"`
	ContainsGluten   bool         `json:"contains_gluten"`
	ContainsCaffeine bool         `json:"contains_caffeine"`
	Source           MetricSource `json:"source"`
	ExternalID       *string      `json:"external_id,omitempty"`
	ConsumedAt       time.Time    `json:"consumed_at"`
	CreatedAt        time.Time    `json:"created_at"`
}

// CalendarEvent is sourced from an external calendar and read-only to
// the analysis engine.
type CalendarEvent struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	EventType  *string    `json:"event_type,omitempty"`
	IsAllDay   bool       `json:"is_all_day"`
	ExternalID *string    `json:"external_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// WeatherRecord holds daily weather aggregates, upserted once per day
// per user location.
type WeatherRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Date            string    `json:"date"` // YYYY-MM-DD
	TemperatureHigh float64   `json:"temperature_high"`
	TemperatureLow  float64   `json:"temperature_low"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	HumidityAvg     float64   `json:"humidity_avg"`
	PressureHPA     float64   `json:"pressure_hpa"`
	WeatherCode     int       `json:"weather_code"`
	CreatedAt       time.Time `json:"created_at"`
}

// MedicationLog records one took/skipped medication action.
type MedicationLog struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	LoggedAt       time.Time `json:"logged_at"`
	TookMedication bool      `json:"took_medication"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Integration is the per (user, provider) connection state.
type Integration struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Provider       string     `json:"provider"`
	IsConnected    bool       `json:"is_connected"`
	AccessToken    string     `json:"access_token,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Profile carries the per-user settings the pipeline needs, most
// importantly the IANA timezone all bucketing is done in.
type Profile struct {
	ID        string   `json:"id"`
	Timezone  string   `json:"timezone"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
