package analysis

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
)

func emptyContext(loc *time.Location) *models.AnalysisContext {
	now := time.Now()
	return &models.AnalysisContext{
		UserID:      "user-1",
		Window:      models.Window{Start: now.AddDate(0, 0, -30), End: now},
		Timezone:    loc,
		Metrics:     []models.HealthMetric{},
		Logs:        []models.ManualLog{},
		Foods:       []models.FoodEntry{},
		Events:      []models.CalendarEvent{},
		Weather:     []models.WeatherRecord{},
		Medications: []models.MedicationLog{},
	}
}

// shortSleepContext builds the canonical pattern: ten tracked days
// averaging 5.5 hours of sleep with headaches on eight of them.
func shortSleepContext(t *testing.T) *models.AnalysisContext {
	t.Helper()
	loc := time.UTC
	actx := emptyContext(loc)
	base := time.Date(2025, 3, 1, 7, 0, 0, 0, loc)

	for i := 0; i < 10; i++ {
		day := base.AddDate(0, 0, i)
		actx.Metrics = append(actx.Metrics, models.HealthMetric{
			UserID:     "user-1",
			MetricType: models.MetricSleep,
			Value:      5.5,
			Unit:       "hours",
			Source:     models.SourceFitbit,
			RecordedAt: day,
		})
		if i < 8 {
			actx.Logs = append(actx.Logs, models.ManualLog{
				UserID:   "user-1",
				LogType:  models.LogSymptom,
				Value:    "headache",
				LoggedAt: day.Add(8 * time.Hour),
			})
		}
	}
	return actx
}

func TestLocalHourBucketing(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatal(err)
	}

	// 2024-01-14T20:30Z is 2024-01-15T05:30 in Tokyo
	at := time.Date(2024, 1, 14, 20, 30, 0, 0, time.UTC)
	if got := localHour(at, tokyo); got != 5 {
		t.Errorf("localHour = %d, want 5", got)
	}
	if got := localDay(at, tokyo); got != "2024-01-15" {
		t.Errorf("localDay = %s, want 2024-01-15", got)
	}
	if got := localDay(at, time.UTC); got != "2024-01-14" {
		t.Errorf("localDay UTC = %s, want 2024-01-14", got)
	}
}

func TestConfidenceFormula(t *testing.T) {
	tests := []struct {
		sample int
		want   float64
	}{
		{0, 0.6},
		{1, 0.6},
		{2, 0.6},
		{3, 0.65},
		{8, 0.9},
		{9, 0.95},
		{20, 0.95},
	}
	for _, tt := range tests {
		if got := confidence(tt.sample); got != tt.want {
			t.Errorf("confidence(%d) = %v, want %v", tt.sample, got, tt.want)
		}
	}
}

func TestShortSleepHeadachePattern(t *testing.T) {
	engine := NewEngine(logger.Default())
	insights := engine.Analyze(shortSleepContext(t))

	var correlations []models.Insight
	for _, in := range insights {
		if in.Type == models.InsightTypeCorrelation {
			correlations = append(correlations, in)
		}
	}
	if len(correlations) != 1 {
		t.Fatalf("correlations = %d, want exactly 1: %+v", len(correlations), correlations)
	}

	c := correlations[0]
	wantMetrics := map[string]bool{"sleep": false, "headache": false}
	for _, m := range c.RelatedMetrics {
		if _, ok := wantMetrics[m]; ok {
			wantMetrics[m] = true
		}
	}
	for m, seen := range wantMetrics {
		if !seen {
			t.Errorf("related metrics %v missing %q", c.RelatedMetrics, m)
		}
	}

	// 8 symptom days: 0.5 + 8*0.05 = 0.9
	if c.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", c.Confidence)
	}
	if c.Source != models.InsightSourceHeuristic {
		t.Errorf("source = %s, want heuristic", c.Source)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	engine := NewEngine(logger.Default())
	actx := shortSleepContext(t)

	// second symptom to force map-ordered analyzer internals
	for i := 0; i < 6; i++ {
		actx.Logs = append(actx.Logs, models.ManualLog{
			LogType:  models.LogSymptom,
			Value:    "fatigue",
			LoggedAt: time.Date(2025, 3, 1+i, 15, 0, 0, 0, time.UTC),
		})
	}

	first := engine.Analyze(actx)
	for i := 0; i < 5; i++ {
		again := engine.Analyze(actx)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestAnalyzeEmptyContext(t *testing.T) {
	engine := NewEngine(logger.Default())
	insights := engine.Analyze(emptyContext(time.UTC))
	if insights == nil {
		t.Fatal("insights must be empty, not nil")
	}
	if len(insights) != 0 {
		t.Errorf("empty context produced %d insights", len(insights))
	}
}

func TestSleepSymptomGapBranch(t *testing.T) {
	loc := time.UTC
	actx := emptyContext(loc)
	base := time.Date(2025, 3, 1, 7, 0, 0, 0, loc)

	// 12 days: 6 migraine days at 5.8h, 6 clear days at 7.5h
	for i := 0; i < 12; i++ {
		day := base.AddDate(0, 0, i)
		hours := 7.5
		if i%2 == 0 {
			hours = 5.8
			actx.Logs = append(actx.Logs, models.ManualLog{
				LogType:  models.LogSymptom,
				Value:    "migraine",
				LoggedAt: day.Add(10 * time.Hour),
			})
		}
		actx.Metrics = append(actx.Metrics, models.HealthMetric{
			MetricType: models.MetricSleep,
			Value:      hours,
			RecordedAt: day,
		})
	}

	insights := analyzeSleepSymptoms(actx)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	if insights[0].Type != models.InsightTypeCorrelation {
		t.Errorf("type = %s, want correlation", insights[0].Type)
	}
	// 6 symptom days: 0.5 + 6*0.05 = 0.8
	if insights[0].Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", insights[0].Confidence)
	}
}

func TestCaffeineFollowingNightSleep(t *testing.T) {
	loc := time.UTC
	actx := emptyContext(loc)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)

	// 14 days of sleep; late caffeine on the first 6 days shortens the
	// following night
	for i := 0; i < 14; i++ {
		day := base.AddDate(0, 0, i)
		hours := 7.5
		if i >= 1 && i <= 6 {
			hours = 6.2 // night after a late-caffeine day
		}
		actx.Metrics = append(actx.Metrics, models.HealthMetric{
			MetricType: models.MetricSleep,
			Value:      hours,
			RecordedAt: day.Add(7 * time.Hour),
		})
		if i < 6 {
			actx.Foods = append(actx.Foods, models.FoodEntry{
				Name:             "Espresso",
				ContainsCaffeine: true,
				ConsumedAt:       day.Add(16 * time.Hour), // 16:00 local
			})
		}
	}

	insights := analyzeCaffeine(actx)
	found := false
	for _, in := range insights {
		if in.Type == models.InsightTypeCorrelation {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a caffeine correlation, got %+v", insights)
	}
}

func TestCyclePhaseTagging(t *testing.T) {
	loc := time.UTC
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, loc)

	tests := []struct {
		offsetDays int
		want       CyclePhase
	}{
		{0, PhaseMenstruation},
		{4, PhaseMenstruation},
		{5, PhaseFollicular},
		{12, PhaseFollicular},
		{13, PhaseOvulation},
		{15, PhaseOvulation},
		{16, PhaseLuteal},
		{27, PhaseLuteal},
		{28, PhaseMenstruation}, // next cycle wraps
	}
	for _, tt := range tests {
		at := start.AddDate(0, 0, tt.offsetDays)
		phase, ok := TagPhase(at, start, loc)
		if !ok {
			t.Fatalf("day +%d: no phase", tt.offsetDays)
		}
		if phase != tt.want {
			t.Errorf("day +%d: phase = %s, want %s", tt.offsetDays, phase, tt.want)
		}
	}

	if _, ok := TagPhase(start.AddDate(0, 0, -1), start, loc); ok {
		t.Error("days before cycle start must have no phase")
	}
}

func TestCycleSymptomClustering(t *testing.T) {
	loc := time.UTC
	actx := emptyContext(loc)
	cycleStart := time.Date(2025, 3, 1, 8, 0, 0, 0, loc)
	actx.Window = models.Window{Start: cycleStart, End: cycleStart.AddDate(0, 0, 27)}

	actx.Logs = append(actx.Logs, models.ManualLog{
		LogType:  models.LogCycle,
		Value:    "period_start",
		LoggedAt: cycleStart,
	})
	// cramps on four menstruation days, nothing elsewhere
	for i := 0; i < 4; i++ {
		actx.Logs = append(actx.Logs, models.ManualLog{
			LogType:  models.LogSymptom,
			Value:    "cramps",
			LoggedAt: cycleStart.AddDate(0, 0, i),
		})
	}

	insights := analyzeCycle(actx)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	if insights[0].Metadata["phase"] != string(PhaseMenstruation) {
		t.Errorf("phase = %v, want menstruation", insights[0].Metadata["phase"])
	}
}

func TestMedicationAdherenceDrop(t *testing.T) {
	loc := time.UTC
	actx := emptyContext(loc)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, loc)

	// first 7 days all taken, last 7 days mostly skipped
	for i := 0; i < 14; i++ {
		actx.Medications = append(actx.Medications, models.MedicationLog{
			LoggedAt:       base.AddDate(0, 0, i),
			TookMedication: i < 7 || i%3 == 0,
		})
	}

	insights := analyzeMedication(actx)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	if insights[0].Type != models.InsightTypeRecommendation {
		t.Errorf("type = %s, want recommendation", insights[0].Type)
	}
}

func TestWeatherPressureCorrelation(t *testing.T) {
	loc := time.UTC
	actx := emptyContext(loc)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)

	for i := 0; i < 10; i++ {
		day := base.AddDate(0, 0, i)
		pressure := 1015.0
		if i < 5 {
			pressure = 1004.0
			actx.Logs = append(actx.Logs, models.ManualLog{
				LogType:  models.LogSymptom,
				Value:    "joint pain",
				LoggedAt: day.Add(12 * time.Hour),
			})
		}
		actx.Weather = append(actx.Weather, models.WeatherRecord{
			Date:        fmt.Sprintf("2025-03-%02d", i+1),
			PressureHPA: pressure,
		})
	}

	insights := analyzeWeather(actx)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	if insights[0].Confidence != confidence(5) {
		t.Errorf("confidence = %v, want %v", insights[0].Confidence, confidence(5))
	}
}
