package analysis

import (
	"fmt"

	"github.com/lunahealth/backend/internal/models"
)

const (
	minWeatherDays = 4
	pressureGapHPA = 3.0
)

// analyzeWeather compares barometric pressure on symptom days against
// clear days. Pressure swings are a documented migraine and joint pain
// trigger, so a consistent gap is worth surfacing.
func analyzeWeather(actx *models.AnalysisContext) []models.Insight {
	if len(actx.Weather) == 0 {
		return nil
	}

	pressureByDay := make(map[string]float64)
	for _, w := range actx.Weather {
		if w.PressureHPA > 0 {
			pressureByDay[w.Date] = w.PressureHPA
		}
	}

	symptomDays := allSymptomDays(actx)

	var onSymptom, onClear []float64
	for day, pressure := range pressureByDay {
		if symptomDays[day] {
			onSymptom = append(onSymptom, pressure)
		} else {
			onClear = append(onClear, pressure)
		}
	}

	if len(onSymptom) < minWeatherDays || len(onClear) < minWeatherDays {
		return nil
	}

	gap := mean(onClear) - mean(onSymptom)
	if gap < pressureGapHPA {
		return nil
	}

	sample := len(onSymptom)
	return []models.Insight{{
		Type:  models.InsightTypeCorrelation,
		Title: "Low-pressure days line up with your symptoms",
		Description: fmt.Sprintf(
			"Barometric pressure averaged %.0f hPa on days you reported symptoms, %.0f hPa lower than on clear days, across %d symptom days.",
			mean(onSymptom), gap, sample),
		Confidence:     confidence(sample),
		RelatedMetrics: []string{"weather", "symptoms"},
		Metadata: map[string]interface{}{
			"sample_size":          sample,
			"avg_symptom_pressure": mean(onSymptom),
			"avg_clear_pressure":   mean(onClear),
		},
	}}
}
