package analysis

import (
	"fmt"

	"github.com/lunahealth/backend/internal/models"
)

const (
	minSleepDays      = 5
	sleepGapHours     = 0.5
	shortSleepHours   = 6.0
	symptomDayShare   = 0.6
	minSymptomDaysAbs = 5
)

// analyzeSleepSymptoms looks for a relationship between sleep duration
// and each reported symptom. Two patterns are detected: sleeping notably
// less on symptom days than on clear days, and chronically short sleep
// paired with a symptom on most tracked days.
func analyzeSleepSymptoms(actx *models.AnalysisContext) []models.Insight {
	sleepByDay := sleepHoursByDay(actx)
	if len(sleepByDay) < minSleepDays {
		return nil
	}

	allSleep := make([]float64, 0, len(sleepByDay))
	for _, h := range sleepByDay {
		allSleep = append(allSleep, h)
	}
	overallAvg := mean(allSleep)

	symptoms := symptomDaysByName(actx)
	var out []models.Insight

	for _, name := range sortedKeys(symptoms) {
		days := symptoms[name]

		var onSymptom, onClear []float64
		for day, hours := range sleepByDay {
			if days[day] {
				onSymptom = append(onSymptom, hours)
			} else {
				onClear = append(onClear, hours)
			}
		}

		if len(onSymptom) >= minSleepDays && len(onClear) >= minSleepDays {
			gap := mean(onClear) - mean(onSymptom)
			if gap >= sleepGapHours {
				sample := len(onSymptom)
				out = append(out, models.Insight{
					Type:  models.InsightTypeCorrelation,
					Title: fmt.Sprintf("Less sleep on %s days", name),
					Description: fmt.Sprintf(
						"On days you reported %s you slept an average of %.1f hours, compared to %.1f hours on other days. The %.1f hour gap held across %d days.",
						name, mean(onSymptom), mean(onClear), gap, sample),
					Confidence:     confidence(sample),
					RelatedMetrics: []string{"sleep", name},
					Metadata: map[string]interface{}{
						"sample_size":       sample,
						"avg_symptom_sleep": mean(onSymptom),
						"avg_clear_sleep":   mean(onClear),
					},
				})
				continue
			}
		}

		if len(days) >= minSymptomDaysAbs &&
			overallAvg < shortSleepHours &&
			float64(len(days)) >= symptomDayShare*float64(len(sleepByDay)) {
			sample := len(days)
			out = append(out, models.Insight{
				Type:  models.InsightTypeCorrelation,
				Title: fmt.Sprintf("Short sleep may be driving your %s", name),
				Description: fmt.Sprintf(
					"You averaged %.1f hours of sleep and reported %s on %d of %d tracked days. Consistently sleeping under %.0f hours is a common trigger.",
					overallAvg, name, sample, len(sleepByDay), shortSleepHours),
				Confidence:     confidence(sample),
				RelatedMetrics: []string{"sleep", name},
				Metadata: map[string]interface{}{
					"sample_size":  sample,
					"avg_sleep":    overallAvg,
					"tracked_days": len(sleepByDay),
				},
			})
		}
	}

	return out
}
