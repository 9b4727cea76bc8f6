package analysis

import (
	"fmt"
	"time"

	"github.com/lunahealth/backend/internal/models"
)

const (
	lateCaffeineHour   = 14
	minLateDays        = 5
	minCleanDays       = 3
	caffeineGapHours   = 0.5
	lateCaffeineShare  = 0.4
	minCaffeineEntries = 10
)

// analyzeCaffeine compares sleep on nights following afternoon caffeine
// against nights without it. Caffeine is detected from both manual
// caffeine logs and food entries flagged at ingestion.
func analyzeCaffeine(actx *models.AnalysisContext) []models.Insight {
	sleepByDay := sleepHoursByDay(actx)
	if len(sleepByDay) == 0 {
		return nil
	}

	// Days with caffeine, split by whether any intake was after 14:00
	caffeineDays := make(map[string]bool)
	lateDays := make(map[string]bool)
	totalIntakes, lateIntakes := 0, 0

	record := func(at time.Time) {
		day := localDay(at, actx.Timezone)
		caffeineDays[day] = true
		totalIntakes++
		if localHour(at, actx.Timezone) >= lateCaffeineHour {
			lateDays[day] = true
			lateIntakes++
		}
	}

	for _, f := range actx.Foods {
		if f.ContainsCaffeine {
			record(f.ConsumedAt)
		}
	}
	for _, l := range actx.Logs {
		if l.LogType == models.LogCaffeine {
			record(l.LoggedAt)
		}
	}

	if totalIntakes == 0 {
		return nil
	}

	// Sleep is attributed to the wake-up day, so the night after intake
	// day D is the sleep recorded on D+1
	var afterLate, afterClean []float64
	for day := range sleepByDay {
		t, err := time.ParseInLocation("2006-01-02", day, actx.Timezone)
		if err != nil {
			continue
		}
		intakeDay := t.AddDate(0, 0, -1).Format("2006-01-02")
		switch {
		case lateDays[intakeDay]:
			afterLate = append(afterLate, sleepByDay[day])
		case !caffeineDays[intakeDay]:
			afterClean = append(afterClean, sleepByDay[day])
		}
	}

	var out []models.Insight

	if len(afterLate) >= minLateDays && len(afterClean) >= minCleanDays {
		gap := mean(afterClean) - mean(afterLate)
		if gap >= caffeineGapHours {
			sample := len(afterLate)
			out = append(out, models.Insight{
				Type:  models.InsightTypeCorrelation,
				Title: "Afternoon caffeine is cutting into your sleep",
				Description: fmt.Sprintf(
					"After days with caffeine past %d:00 you slept %.1f hours on average, versus %.1f hours after caffeine-free days, across %d late-caffeine days.",
					lateCaffeineHour, mean(afterLate), mean(afterClean), sample),
				Confidence:     confidence(sample),
				RelatedMetrics: []string{"sleep", "caffeine"},
				Metadata: map[string]interface{}{
					"sample_size":     sample,
					"avg_after_late":  mean(afterLate),
					"avg_after_clean": mean(afterClean),
				},
			})
		}
	}

	if totalIntakes >= minCaffeineEntries &&
		float64(lateIntakes) > lateCaffeineShare*float64(totalIntakes) {
		out = append(out, models.Insight{
			Type:  models.InsightTypeRecommendation,
			Title: "Try moving caffeine earlier in the day",
			Description: fmt.Sprintf(
				"%d of your %d caffeine intakes were after %d:00. Shifting them to the morning gives caffeine time to clear before bed.",
				lateIntakes, totalIntakes, lateCaffeineHour),
			Confidence:     confidence(lateIntakes),
			RelatedMetrics: []string{"caffeine"},
			Metadata: map[string]interface{}{
				"late_intakes":  lateIntakes,
				"total_intakes": totalIntakes,
			},
		})
	}

	return out
}
