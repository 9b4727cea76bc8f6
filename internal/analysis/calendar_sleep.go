package analysis

import (
	"fmt"

	"github.com/lunahealth/backend/internal/models"
)

const (
	earlyEventHour    = 9
	minEarlyEventDays = 3
	earlyEventGap     = 0.5
)

// analyzeCalendarSleep checks whether nights before early calendar events
// run shorter than the user's usual sleep. When the pattern holds it is
// emitted as a prediction, since upcoming early events are known ahead
// of time.
func analyzeCalendarSleep(actx *models.AnalysisContext) []models.Insight {
	sleepByDay := sleepHoursByDay(actx)
	if len(sleepByDay) < minSleepDays {
		return nil
	}

	allSleep := make([]float64, 0, len(sleepByDay))
	for _, h := range sleepByDay {
		allSleep = append(allSleep, h)
	}
	overallAvg := mean(allSleep)

	// Days with a timed event starting before 09:00 local
	earlyDays := make(map[string]bool)
	for _, e := range actx.Events {
		if e.IsAllDay {
			continue
		}
		if localHour(e.StartTime, actx.Timezone) < earlyEventHour {
			earlyDays[localDay(e.StartTime, actx.Timezone)] = true
		}
	}

	// Sleep is attributed to the wake-up day, which is the event day
	var beforeEarly []float64
	for day := range earlyDays {
		if hours, ok := sleepByDay[day]; ok {
			beforeEarly = append(beforeEarly, hours)
		}
	}

	if len(beforeEarly) < minEarlyEventDays {
		return nil
	}

	earlyAvg := mean(beforeEarly)
	if earlyAvg >= overallAvg-earlyEventGap {
		return nil
	}

	sample := len(beforeEarly)
	return []models.Insight{{
		Type:  models.InsightTypePrediction,
		Title: "Early meetings predict shorter sleep",
		Description: fmt.Sprintf(
			"Before events starting earlier than %d:00 you slept %.1f hours on average, %.1f hours below your usual %.1f. Expect shorter sleep ahead of your next early start.",
			earlyEventHour, earlyAvg, overallAvg-earlyAvg, overallAvg),
		Confidence:     confidence(sample),
		RelatedMetrics: []string{"sleep", "calendar"},
		Metadata: map[string]interface{}{
			"sample_size":      sample,
			"avg_before_early": earlyAvg,
			"avg_overall":      overallAvg,
		},
	}}
}
