package analysis

import (
	"sort"
	"strings"

	"github.com/lunahealth/backend/internal/models"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sleepHoursByDay sums sleep sessions per local day. A session is
// attributed to the day it ended, i.e. the morning the user woke up.
func sleepHoursByDay(actx *models.AnalysisContext) map[string]float64 {
	out := make(map[string]float64)
	for _, m := range actx.Metrics {
		if m.MetricType != models.MetricSleep {
			continue
		}
		out[localDay(m.RecordedAt, actx.Timezone)] += m.Value
	}
	return out
}

// symptomDaysByName groups symptom logs into sets of local days, keyed by
// the normalized symptom name.
func symptomDaysByName(actx *models.AnalysisContext) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, log := range actx.Logs {
		if log.LogType != models.LogSymptom {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(log.Value))
		if name == "" {
			continue
		}
		if out[name] == nil {
			out[name] = make(map[string]bool)
		}
		out[name][localDay(log.LoggedAt, actx.Timezone)] = true
	}
	return out
}

// allSymptomDays is the union of days with any symptom log.
func allSymptomDays(actx *models.AnalysisContext) map[string]bool {
	out := make(map[string]bool)
	for _, log := range actx.Logs {
		if log.LogType != models.LogSymptom {
			continue
		}
		out[localDay(log.LoggedAt, actx.Timezone)] = true
	}
	return out
}

// sortedKeys gives analyzers a stable iteration order so runs over the
// same context always emit the same insights in the same order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
