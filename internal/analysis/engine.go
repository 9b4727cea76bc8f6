// Package analysis derives heuristic insights from an assembled analysis
// context. Every analyzer is a pure function of the context: same input,
// same insights, in the same order.
package analysis

import (
	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
)

type namedAnalyzer struct {
	name string
	run  func(*models.AnalysisContext) []models.Insight
}

// Engine runs the heuristic analyzers over one context.
type Engine struct {
	analyzers []namedAnalyzer
	log       logger.Logger
}

// NewEngine creates an engine with the full analyzer set.
func NewEngine(log logger.Logger) *Engine {
	return &Engine{
		analyzers: []namedAnalyzer{
			{"sleep_symptom", analyzeSleepSymptoms},
			{"caffeine", analyzeCaffeine},
			{"calendar_sleep", analyzeCalendarSleep},
			{"cycle", analyzeCycle},
			{"medication", analyzeMedication},
			{"weather", analyzeWeather},
		},
		log: log,
	}
}

// Analyze runs every analyzer and concatenates their insights. The result
// is never nil; a context with no detectable pattern yields an empty
// slice, which is a valid outcome, not an error.
func (e *Engine) Analyze(actx *models.AnalysisContext) []models.Insight {
	insights := []models.Insight{}
	for _, a := range e.analyzers {
		found := a.run(actx)
		for i := range found {
			found[i].UserID = actx.UserID
			found[i].Source = models.InsightSourceHeuristic
			if found[i].Metadata == nil {
				found[i].Metadata = map[string]interface{}{}
			}
			found[i].Metadata["analyzer"] = a.name
		}
		if len(found) > 0 {
			e.log.Debug("analyzer produced insights",
				logger.String("analyzer", a.name),
				logger.String("user_id", actx.UserID),
				logger.Int("count", len(found)))
		}
		insights = append(insights, found...)
	}
	return insights
}
