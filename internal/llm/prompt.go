package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/lunahealth/backend/internal/models"
)

// Prompt size caps. The data prompt embeds at most this much history so
// one chatty month cannot blow past the context window.
const (
	maxPromptMetrics = 100
	maxPromptLogs    = 50
	maxPromptEvents  = 50
)

const systemPrompt = `You are a health data analyst for a personal health tracking app.
You receive a user's recent health data and produce insights.

An insight has one of three types:
- "correlation": two tracked signals that move together
- "prediction": an expected outcome based on an observed pattern
- "recommendation": a concrete, gentle suggestion

Rules:
- Base every statement strictly on the provided data.
- Never give medical advice, diagnoses, or medication guidance.
- When asked to produce insights, respond with ONLY a JSON array of objects
  with fields: type, title, description, confidence (0..1), related_metrics
  (array of strings). No prose around the array.`

func truncateMetrics(metrics []models.HealthMetric, max int) []models.HealthMetric {
	if len(metrics) > max {
		return metrics[len(metrics)-max:]
	}
	return metrics
}

// buildDataPrompt renders the user's recent data as compact lines. When a
// question is given it is appended; otherwise the model is asked for the
// insight array.
func buildDataPrompt(metrics []models.HealthMetric, logs []models.ManualLog, events []models.CalendarEvent, question string) string {
	var b strings.Builder

	b.WriteString("Recent health metrics:\n")
	if len(metrics) == 0 {
		b.WriteString("(none)\n")
	}
	for _, m := range truncateMetrics(metrics, maxPromptMetrics) {
		fmt.Fprintf(&b, "%s %s=%.2f %s (%s)\n",
			m.RecordedAt.Format(time.RFC3339), m.MetricType, m.Value, m.Unit, m.Source)
	}

	b.WriteString("\nManual logs:\n")
	if len(logs) == 0 {
		b.WriteString("(none)\n")
	}
	count := 0
	for _, l := range logs {
		if count >= maxPromptLogs {
			break
		}
		fmt.Fprintf(&b, "%s %s: %s", l.LoggedAt.Format(time.RFC3339), l.LogType, l.Value)
		if l.Severity != nil {
			fmt.Fprintf(&b, " (severity %d)", *l.Severity)
		}
		b.WriteString("\n")
		count++
	}

	b.WriteString("\nCalendar events:\n")
	if len(events) == 0 {
		b.WriteString("(none)\n")
	}
	count = 0
	for _, e := range events {
		if count >= maxPromptEvents {
			break
		}
		fmt.Fprintf(&b, "%s %q", e.StartTime.Format(time.RFC3339), e.Title)
		if e.IsAllDay {
			b.WriteString(" (all day)")
		}
		b.WriteString("\n")
		count++
	}

	if question != "" {
		b.WriteString("\nUser question: ")
		b.WriteString(question)
		b.WriteString("\nAnswer conversationally, grounded only in the data above.")
	} else {
		b.WriteString("\nProduce up to 5 insights as a JSON array.")
	}

	return b.String()
}
