package llm

import (
	"encoding/json"
	"fmt"

	"github.com/lunahealth/backend/internal/models"
)

// ExtractJSONArray returns the first balanced top-level JSON array in s.
// Models routinely wrap their JSON in prose or code fences; this scan
// tolerates both. String literals and escapes are honored so brackets
// inside values do not unbalance the scan.
func ExtractJSONArray(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '[':
			if start < 0 {
				start = i
			}
			depth++
		case ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

type rawInsight struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Confidence     float64  `json:"confidence"`
	RelatedMetrics []string `json:"related_metrics"`
}

var validTypes = map[models.InsightType]bool{
	models.InsightTypeCorrelation:    true,
	models.InsightTypePrediction:     true,
	models.InsightTypeRecommendation: true,
}

// parseInsights decodes a model response into validated insights. Rows
// with an unknown type or an empty title are dropped; confidence is
// clamped into [0, 1]. An unusable response returns an error; lenient
// callers substitute the fallback.
func parseInsights(text string) ([]models.Insight, error) {
	raw, ok := ExtractJSONArray(text)
	if !ok {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var rows []rawInsight
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("failed to decode insight array: %w", err)
	}

	var out []models.Insight
	for _, r := range rows {
		t := models.InsightType(r.Type)
		if !validTypes[t] || r.Title == "" {
			continue
		}

		conf := r.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}

		related := r.RelatedMetrics
		if related == nil {
			related = []string{}
		}

		out = append(out, models.Insight{
			Type:           t,
			Title:          r.Title,
			Description:    r.Description,
			Confidence:     conf,
			RelatedMetrics: related,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("response contained no valid insights")
	}

	return out, nil
}

// fallbackInsight is what lenient mode serves when the model response is
// unusable. It is deliberately generic and low-stakes.
func fallbackInsight() models.Insight {
	return models.Insight{
		Type:  models.InsightTypeRecommendation,
		Title: "Keep your tracking streak going",
		Description: "There wasn't enough consistent data to generate personalized insights this time. " +
			"Logging sleep, meals, and symptoms daily gives the analysis more to work with.",
		Confidence:     0.6,
		RelatedMetrics: []string{},
	}
}
