package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunahealth/backend/internal/models"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			"bare array",
			`[{"a":1}]`,
			`[{"a":1}]`,
			true,
		},
		{
			"wrapped in prose",
			"Here are your insights:\n```json\n[{\"a\":1},{\"b\":2}]\n```\nHope that helps!",
			`[{"a":1},{"b":2}]`,
			true,
		},
		{
			"brackets inside strings",
			`[{"title":"sleep [hours] dropped"}]`,
			`[{"title":"sleep [hours] dropped"}]`,
			true,
		},
		{
			"escaped quote inside string",
			`[{"title":"she said \"hi\" ]"}]`,
			`[{"title":"she said \"hi\" ]"}]`,
			true,
		},
		{
			"nested arrays",
			`[{"related":["a","b"]}]`,
			`[{"related":["a","b"]}]`,
			true,
		},
		{"no array", "sorry, not enough data", "", false},
		{"unbalanced", `[{"a":1}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONArray(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInsightsValidates(t *testing.T) {
	text := `[
		{"type":"correlation","title":"A","description":"d","confidence":0.8,"related_metrics":["sleep"]},
		{"type":"horoscope","title":"B","description":"nope","confidence":0.9},
		{"type":"recommendation","title":"","description":"no title","confidence":0.5},
		{"type":"prediction","title":"C","description":"d","confidence":1.7}
	]`

	insights, err := parseInsights(text)
	require.NoError(t, err)
	require.Len(t, insights, 2)

	assert.Equal(t, models.InsightTypeCorrelation, insights[0].Type)
	assert.Equal(t, "A", insights[0].Title)
	// out-of-range confidence is clamped, not rejected
	assert.Equal(t, 1.0, insights[1].Confidence)
	assert.NotNil(t, insights[1].RelatedMetrics)
}

func TestParseInsightsRejectsGarbage(t *testing.T) {
	_, err := parseInsights("I could not find any patterns in your data.")
	assert.Error(t, err)

	_, err = parseInsights(`[{"type":"horoscope","title":"x"}]`)
	assert.Error(t, err)
}

func TestFallbackInsightShape(t *testing.T) {
	fb := fallbackInsight()
	assert.Equal(t, models.InsightTypeRecommendation, fb.Type)
	assert.NotEmpty(t, fb.Title)
	assert.GreaterOrEqual(t, fb.Confidence, 0.6)
	assert.LessOrEqual(t, fb.Confidence, 0.95)
}
