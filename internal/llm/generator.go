// Package llm generates insights and answers through a remote chat
// completion API. Unlike the heuristic engine its output is validated,
// never trusted: unparseable responses degrade to a fixed fallback or an
// error depending on configuration.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lunahealth/backend/internal/logger"
	"github.com/lunahealth/backend/internal/models"
	"github.com/lunahealth/backend/internal/repository"
)

// historyWindow is how far back the data prompt reaches.
const historyWindow = 30 * 24 * time.Hour

// chatClient is the slice of the OpenAI client the generator uses.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator produces LLM-sourced insights and free-text answers.
type Generator struct {
	client   chatClient
	model    string
	strict   bool
	insights repository.InsightRepository
	metrics  repository.MetricRepository
	logs     repository.LogRepository
	events   repository.CalendarRepository
	log      logger.Logger
	now      func() time.Time
}

// NewGenerator creates an LLM generator backed by the OpenAI API.
func NewGenerator(apiKey, model string, strict bool, insights repository.InsightRepository, metrics repository.MetricRepository, logs repository.LogRepository, events repository.CalendarRepository, log logger.Logger) *Generator {
	return &Generator{
		client:   openai.NewClient(apiKey),
		model:    model,
		strict:   strict,
		insights: insights,
		metrics:  metrics,
		logs:     logs,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

func (g *Generator) complete(ctx context.Context, userPrompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *Generator) buildPrompt(ctx context.Context, userID, question string) (string, error) {
	since := g.now().Add(-historyWindow)

	metrics, err := g.metrics.GetRecent(ctx, userID, since, maxPromptMetrics)
	if err != nil {
		return "", err
	}
	logs, err := g.logs.GetRecent(ctx, userID, since, maxPromptLogs)
	if err != nil {
		return "", err
	}
	events, err := g.events.GetRecent(ctx, userID, since, maxPromptEvents)
	if err != nil {
		return "", err
	}

	return buildDataPrompt(metrics, logs, events, question), nil
}

// GenerateInsights asks the model for an insight array over the user's
// recent data, validates it, and persists the result with llm provenance.
// In lenient mode an unusable response is replaced by the fixed fallback
// recommendation; strict mode surfaces the parse error instead.
func (g *Generator) GenerateInsights(ctx context.Context, userID string) ([]models.Insight, error) {
	prompt, err := g.buildPrompt(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	text, err := g.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := parseInsights(text)
	if err != nil {
		if g.strict {
			return nil, fmt.Errorf("strict parse rejected response: %w", err)
		}
		g.log.Warn("unparseable model response, using fallback insight",
			logger.String("user_id", userID),
			logger.Int("fallback_count", 1),
			logger.Err(err))
		parsed = []models.Insight{fallbackInsight()}
	}

	now := g.now()
	for i := range parsed {
		parsed[i].UserID = userID
		parsed[i].Source = models.InsightSourceLLM
		parsed[i].ComputedAt = now
	}

	if err := g.insights.CreateBatch(ctx, parsed); err != nil {
		return nil, err
	}

	return parsed, nil
}

// Ask answers a free-text question about the user's data. The completion
// text is returned verbatim; nothing is persisted.
func (g *Generator) Ask(ctx context.Context, userID, question string) (string, error) {
	prompt, err := g.buildPrompt(ctx, userID, question)
	if err != nil {
		return "", err
	}
	return g.complete(ctx, prompt)
}
