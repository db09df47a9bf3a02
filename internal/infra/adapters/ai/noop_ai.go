package ai

import (
	"context"
	"strings"
	"time"

	"ai-interview-platform/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.CompletionAdapter for local/dev runs.
// It returns canned, parseable payloads instead of calling a provider, so
// the creation and feedback flows work end-to-end offline.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter {
	return &NoopAIAdapter{}
}

const noopQuestions = "```json\n" + `{
  "interviewQuestions": [
    {"question": "Tell me about a recent project you are proud of.", "type": "Experience"},
    {"question": "How would you design a rate limiter for a public API?", "type": "Technical"},
    {"question": "Walk me through debugging a production incident you handled.", "type": "Problem-Solving"}
  ]
}` + "\n```"

const noopFeedback = "```json\n" + `{
  "rating": {"technicalSkills": 7, "communication": 8, "problemSolving": 6, "experience": 7},
  "summary": "Canned development-mode assessment.",
  "Recommendation": "Hire",
  "RecommendationMsg": "Dev-mode canned recommendation."
}` + "\n```"

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	for _, m := range messages {
		if strings.Contains(m.Content, "interview assessor") {
			return noopFeedback, nil
		}
	}
	return noopQuestions, nil
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	text, err := a.Chat(ctx, model, messages)
	return text, adapter.Usage{}, err
}

func (a *NoopAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return CountTokensLocal(messages)
}

func (a *NoopAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{
		Name:        "noop-ai-model",
		Description: "Noop AI model for testing",
		MaxTokens:   1024,
		Supports:    []string{"chat", "completion"},
	}, nil
}

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-ai-model"}, nil
}
