package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/adapter"
	"ai-interview-platform/internal/domain/ports/repository"
	"ai-interview-platform/internal/infra/metrics"
	"ai-interview-platform/internal/prompt"
)

// Compile-time check
var _ FeedbackUseCase = (*feedbackUC)(nil)

type FeedbackUseCase interface {
	// Generate is the feedback-generation client: serialize the session
	// transcript, prompt the completion endpoint with the scoring prompt,
	// parse the structured ratings and persist them.
	Generate(ctx context.Context, s *model.Session) (*model.Feedback, error)
	FindByCandidate(ctx context.Context, interviewToken, candidateEmail string) (*model.Feedback, error)
	ListByInterview(ctx context.Context, interviewToken string) ([]*model.Feedback, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Feedback, error)
	// Delete removes one feedback record; the owner must match the owning
	// interview's recruiter.
	Delete(ctx context.Context, ownerID, id string) error
}

type feedbackUC struct {
	feedback   repository.FeedbackRepository
	interviews repository.InterviewRepository
	ai         adapter.CompletionAdapter
	notifier   adapter.Notifier // optional
	model      string
	log        *zerolog.Logger
}

func NewFeedbackUseCase(feedback repository.FeedbackRepository, interviews repository.InterviewRepository, ai adapter.CompletionAdapter, notifier adapter.Notifier, feedbackModel string, logger *zerolog.Logger) *feedbackUC {
	return &feedbackUC{feedback: feedback, interviews: interviews, ai: ai, notifier: notifier, model: feedbackModel, log: logger}
}

func (u *feedbackUC) Generate(ctx context.Context, s *model.Session) (*model.Feedback, error) {
	// Empty transcripts are rejected before calling the external service.
	if len(s.Transcript) == 0 {
		return nil, fmt.Errorf("empty transcript: %w", domain.ErrConfiguration)
	}

	conversation, err := json.Marshal(s.Transcript)
	if err != nil {
		return nil, fmt.Errorf("serialize transcript: %w", err)
	}
	final := prompt.Render(prompt.Feedback, map[string]string{
		"conversation": string(conversation),
	})

	if tokens, err := u.ai.CountTokens(ctx, u.model, []adapter.Message{{Role: "user", Content: final}}); err == nil {
		u.log.Debug().Int("prompt_tokens", tokens).Str("session", s.ID).Msg("feedback prompt sized")
	}

	start := time.Now()
	text, usage, err := u.ai.ChatWithUsage(ctx, u.model, []adapter.Message{{Role: "user", Content: final}})
	metrics.ObserveAICall("feedback", u.model, start, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, err == nil)
	if err != nil {
		return nil, fmt.Errorf("feedback generation: %v: %w", err, domain.ErrExternalService)
	}

	ratings, summary, recommendation, recommendationMsg, err := prompt.ParseFeedback(text)
	if err != nil {
		metrics.IncParseFailure("feedback")
		return nil, err
	}

	fb := &model.Feedback{
		ID:                ulid.Make().String(),
		InterviewToken:    s.InterviewToken,
		CandidateName:     s.CandidateName,
		CandidateEmail:    s.CandidateEmail,
		Ratings:           ratings,
		Summary:           summary,
		Recommendation:    recommendation,
		RecommendationMsg: recommendationMsg,
		CreatedAt:         time.Now(),
	}
	if err := u.feedback.Save(ctx, fb); err != nil {
		return nil, err
	}

	if u.notifier != nil {
		text := fmt.Sprintf("Feedback ready: %s (%s), %s, overall %d/10",
			s.CandidateName, s.CandidateEmail, fb.Recommendation, fb.Overall())
		if err := u.notifier.Notify(ctx, text); err != nil {
			u.log.Warn().Err(err).Msg("recruiter notification failed")
		}
	}
	return fb, nil
}

func (u *feedbackUC) FindByCandidate(ctx context.Context, interviewToken, candidateEmail string) (*model.Feedback, error) {
	if interviewToken == "" || candidateEmail == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.feedback.FindByCandidate(ctx, interviewToken, candidateEmail)
}

func (u *feedbackUC) ListByInterview(ctx context.Context, interviewToken string) ([]*model.Feedback, error) {
	return u.feedback.FindAllByInterview(ctx, interviewToken)
}

func (u *feedbackUC) ListByOwner(ctx context.Context, ownerID string) ([]*model.Feedback, error) {
	return u.feedback.FindAllByOwner(ctx, ownerID)
}

func (u *feedbackUC) Delete(ctx context.Context, ownerID, id string) error {
	fb, err := u.feedback.FindByID(ctx, id)
	if err != nil {
		return err
	}
	iv, err := u.interviews.FindByToken(ctx, fb.InterviewToken)
	if err != nil {
		return err
	}
	// Another recruiter's feedback is indistinguishable from a missing row.
	if iv.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	return u.feedback.Delete(ctx, id)
}
