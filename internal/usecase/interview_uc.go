package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/adapter"
	"ai-interview-platform/internal/domain/ports/repository"
	"ai-interview-platform/internal/infra/metrics"
	"ai-interview-platform/internal/prompt"
)

// Compile-time check
var _ InterviewUseCase = (*interviewUC)(nil)

type GenerateInput struct {
	JobPosition    string
	JobDescription string
	Duration       string
	Types          []string
}

type InterviewUseCase interface {
	// GenerateQuestions is the question-generation client: prompt the
	// completion endpoint and parse its response into an ordered list.
	GenerateQuestions(ctx context.Context, in GenerateInput) ([]model.Question, error)
	Create(ctx context.Context, ownerID string, in GenerateInput, questions []model.Question) (*model.Interview, error)
	List(ctx context.Context, ownerID string) ([]*model.Interview, error)
	GetByToken(ctx context.Context, token string) (*model.Interview, error)
	Delete(ctx context.Context, ownerID, token string) error
	// Link renders the shareable candidate URL for an interview.
	Link(iv *model.Interview) string
}

type interviewUC struct {
	interviews repository.InterviewRepository
	ai         adapter.CompletionAdapter
	model      string
	baseURL    string
	log        *zerolog.Logger
}

func NewInterviewUseCase(interviews repository.InterviewRepository, ai adapter.CompletionAdapter, questionModel, baseURL string, logger *zerolog.Logger) *interviewUC {
	return &interviewUC{interviews: interviews, ai: ai, model: questionModel, baseURL: baseURL, log: logger}
}

func (u *interviewUC) GenerateQuestions(ctx context.Context, in GenerateInput) ([]model.Question, error) {
	// Fail fast on missing input; no network round-trip.
	if strings.TrimSpace(in.JobPosition) == "" || strings.TrimSpace(in.JobDescription) == "" ||
		strings.TrimSpace(in.Duration) == "" || len(in.Types) == 0 {
		return nil, fmt.Errorf("question generation input: %w", domain.ErrConfiguration)
	}

	final := prompt.Render(prompt.Questions, map[string]string{
		"jobTitle":       in.JobPosition,
		"jobDescription": in.JobDescription,
		"interviewType":  strings.Join(in.Types, ", "),
		"duration":       in.Duration,
	})

	start := time.Now()
	text, usage, err := u.ai.ChatWithUsage(ctx, u.model, []adapter.Message{{Role: "user", Content: final}})
	metrics.ObserveAICall("questions", u.model, start, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, err == nil)
	if err != nil {
		return nil, fmt.Errorf("question generation: %v: %w", err, domain.ErrExternalService)
	}

	questions, err := prompt.ParseQuestions(text)
	if err != nil {
		metrics.IncParseFailure("questions")
		// Explicit empty-list + error so the creation flow can warn
		// instead of breaking.
		return []model.Question{}, err
	}

	// Categories must be drawn from the requested types; drop strays.
	kept := questions[:0]
	for _, q := range questions {
		if containsFold(in.Types, q.Category) {
			kept = append(kept, q)
		} else {
			u.log.Warn().Str("category", q.Category).Msg("dropping question with unrequested category")
		}
	}

	if lo, hi := questionBand(in.Duration); len(kept) < lo || len(kept) > hi {
		u.log.Warn().
			Int("count", len(kept)).Int("band_min", lo).Int("band_max", hi).
			Str("duration", in.Duration).
			Msg("question count outside duration band")
	}
	return kept, nil
}

func (u *interviewUC) Create(ctx context.Context, ownerID string, in GenerateInput, questions []model.Question) (*model.Interview, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("interview without questions: %w", domain.ErrConfiguration)
	}
	iv := model.NewInterview(
		uuid.NewString(),
		uuid.NewString(),
		ownerID,
		in.JobPosition, in.JobDescription, in.Duration,
		in.Types, questions,
	)
	if err := u.interviews.Save(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

func (u *interviewUC) List(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	return u.interviews.FindAllByOwner(ctx, ownerID)
}

func (u *interviewUC) GetByToken(ctx context.Context, token string) (*model.Interview, error) {
	if token == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.interviews.FindByToken(ctx, token)
}

func (u *interviewUC) Delete(ctx context.Context, ownerID, token string) error {
	return u.interviews.Delete(ctx, ownerID, token)
}

func (u *interviewUC) Link(iv *model.Interview) string {
	return strings.TrimRight(u.baseURL, "/") + "/interview/" + iv.Token
}

// questionBand maps the configured duration to the documented question
// count band. Unknown durations scale linearly between the fixed points.
func questionBand(duration string) (int, int) {
	switch duration {
	case "5":
		return 2, 3
	case "15":
		return 4, 6
	case "30":
		return 6, 8
	case "45":
		return 8, 10
	case "60":
		return 10, 12
	}
	minutes, err := strconv.Atoi(duration)
	if err != nil || minutes <= 0 {
		return 2, 12
	}
	lo := minutes / 5
	if lo < 2 {
		lo = 2
	}
	hi := lo + 2
	if hi > 12 {
		hi = 12
	}
	return lo, hi
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
