package repository

import (
	"context"

	"ai-interview-platform/internal/domain/model"
)

// -----------------------------
// Feedback
// -----------------------------

type FeedbackRepository interface {
	Save(ctx context.Context, fb *model.Feedback) error
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	// FindByCandidate serves the per-candidate feedback view.
	FindByCandidate(ctx context.Context, interviewToken, candidateEmail string) (*model.Feedback, error)
	// FindAllByInterview serves the candidate list for one interview.
	FindAllByInterview(ctx context.Context, interviewToken string) ([]*model.Feedback, error)
	// FindAllByOwner serves the recruiter's feedback and analytics pages.
	FindAllByOwner(ctx context.Context, ownerID string) ([]*model.Feedback, error)
	Delete(ctx context.Context, id string) error
}
