package repository

import (
	"context"

	"ai-interview-platform/internal/domain/model"
)

// -----------------------------
// Interviews
// -----------------------------

type InterviewRepository interface {
	Save(ctx context.Context, iv *model.Interview) error
	// FindByToken is the public join-link lookup.
	FindByToken(ctx context.Context, token string) (*model.Interview, error)
	// FindAllByOwner returns the owner's interviews ordered by recency.
	FindAllByOwner(ctx context.Context, ownerID string) ([]*model.Interview, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Delete(ctx context.Context, ownerID, token string) error
}
