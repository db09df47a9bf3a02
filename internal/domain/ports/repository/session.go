package repository

import (
	"context"

	"ai-interview-platform/internal/domain/model"
)

// -----------------------------
// Sessions
// -----------------------------

// SessionRepository persists finished sessions (transcript + terminal
// state). Live sessions exist only in the in-process registry.
type SessionRepository interface {
	Save(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	FindAllByInterview(ctx context.Context, interviewToken string) ([]*model.Session, error)
}
