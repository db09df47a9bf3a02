package web

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/adapter"
	"ai-interview-platform/internal/usecase"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// Function-field fakes keep each test focused on one handler path.

type fakeInterviewUC struct {
	generateFn func(ctx context.Context, in usecase.GenerateInput) ([]model.Question, error)
	createFn   func(ctx context.Context, ownerID string, in usecase.GenerateInput, questions []model.Question) (*model.Interview, error)
	listFn     func(ctx context.Context, ownerID string) ([]*model.Interview, error)
	getFn      func(ctx context.Context, token string) (*model.Interview, error)
	deleteFn   func(ctx context.Context, ownerID, token string) error
}

func (f *fakeInterviewUC) GenerateQuestions(ctx context.Context, in usecase.GenerateInput) ([]model.Question, error) {
	if f.generateFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.generateFn(ctx, in)
}

func (f *fakeInterviewUC) Create(ctx context.Context, ownerID string, in usecase.GenerateInput, questions []model.Question) (*model.Interview, error) {
	if f.createFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.createFn(ctx, ownerID, in, questions)
}

func (f *fakeInterviewUC) List(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, ownerID)
}

func (f *fakeInterviewUC) GetByToken(ctx context.Context, token string) (*model.Interview, error) {
	if f.getFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getFn(ctx, token)
}

func (f *fakeInterviewUC) Delete(ctx context.Context, ownerID, token string) error {
	if f.deleteFn == nil {
		return domain.ErrNotFound
	}
	return f.deleteFn(ctx, ownerID, token)
}

func (f *fakeInterviewUC) Link(iv *model.Interview) string {
	return "https://hire.example.com/interview/" + iv.Token
}

type fakeSessionUC struct {
	mu      sync.Mutex
	joinFn  func(ctx context.Context, token, name, email string) (*model.Session, error)
	stopFn  func(ctx context.Context, id string) (*model.Session, error)
	getFn   func(ctx context.Context, id string) (*model.Session, error)
	muteFn  func(ctx context.Context, id string, muted bool) error
	listFn  func(ctx context.Context, token string) ([]*model.Session, error)
	events  []adapter.CallEvent
	eventFn func(ctx context.Context, ev adapter.CallEvent) error
}

func (f *fakeSessionUC) Join(ctx context.Context, token, name, email string) (*model.Session, error) {
	if f.joinFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.joinFn(ctx, token, name, email)
}

func (f *fakeSessionUC) Stop(ctx context.Context, id string) (*model.Session, error) {
	if f.stopFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.stopFn(ctx, id)
}

func (f *fakeSessionUC) SetMuted(ctx context.Context, id string, muted bool) error {
	if f.muteFn == nil {
		return nil
	}
	return f.muteFn(ctx, id, muted)
}

func (f *fakeSessionUC) Get(ctx context.Context, id string) (*model.Session, error) {
	if f.getFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getFn(ctx, id)
}

func (f *fakeSessionUC) ListByInterview(ctx context.Context, token string) ([]*model.Session, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, token)
}

func (f *fakeSessionUC) HandleEvent(ctx context.Context, ev adapter.CallEvent) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
	if f.eventFn != nil {
		return f.eventFn(ctx, ev)
	}
	return nil
}

func (f *fakeSessionUC) Shutdown(ctx context.Context) {}

func (f *fakeSessionUC) recordedEvents() []adapter.CallEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]adapter.CallEvent(nil), f.events...)
}

type fakeFeedbackUC struct {
	generateFn func(ctx context.Context, s *model.Session) (*model.Feedback, error)
	byCandFn   func(ctx context.Context, token, email string) (*model.Feedback, error)
	byIvFn     func(ctx context.Context, token string) ([]*model.Feedback, error)
	byOwnerFn  func(ctx context.Context, ownerID string) ([]*model.Feedback, error)
	deleteFn   func(ctx context.Context, ownerID, id string) error
}

func (f *fakeFeedbackUC) Generate(ctx context.Context, s *model.Session) (*model.Feedback, error) {
	if f.generateFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.generateFn(ctx, s)
}

func (f *fakeFeedbackUC) FindByCandidate(ctx context.Context, token, email string) (*model.Feedback, error) {
	if f.byCandFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.byCandFn(ctx, token, email)
}

func (f *fakeFeedbackUC) ListByInterview(ctx context.Context, token string) ([]*model.Feedback, error) {
	if f.byIvFn == nil {
		return nil, nil
	}
	return f.byIvFn(ctx, token)
}

func (f *fakeFeedbackUC) ListByOwner(ctx context.Context, ownerID string) ([]*model.Feedback, error) {
	if f.byOwnerFn == nil {
		return nil, nil
	}
	return f.byOwnerFn(ctx, ownerID)
}

func (f *fakeFeedbackUC) Delete(ctx context.Context, ownerID, id string) error {
	if f.deleteFn == nil {
		return domain.ErrNotFound
	}
	return f.deleteFn(ctx, ownerID, id)
}

type fakeStatsUC struct {
	totalsFn func(ctx context.Context, ownerID string) (*usecase.OwnerTotals, error)
	exportFn func(ctx context.Context, ownerID string, w io.Writer) error
}

func (f *fakeStatsUC) Totals(ctx context.Context, ownerID string) (*usecase.OwnerTotals, error) {
	if f.totalsFn == nil {
		return &usecase.OwnerTotals{}, nil
	}
	return f.totalsFn(ctx, ownerID)
}

func (f *fakeStatsUC) ExportCSV(ctx context.Context, ownerID string, w io.Writer) error {
	if f.exportFn == nil {
		return nil
	}
	return f.exportFn(ctx, ownerID, w)
}

type fakeLimiter struct {
	mu    sync.Mutex
	calls int
	allow bool
	err   error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.allow, f.err
}
