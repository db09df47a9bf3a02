package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/adapter"
	"ai-interview-platform/internal/infra/worker"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memInterviewRepo is a small in-memory implementation used by unit tests.
type memInterviewRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Interview // map by Token
	saveErr error                       // used by tests to simulate save failures
}

func newMemInterviewRepo() *memInterviewRepo {
	return &memInterviewRepo{store: make(map[string]*model.Interview)}
}

func (m *memInterviewRepo) Save(ctx context.Context, iv *model.Interview) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *iv
	m.store[iv.Token] = &cp
	return nil
}

func (m *memInterviewRepo) FindByToken(ctx context.Context, token string) (*model.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	iv, ok := m.store[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *iv
	return &cp, nil
}

func (m *memInterviewRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Interview
	for _, iv := range m.store {
		if iv.OwnerID == ownerID {
			cp := *iv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memInterviewRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	all, _ := m.FindAllByOwner(ctx, ownerID)
	return len(all), nil
}

func (m *memInterviewRepo) Delete(ctx context.Context, ownerID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.store[token]
	if !ok || iv.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.store, token)
	return nil
}

// memFeedbackRepo keys feedback by (interview token, candidate email).
type memFeedbackRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Feedback // map by ID
	saveErr error
}

func newMemFeedbackRepo() *memFeedbackRepo {
	return &memFeedbackRepo{store: make(map[string]*model.Feedback)}
}

func (m *memFeedbackRepo) Save(ctx context.Context, fb *model.Feedback) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.InterviewToken == fb.InterviewToken && existing.CandidateEmail == fb.CandidateEmail && existing.ID != fb.ID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *fb
	m.store[fb.ID] = &cp
	return nil
}

func (m *memFeedbackRepo) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fb, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *fb
	return &cp, nil
}

func (m *memFeedbackRepo) FindByCandidate(ctx context.Context, interviewToken, candidateEmail string) (*model.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, fb := range m.store {
		if fb.InterviewToken == interviewToken && fb.CandidateEmail == candidateEmail {
			cp := *fb
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memFeedbackRepo) FindAllByInterview(ctx context.Context, interviewToken string) ([]*model.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Feedback
	for _, fb := range m.store {
		if fb.InterviewToken == interviewToken {
			cp := *fb
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFeedbackRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]*model.Feedback, error) {
	// Tests wire owner scoping through the interview repo when they need it;
	// here every stored row belongs to the single test owner.
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Feedback, 0, len(m.store))
	for _, fb := range m.store {
		cp := *fb
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFeedbackRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

type memSessionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{store: make(map[string]*model.Session)}
}

func (m *memSessionRepo) Save(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) FindAllByInterview(ctx context.Context, interviewToken string) ([]*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Session
	for _, s := range m.store {
		if s.InterviewToken == interviewToken {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeAI returns queued responses in order; the last one repeats.
type fakeAI struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeAI) ListModels(ctx context.Context) ([]string, error) { return []string{"fake"}, nil }

func (f *fakeAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: model}, nil
}

func (f *fakeAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(m.Content)
	}
	return n / 4, nil
}

func (f *fakeAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	text, _, err := f.ChatWithUsage(ctx, model, messages)
	return text, err
}

func (f *fakeAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}
	if f.err != nil {
		return "", adapter.Usage{}, f.err
	}
	if len(f.responses) == 0 {
		return "", adapter.Usage{}, domain.ErrExternalService
	}
	text := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return text, adapter.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}, nil
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeVoice records Start/Stop invocations for termination assertions.
type fakeVoice struct {
	mu       sync.Mutex
	startErr error
	stopErr  error
	starts   int
	stops    int
	lastCfg  adapter.CallConfig
}

func (f *fakeVoice) Start(ctx context.Context, cfg adapter.CallConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return "", f.startErr
	}
	f.starts++
	f.lastCfg = cfg
	return "call-1", nil
}

func (f *fakeVoice) Stop(ctx context.Context, callID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return f.stopErr
}

func (f *fakeVoice) SetMuted(ctx context.Context, callID string, muted bool) error { return nil }

func (f *fakeVoice) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// inlineQueue executes submitted tasks synchronously so tests stay
// deterministic.
type inlineQueue struct{}

func (inlineQueue) Submit(task worker.Task) error { return task(context.Background()) }

type memSnapshotCache struct {
	mu    sync.RWMutex
	store map[string]model.Session
}

func newMemSnapshotCache() *memSnapshotCache {
	return &memSnapshotCache{store: make(map[string]model.Session)}
}

func (m *memSnapshotCache) Store(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[s.ID] = *s
	return nil
}

func (m *memSnapshotCache) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := s
	return &cp, nil
}

func (m *memSnapshotCache) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, sessionID)
	return nil
}
