package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"ai-interview-platform/internal/config"
	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/adapter"
	"ai-interview-platform/internal/domain/ports/repository"
	"ai-interview-platform/internal/infra/logging"
	"ai-interview-platform/internal/infra/metrics"
	"ai-interview-platform/internal/infra/worker"
	"ai-interview-platform/internal/prompt"
)

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

type SessionUseCase interface {
	// Join creates a session for a candidate, starts the voice call and
	// registers the session in the live registry.
	Join(ctx context.Context, interviewToken, candidateName, candidateEmail string) (*model.Session, error)
	// Stop is the explicit user termination trigger. Calling it twice, or
	// after the call already ended, is a no-op.
	Stop(ctx context.Context, sessionID string) (*model.Session, error)
	SetMuted(ctx context.Context, sessionID string, muted bool) error
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	// ListByInterview returns the stored sessions for one interview so the
	// recruiter can review transcripts, newest first.
	ListByInterview(ctx context.Context, interviewToken string) ([]*model.Session, error)
	// HandleEvent routes one webhook event to its owning session. Events
	// for unknown sessions are dropped, not errors.
	HandleEvent(ctx context.Context, ev adapter.CallEvent) error
	// Shutdown terminates every live session before the process exits.
	Shutdown(ctx context.Context)
}

// SnapshotCache mirrors the latest session state for cheap status polling.
// Best-effort; every failure falls through to the in-process registry.
type SnapshotCache interface {
	Store(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// JobQueue decouples feedback generation from the webhook path.
type JobQueue interface {
	Submit(task worker.Task) error
}

// liveSession is one registry entry. Its mutex serializes all access to
// the wrapped Session, whose own methods are not goroutine safe.
type liveSession struct {
	mu          sync.Mutex
	s           *model.Session
	limitSecs   int
	cancelTimer context.CancelFunc
}

type sessionUC struct {
	mu   sync.Mutex
	live map[string]*liveSession

	interviews repository.InterviewRepository
	sessions   repository.SessionRepository
	feedback   FeedbackUseCase
	voice      adapter.VoiceCallAdapter
	cache      SnapshotCache
	jobs       JobQueue
	voiceCfg   config.VoiceConfig
	tick       time.Duration // watchdog resolution, one second in production
	log        *zerolog.Logger
}

func NewSessionUseCase(
	interviews repository.InterviewRepository,
	sessions repository.SessionRepository,
	feedback FeedbackUseCase,
	voice adapter.VoiceCallAdapter,
	cache SnapshotCache,
	jobs JobQueue,
	voiceCfg config.VoiceConfig,
	logger *zerolog.Logger,
) *sessionUC {
	return &sessionUC{
		live:       make(map[string]*liveSession),
		interviews: interviews,
		sessions:   sessions,
		feedback:   feedback,
		voice:      voice,
		cache:      cache,
		jobs:       jobs,
		voiceCfg:   voiceCfg,
		tick:       time.Second,
		log:        logger,
	}
}

func (u *sessionUC) Join(ctx context.Context, interviewToken, candidateName, candidateEmail string) (*model.Session, error) {
	if strings.TrimSpace(candidateName) == "" || strings.TrimSpace(candidateEmail) == "" {
		return nil, fmt.Errorf("candidate identity: %w", domain.ErrInvalidArgument)
	}
	iv, err := u.interviews.FindByToken(ctx, interviewToken)
	if err != nil {
		return nil, err
	}

	s := model.NewSession(ulid.Make().String(), iv.Token, candidateName, candidateEmail)

	// Candidate email is PII; only a preview ever reaches the logs.
	ctx = logging.WithInterview(ctx, iv.Token)
	ctx = logging.WithSessID(ctx, s.ID)
	ctx = logging.WithCandidate(ctx, logging.Redact(candidateEmail, false))
	log := logging.With(ctx, u.log)

	// A session without questions can never produce a meaningful call.
	if len(iv.Questions) == 0 {
		_ = s.Fail("interview has no questions")
		_ = s.CloseErrored()
		u.persist(ctx, s)
		return s, fmt.Errorf("interview %s has no questions: %w", iv.Token, domain.ErrConfiguration)
	}

	if err := s.BeginInitializing(); err != nil {
		return nil, err
	}

	callID, err := u.voice.Start(ctx, u.buildCallConfig(iv, s))
	if err != nil {
		_ = s.Fail("voice call start: " + err.Error())
		_ = s.CloseErrored()
		u.persist(ctx, s)
		metrics.IncTermination("error")
		metrics.IncSessionOutcome(string(s.Route))
		return s, fmt.Errorf("start voice call: %v: %w", err, domain.ErrExternalService)
	}
	if err := s.MarkConnecting(callID); err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.live[s.ID] = &liveSession{s: s, limitSecs: iv.DurationSeconds()}
	u.mu.Unlock()
	metrics.IncSessionsLive()

	u.persist(ctx, s)
	log.Info().
		Str("call_id", callID).Int("limit_seconds", iv.DurationSeconds()).
		Msg("session joined")
	return s, nil
}

func (u *sessionUC) buildCallConfig(iv *model.Interview, s *model.Session) adapter.CallConfig {
	texts := make([]string, 0, len(iv.Questions))
	for _, q := range iv.Questions {
		texts = append(texts, q.Text)
	}
	system := prompt.Render(prompt.Interviewer, map[string]string{
		"jobPosition": iv.JobPosition,
		"questions":   strings.Join(texts, ", "),
	})
	return adapter.CallConfig{
		AssistantName: u.voiceCfg.AssistantName,
		FirstMessage:  fmt.Sprintf("Hi %s, how are you? Ready for your interview on %s?", s.CandidateName, iv.JobPosition),
		Transcriber: adapter.CallTranscriber{
			Provider: u.voiceCfg.TranscriberProvider,
			Model:    u.voiceCfg.TranscriberModel,
			Language: u.voiceCfg.TranscriberLanguage,
		},
		Voice: adapter.CallVoice{
			Provider: u.voiceCfg.VoiceProvider,
			VoiceID:  u.voiceCfg.VoiceID,
		},
		Model: adapter.CallModel{
			Provider:     u.voiceCfg.ModelProvider,
			Model:        u.voiceCfg.Model,
			SystemPrompt: system,
		},
		MaxDurationSeconds: iv.DurationSeconds(),
		SessionID:          s.ID,
	}
}

func (u *sessionUC) Stop(ctx context.Context, sessionID string) (*model.Session, error) {
	if ls := u.lookup(sessionID); ls != nil {
		u.terminate(ctx, ls, "user")
		ls.mu.Lock()
		cp := *ls.s
		ls.mu.Unlock()
		return &cp, nil
	}
	// Already torn down: answer from the store so a repeated stop stays
	// idempotent instead of erroring.
	return u.sessions.FindByID(ctx, sessionID)
}

func (u *sessionUC) SetMuted(ctx context.Context, sessionID string, muted bool) error {
	ls := u.lookup(sessionID)
	if ls == nil {
		return domain.ErrNotFound
	}
	ls.mu.Lock()
	callID := ls.s.CallID
	ls.mu.Unlock()
	return u.voice.SetMuted(ctx, callID, muted)
}

func (u *sessionUC) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	if ls := u.lookup(sessionID); ls != nil {
		ls.mu.Lock()
		cp := *ls.s
		ls.mu.Unlock()
		return &cp, nil
	}
	if u.cache != nil {
		if s, err := u.cache.Get(ctx, sessionID); err == nil {
			return s, nil
		}
	}
	return u.sessions.FindByID(ctx, sessionID)
}

func (u *sessionUC) HandleEvent(ctx context.Context, ev adapter.CallEvent) error {
	defer logging.TraceDuration(u.log, "SessionUC.HandleEvent")()
	ctx = logging.WithSessID(ctx, ev.SessionID)

	ls := u.lookup(ev.SessionID)
	if ls == nil {
		logging.With(ctx, u.log).Warn().Str("type", string(ev.Type)).
			Msg("event for unknown session dropped")
		return nil
	}

	switch ev.Type {
	case adapter.EventCallStarted:
		ls.mu.Lock()
		err := ls.s.MarkLive()
		ls.mu.Unlock()
		if err != nil {
			// Duplicate call-start signals are noise, not failures.
			u.log.Debug().Str("session_id", ev.SessionID).Err(err).Msg("call-start ignored")
			return nil
		}
		u.startTimer(ls)
		u.snapshot(ctx, ls)

	case adapter.EventTranscript:
		ls.mu.Lock()
		ls.s.ReplaceTranscript(ev.Turns)
		ls.mu.Unlock()
		u.snapshot(ctx, ls)

	case adapter.EventSpeechStart:
		ls.mu.Lock()
		ls.s.SpeechStart()
		ls.mu.Unlock()

	case adapter.EventSpeechEnd:
		ls.mu.Lock()
		ls.s.SpeechEnd()
		ls.mu.Unlock()

	case adapter.EventCallEnded:
		u.terminate(ctx, ls, "sdk")

	case adapter.EventError:
		u.failSession(ctx, ls, ev.Reason)

	default:
		u.log.Debug().Str("type", string(ev.Type)).Msg("unhandled event type")
	}
	return nil
}

// startTimer runs the per-second duration watchdog. The goroutine exits
// when the limit fires, the timer context is cancelled, or the session
// leaves the live state.
func (u *sessionUC) startTimer(ls *liveSession) {
	tctx, cancel := context.WithCancel(context.Background())
	ls.mu.Lock()
	ls.cancelTimer = cancel
	limit := ls.limitSecs
	ls.mu.Unlock()

	go func() {
		ticker := time.NewTicker(u.tick)
		defer ticker.Stop()
		for {
			select {
			case <-tctx.Done():
				return
			case <-ticker.C:
				ls.mu.Lock()
				elapsed := ls.s.Tick()
				ended := ls.s.Ended()
				ls.mu.Unlock()
				if ended {
					return
				}
				if limit > 0 && elapsed >= limit {
					u.terminate(context.Background(), ls, "timeout")
					return
				}
			}
		}
	}()
}

// terminate is the unified termination path shared by user stop, duration
// timeout and the external call-ended signal. The state machine's ended
// guard makes every trigger after the first a no-op.
func (u *sessionUC) terminate(ctx context.Context, ls *liveSession, source string) {
	ls.mu.Lock()
	if err := ls.s.BeginEnding(); err != nil {
		ls.mu.Unlock()
		return
	}
	if ls.cancelTimer != nil {
		ls.cancelTimer()
	}
	callID := ls.s.CallID
	sessionID := ls.s.ID
	ls.mu.Unlock()

	metrics.IncTermination(source)

	if err := u.voice.Stop(ctx, callID); err != nil {
		u.log.Warn().Str("session_id", sessionID).Err(err).Msg("voice stop failed")
	}

	ls.mu.Lock()
	if err := ls.s.FinishEnding(); err != nil {
		ls.mu.Unlock()
		u.log.Error().Str("session_id", sessionID).Err(err).Msg("finish ending")
		return
	}
	state := ls.s.State
	cp := *ls.s
	ls.mu.Unlock()

	u.persist(ctx, &cp)

	if state == model.SessionDone {
		// Empty transcript: feedback is skipped and the candidate is
		// routed back to the dashboard.
		metrics.IncEmptyTranscript()
		metrics.IncSessionOutcome(string(cp.Route))
		u.unregister(sessionID)
		u.log.Info().Str("session_id", sessionID).Str("source", source).
			Msg("session ended with empty transcript")
		return
	}

	if err := u.jobs.Submit(func(jctx context.Context) error {
		return u.finishFeedback(jctx, ls)
	}); err != nil {
		// Queue saturated: degrade right away rather than leaving the
		// session stuck in feedback_pending.
		u.log.Error().Str("session_id", sessionID).Err(err).Msg("feedback job rejected")
		u.resolveFeedback(ctx, ls, false)
	}
}

// finishFeedback generates feedback for an ended session and resolves the
// terminal route. Generation failure degrades to the dashboard route.
func (u *sessionUC) finishFeedback(ctx context.Context, ls *liveSession) error {
	ls.mu.Lock()
	cp := *ls.s
	ls.mu.Unlock()

	_, err := u.feedback.Generate(ctx, &cp)
	if err != nil {
		u.log.Error().Str("session_id", cp.ID).Err(err).Msg("feedback generation failed")
	}
	u.resolveFeedback(ctx, ls, err == nil)
	return nil
}

func (u *sessionUC) resolveFeedback(ctx context.Context, ls *liveSession, ok bool) {
	ls.mu.Lock()
	if err := ls.s.CompleteFeedback(ok); err != nil {
		ls.mu.Unlock()
		return
	}
	cp := *ls.s
	ls.mu.Unlock()

	u.persist(ctx, &cp)
	metrics.IncSessionOutcome(string(cp.Route))
	u.unregister(cp.ID)
	u.log.Info().Str("session_id", cp.ID).Str("route", string(cp.Route)).
		Bool("feedback_ok", ok).Msg("session done")
}

// failSession handles the SDK error event: release the call, mark the
// session errored and resolve it to the error route.
func (u *sessionUC) failSession(ctx context.Context, ls *liveSession, reason string) {
	ls.mu.Lock()
	if ls.s.Ended() {
		ls.mu.Unlock()
		return
	}
	if err := ls.s.Fail(reason); err != nil {
		ls.mu.Unlock()
		return
	}
	if ls.cancelTimer != nil {
		ls.cancelTimer()
	}
	callID := ls.s.CallID
	ls.mu.Unlock()

	metrics.IncTermination("error")

	if callID != "" {
		if err := u.voice.Stop(ctx, callID); err != nil {
			u.log.Warn().Err(err).Msg("voice stop after error failed")
		}
	}

	ls.mu.Lock()
	_ = ls.s.CloseErrored()
	cp := *ls.s
	ls.mu.Unlock()

	u.persist(ctx, &cp)
	metrics.IncSessionOutcome(string(cp.Route))
	u.unregister(cp.ID)
	u.log.Error().Str("session_id", cp.ID).Str("reason", reason).Msg("session errored")
}

func (u *sessionUC) ListByInterview(ctx context.Context, interviewToken string) ([]*model.Session, error) {
	return u.sessions.FindAllByInterview(ctx, interviewToken)
}

func (u *sessionUC) Shutdown(ctx context.Context) {
	u.mu.Lock()
	all := make([]*liveSession, 0, len(u.live))
	for _, ls := range u.live {
		all = append(all, ls)
	}
	u.mu.Unlock()
	for _, ls := range all {
		u.terminate(ctx, ls, "shutdown")
	}
}

func (u *sessionUC) lookup(sessionID string) *liveSession {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.live[sessionID]
}

func (u *sessionUC) unregister(sessionID string) {
	u.mu.Lock()
	_, ok := u.live[sessionID]
	delete(u.live, sessionID)
	u.mu.Unlock()
	if ok {
		metrics.DecSessionsLive()
	}
}

// persist writes the session to the store and mirrors it into the cache.
// Both are best-effort from the caller's point of view; a failed write is
// logged, never surfaced to the candidate path.
func (u *sessionUC) persist(ctx context.Context, s *model.Session) {
	if err := u.sessions.Save(ctx, s); err != nil && !errors.Is(err, context.Canceled) {
		u.log.Error().Str("session_id", s.ID).Err(err).Msg("session save failed")
	}
	if u.cache != nil {
		if err := u.cache.Store(ctx, s); err != nil {
			u.log.Debug().Str("session_id", s.ID).Err(err).Msg("session cache store failed")
		}
	}
}

func (u *sessionUC) snapshot(ctx context.Context, ls *liveSession) {
	ls.mu.Lock()
	cp := *ls.s
	ls.mu.Unlock()
	if u.cache != nil {
		if err := u.cache.Store(ctx, &cp); err != nil {
			u.log.Debug().Str("session_id", cp.ID).Err(err).Msg("session cache store failed")
		}
	}
}
