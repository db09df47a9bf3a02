package model

import (
	"fmt"
	"time"

	"ai-interview-platform/internal/domain"
)

type SessionState string

const (
	SessionIdle            SessionState = "idle"
	SessionInitializing    SessionState = "initializing"
	SessionConnecting      SessionState = "connecting"
	SessionLive            SessionState = "live"
	SessionEnding          SessionState = "ending"
	SessionFeedbackPending SessionState = "feedback_pending"
	SessionDone            SessionState = "done"
	SessionErrored         SessionState = "errored"
)

// Route is the forward navigation target a terminal state resolves to.
// The session always routes somewhere; there is no stuck end state.
type Route string

const (
	RouteFeedback  Route = "feedback"
	RouteDashboard Route = "dashboard"
	RouteError     Route = "error"
)

const (
	RoleAgent     = "assistant"
	RoleCandidate = "user"
)

// Turn is one utterance in the session transcript. Ordering is slice order;
// turns are never mutated after append.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"content"`
}

// Session is one candidate's live attempt at an Interview. It owns the
// state machine for the call lifecycle. Methods are not goroutine safe;
// the owning registry serializes access.
type Session struct {
	ID             string
	InterviewToken string
	CandidateName  string
	CandidateEmail string

	State          SessionState
	Route          Route
	CallID         string
	StartedAt      time.Time
	ElapsedSeconds int
	Transcript     []Turn
	// AgentSpeaking mirrors the SDK's speech-start/speech-end signals.
	// Advisory only; never correctness-critical.
	AgentSpeaking bool
	// EmptyTranscript records the skip-feedback anomaly for an ended call
	// that produced no turns.
	EmptyTranscript bool
	FailureReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// ended is the single-shot termination guard. Whichever of explicit
	// stop, duration timeout, or the external call-ended signal fires
	// first performs teardown; the others are no-ops.
	ended bool
}

func NewSession(id, interviewToken, candidateName, candidateEmail string) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		InterviewToken: interviewToken,
		CandidateName:  candidateName,
		CandidateEmail: candidateEmail,
		State:          SessionIdle,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *Session) touch() { s.UpdatedAt = time.Now() }

// Ended reports whether the termination path has already been taken.
func (s *Session) Ended() bool { return s.ended }

// Terminal reports whether the state machine has finished for this session.
func (s *Session) Terminal() bool { return s.State == SessionDone }

// BeginInitializing moves Idle -> Initializing once session parameters and
// a non-empty question list are available.
func (s *Session) BeginInitializing() error {
	if s.State != SessionIdle {
		return fmt.Errorf("initialize from %s: %w", s.State, domain.ErrInvalidState)
	}
	s.State = SessionInitializing
	s.touch()
	return nil
}

// MarkConnecting moves Initializing -> Connecting after the voice client
// has been constructed and handed its call configuration.
func (s *Session) MarkConnecting(callID string) error {
	if s.State != SessionInitializing {
		return fmt.Errorf("connect from %s: %w", s.State, domain.ErrInvalidState)
	}
	s.CallID = callID
	s.State = SessionConnecting
	s.touch()
	return nil
}

// MarkLive reacts to the external "call started" signal. The elapsed
// counter starts at zero; the caller starts the per-second ticker.
func (s *Session) MarkLive() error {
	if s.State != SessionConnecting {
		return fmt.Errorf("go live from %s: %w", s.State, domain.ErrInvalidState)
	}
	s.State = SessionLive
	s.StartedAt = time.Now()
	s.ElapsedSeconds = 0
	s.touch()
	return nil
}

// Tick advances the elapsed counter by one second while Live and returns
// the new value. Outside Live it is a no-op.
func (s *Session) Tick() int {
	if s.State == SessionLive {
		s.ElapsedSeconds++
		s.touch()
	}
	return s.ElapsedSeconds
}

// ReplaceTranscript installs the latest full conversation snapshot from the
// SDK. Snapshots may arrive duplicated or reordered relative to other event
// types; replacement (never incremental diffing) keeps the stored transcript
// equal to the last snapshot delivered. Ignored once the session is terminal.
func (s *Session) ReplaceTranscript(turns []Turn) {
	if s.State == SessionDone || s.State == SessionErrored {
		return
	}
	s.Transcript = turns
	s.touch()
}

// SpeechStart/SpeechEnd toggle the speaking indicator. The SDK emits
// speech-start when the agent talks and speech-end when it yields the floor.
func (s *Session) SpeechStart() { s.AgentSpeaking = true; s.touch() }
func (s *Session) SpeechEnd()   { s.AgentSpeaking = false; s.touch() }

// BeginEnding takes the unified Live -> Ending path shared by explicit user
// termination, duration timeout, and the external call-ended signal.
// A second trigger returns ErrInvalidState and changes nothing.
func (s *Session) BeginEnding() error {
	if s.ended {
		return domain.ErrInvalidState
	}
	switch s.State {
	case SessionConnecting, SessionLive:
		s.ended = true
		s.State = SessionEnding
		s.touch()
		return nil
	default:
		return fmt.Errorf("end from %s: %w", s.State, domain.ErrInvalidState)
	}
}

// FinishEnding resolves Ending: a non-empty transcript moves to
// FeedbackPending; an empty one is a recorded anomaly and skips straight
// to Done with a dashboard route.
func (s *Session) FinishEnding() error {
	if s.State != SessionEnding {
		return fmt.Errorf("finish ending from %s: %w", s.State, domain.ErrInvalidState)
	}
	if len(s.Transcript) == 0 {
		s.EmptyTranscript = true
		s.State = SessionDone
		s.Route = RouteDashboard
	} else {
		s.State = SessionFeedbackPending
	}
	s.touch()
	return nil
}

// CompleteFeedback moves FeedbackPending -> Done. A successful generation
// routes to the feedback view; a failed one still routes forward to the
// dashboard so the session never hangs.
func (s *Session) CompleteFeedback(ok bool) error {
	if s.State != SessionFeedbackPending {
		return fmt.Errorf("complete feedback from %s: %w", s.State, domain.ErrInvalidState)
	}
	s.State = SessionDone
	if ok {
		s.Route = RouteFeedback
	} else {
		s.Route = RouteDashboard
	}
	s.touch()
	return nil
}

// Fail moves Initializing/Connecting/Live -> Errored with a reason.
func (s *Session) Fail(reason string) error {
	switch s.State {
	case SessionIdle, SessionInitializing, SessionConnecting, SessionLive:
		s.ended = true
		s.State = SessionErrored
		s.FailureReason = reason
		s.touch()
		return nil
	default:
		return fmt.Errorf("fail from %s: %w", s.State, domain.ErrInvalidState)
	}
}

// CloseErrored resolves Errored -> Done after resources are released,
// routing to the explicit error view as the safe fallback.
func (s *Session) CloseErrored() error {
	if s.State != SessionErrored {
		return fmt.Errorf("close errored from %s: %w", s.State, domain.ErrInvalidState)
	}
	s.State = SessionDone
	s.Route = RouteError
	s.touch()
	return nil
}
