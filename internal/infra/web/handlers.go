package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/infra/redis"
	"ai-interview-platform/internal/usecase"
)

const (
	joinRateLimit  = 10
	joinRateWindow = time.Minute
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinel errors onto HTTP statuses without
// leaking internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, "Invalid request", http.StatusBadRequest)
	case errors.Is(err, domain.ErrConfiguration):
		http.Error(w, "Unprocessable request", http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrInvalidState):
		http.Error(w, "Conflict", http.StatusConflict)
	case errors.Is(err, domain.ErrExternalService):
		http.Error(w, "Upstream service unavailable", http.StatusBadGateway)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// ===== Auth =====

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !s.auth.Login(req.Email, req.Password) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if _, err := s.auth.Mint(w, req.Email); err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": req.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// ===== Recruiter: interviews =====

type generateRequest struct {
	JobPosition    string   `json:"job_position"`
	JobDescription string   `json:"job_description"`
	Duration       string   `json:"duration"`
	Types          []string `json:"types"`
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	questions, err := s.interviews.GenerateQuestions(r.Context(), usecase.GenerateInput{
		JobPosition:    req.JobPosition,
		JobDescription: req.JobDescription,
		Duration:       req.Duration,
		Types:          req.Types,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Questions []model.Question `json:"questions"`
	}{Questions: questions})
}

type createInterviewRequest struct {
	generateRequest
	Questions []model.Question `json:"questions"`
}

type interviewResponse struct {
	ID             string           `json:"id"`
	Token          string           `json:"token"`
	JobPosition    string           `json:"job_position"`
	JobDescription string           `json:"job_description"`
	Duration       string           `json:"duration"`
	Types          []string         `json:"types"`
	Questions      []model.Question `json:"questions"`
	Link           string           `json:"link"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (s *Server) interviewToResponse(iv *model.Interview) interviewResponse {
	return interviewResponse{
		ID:             iv.ID,
		Token:          iv.Token,
		JobPosition:    iv.JobPosition,
		JobDescription: iv.JobDescription,
		Duration:       iv.Duration,
		Types:          iv.Types,
		Questions:      iv.Questions,
		Link:           s.interviews.Link(iv),
		CreatedAt:      iv.CreatedAt,
	}
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req createInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	iv, err := s.interviews.Create(r.Context(), ownerFromCtx(r.Context()), usecase.GenerateInput{
		JobPosition:    req.JobPosition,
		JobDescription: req.JobDescription,
		Duration:       req.Duration,
		Types:          req.Types,
	}, req.Questions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.interviewToResponse(iv))
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	all, err := s.interviews.List(r.Context(), ownerFromCtx(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]interviewResponse, 0, len(all))
	for _, iv := range all {
		data = append(data, s.interviewToResponse(iv))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []interviewResponse `json:"data"`
	}{Data: data})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	iv, err := s.interviews.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}
	if iv.OwnerID != ownerFromCtx(r.Context()) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.interviewToResponse(iv))
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	if err := s.interviews.Delete(r.Context(), ownerFromCtx(r.Context()), chi.URLParam(r, "token")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Candidate surface =====

// handlePublicInterview serves the join page: enough to render the
// invitation, never the question texts.
func (s *Server) handlePublicInterview(w http.ResponseWriter, r *http.Request) {
	iv, err := s.interviews.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Token           string   `json:"token"`
		JobPosition     string   `json:"job_position"`
		DurationMinutes int      `json:"duration_minutes"`
		Types           []string `json:"types"`
		QuestionCount   int      `json:"question_count"`
	}{
		Token:           iv.Token,
		JobPosition:     iv.JobPosition,
		DurationMinutes: iv.DurationMinutes(),
		Types:           iv.Types,
		QuestionCount:   len(iv.Questions),
	})
}

type joinRequest struct {
	Token          string `json:"token"`
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
}

type sessionResponse struct {
	SessionID       string       `json:"session_id"`
	State           string       `json:"state"`
	Route           string       `json:"route,omitempty"`
	ElapsedSeconds  int          `json:"elapsed_seconds"`
	AgentSpeaking   bool         `json:"agent_speaking"`
	Transcript      []model.Turn `json:"transcript,omitempty"`
	EmptyTranscript bool         `json:"empty_transcript,omitempty"`
	FailureReason   string       `json:"failure_reason,omitempty"`
}

func sessionToResponse(s *model.Session) sessionResponse {
	return sessionResponse{
		SessionID:       s.ID,
		State:           string(s.State),
		Route:           string(s.Route),
		ElapsedSeconds:  s.ElapsedSeconds,
		AgentSpeaking:   s.AgentSpeaking,
		Transcript:      s.Transcript,
		EmptyTranscript: s.EmptyTranscript,
		FailureReason:   s.FailureReason,
	}
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		ok, err := s.limiter.Allow(r.Context(), redis.JoinKey(ip), joinRateLimit, joinRateWindow)
		if err != nil {
			s.log.Warn().Err(err).Msg("join rate limiter unavailable")
		} else if !ok {
			http.Error(w, "Too many join attempts", http.StatusTooManyRequests)
			return
		}
	}

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sess, err := s.sessions.Join(r.Context(), req.Token, req.CandidateName, req.CandidateEmail)
	if err != nil {
		// A failed join may still carry a routed session (e.g. config error
		// sends the candidate to the error view).
		if sess != nil {
			writeJSON(w, http.StatusUnprocessableEntity, sessionToResponse(sess))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

func (s *Server) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Stop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

type muteRequest struct {
	Muted bool `json:"muted"`
}

func (s *Server) handleSessionMute(w http.ResponseWriter, r *http.Request) {
	var req muteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.sessions.SetMuted(r.Context(), chi.URLParam(r, "id"), req.Muted); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInterviewSessions lists the stored sessions for one interview,
// transcript included, so the recruiter can review a call even when
// feedback generation was skipped or degraded.
func (s *Server) handleInterviewSessions(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	iv, err := s.interviews.GetByToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	if iv.OwnerID != ownerFromCtx(r.Context()) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	all, err := s.sessions.ListByInterview(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]sessionResponse, 0, len(all))
	for _, sess := range all {
		data = append(data, sessionToResponse(sess))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []sessionResponse `json:"data"`
	}{Data: data})
}

// ===== Feedback =====

type feedbackResponse struct {
	ID                string        `json:"id"`
	InterviewToken    string        `json:"interview_token"`
	CandidateName     string        `json:"candidate_name"`
	CandidateEmail    string        `json:"candidate_email"`
	Rating            model.Ratings `json:"rating"`
	Overall           int           `json:"overall"`
	Summary           string        `json:"summary"`
	Recommendation    string        `json:"recommendation"`
	RecommendationMsg string        `json:"recommendation_msg"`
	CreatedAt         time.Time     `json:"created_at"`
}

func feedbackToResponse(fb *model.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:                fb.ID,
		InterviewToken:    fb.InterviewToken,
		CandidateName:     fb.CandidateName,
		CandidateEmail:    fb.CandidateEmail,
		Rating:            fb.Ratings,
		Overall:           fb.Overall(),
		Summary:           fb.Summary,
		Recommendation:    string(fb.Recommendation),
		RecommendationMsg: fb.RecommendationMsg,
		CreatedAt:         fb.CreatedAt,
	}
}

// handleFeedbackLookup serves the candidate's own feedback view, keyed by
// the interview token plus the email they joined with.
func (s *Server) handleFeedbackLookup(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	email := r.URL.Query().Get("email")
	fb, err := s.feedback.FindByCandidate(r.Context(), token, email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbackToResponse(fb))
}

func (s *Server) handleInterviewFeedback(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	iv, err := s.interviews.GetByToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	if iv.OwnerID != ownerFromCtx(r.Context()) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	all, err := s.feedback.ListByInterview(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]feedbackResponse, 0, len(all))
	for _, fb := range all {
		data = append(data, feedbackToResponse(fb))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []feedbackResponse `json:"data"`
	}{Data: data})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	all, err := s.feedback.ListByOwner(r.Context(), ownerFromCtx(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]feedbackResponse, 0, len(all))
	for _, fb := range all {
		data = append(data, feedbackToResponse(fb))
	}
	writeJSON(w, http.StatusOK, struct {
		Data []feedbackResponse `json:"data"`
	}{Data: data})
}

func (s *Server) handleDeleteFeedback(w http.ResponseWriter, r *http.Request) {
	if err := s.feedback.Delete(r.Context(), ownerFromCtx(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Stats =====

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	totals, err := s.stats.Totals(r.Context(), ownerFromCtx(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleStatsExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="feedback.csv"`)
	if err := s.stats.ExportCSV(r.Context(), ownerFromCtx(r.Context()), w); err != nil {
		s.log.Error().Err(err).Msg("csv export failed")
	}
}
