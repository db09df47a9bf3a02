package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ai-interview-platform/internal/infra/logging"
	"ai-interview-platform/internal/usecase"
)

// joinLimiter caps candidate joins per source IP. Satisfied by the redis
// rate limiter; nil disables limiting (dev mode).
type joinLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	interviews usecase.InterviewUseCase
	sessions   usecase.SessionUseCase
	feedback   usecase.FeedbackUseCase
	stats      usecase.StatsUseCase

	auth          *AuthManager
	limiter       joinLimiter
	webhookSecret string
	log           *zerolog.Logger
}

func NewServer(
	interviews usecase.InterviewUseCase,
	sessions usecase.SessionUseCase,
	feedback usecase.FeedbackUseCase,
	stats usecase.StatsUseCase,
	auth *AuthManager,
	limiter joinLimiter,
	webhookSecret string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		interviews:    interviews,
		sessions:      sessions,
		feedback:      feedback,
		stats:         stats,
		auth:          auth,
		limiter:       limiter,
		webhookSecret: webhookSecret,
		log:           logger,
	}
}

// Router builds the full route tree: public candidate endpoints, the
// webhook sink, and the cookie-gated recruiter API.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhooks/voice", s.handleVoiceWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		// Candidate surface: anyone holding an interview link.
		r.Get("/interviews/{token}/public", s.handlePublicInterview)
		r.Post("/sessions", s.handleJoin)
		r.Get("/sessions/{id}", s.handleSessionStatus)
		r.Post("/sessions/{id}/stop", s.handleSessionStop)
		r.Post("/sessions/{id}/mute", s.handleSessionMute)
		r.Get("/feedback/lookup", s.handleFeedbackLookup)

		// Recruiter surface.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/interviews/generate", s.handleGenerateQuestions)
			r.Post("/interviews", s.handleCreateInterview)
			r.Get("/interviews", s.handleListInterviews)
			r.Get("/interviews/{token}", s.handleGetInterview)
			r.Delete("/interviews/{token}", s.handleDeleteInterview)
			r.Get("/interviews/{token}/sessions", s.handleInterviewSessions)
			r.Get("/interviews/{token}/feedback", s.handleInterviewFeedback)
			r.Get("/feedback", s.handleListFeedback)
			r.Delete("/feedback/{id}", s.handleDeleteFeedback)
			r.Get("/stats", s.handleStats)
			r.Get("/stats/export", s.handleStatsExport)
		})
	})
	return r
}

// requestLogger stamps the chi request id into the context as the trace
// id, so every log line downstream (handlers, usecases, session engine)
// correlates back to the request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithTraceID(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
