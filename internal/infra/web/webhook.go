package web

import (
	"crypto/subtle"
	"io"
	"net/http"

	"ai-interview-platform/internal/infra/adapters/voice"
)

// handleVoiceWebhook is the server-side event source for live sessions:
// the voice provider posts call lifecycle events here and they are routed
// to the owning session's state machine.
func (s *Server) handleVoiceWebhook(w http.ResponseWriter, r *http.Request) {
	if s.webhookSecret != "" {
		got := r.Header.Get("X-Vapi-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.webhookSecret)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ev, err := voice.DecodeWebhook(body)
	if err != nil {
		s.log.Warn().Err(err).Msg("undecodable voice webhook")
		http.Error(w, "Invalid webhook payload", http.StatusBadRequest)
		return
	}
	if ev == nil {
		// Event types we don't consume; acknowledged so the provider
		// doesn't retry.
		writeJSON(w, http.StatusOK, map[string]bool{"ignored": true})
		return
	}

	if err := s.sessions.HandleEvent(r.Context(), *ev); err != nil {
		s.log.Error().Err(err).Str("type", string(ev.Type)).Msg("webhook event handling failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
