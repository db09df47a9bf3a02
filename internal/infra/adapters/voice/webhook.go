package voice

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/adapter"
)

// webhookEnvelope mirrors the Vapi server-message shape. Every event is
// wrapped in a top-level "message" object carrying its type, the call it
// belongs to, and type-specific fields.
type webhookEnvelope struct {
	Message struct {
		Type   string `json:"type"`
		Status string `json:"status"`
		Role   string `json:"role"`
		Error  string `json:"error"`
		Call   struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"call"`
		Conversation []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"conversation"`
	} `json:"message"`
}

// DecodeWebhook translates one raw webhook payload into the neutral
// CallEvent the session engine consumes. Payload types outside the call
// lifecycle (billing, logs) return a nil event and no error.
func DecodeWebhook(body []byte) (*adapter.CallEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("webhook payload: %v: %w", err, domain.ErrParse)
	}
	m := env.Message

	ev := &adapter.CallEvent{
		CallID:    m.Call.ID,
		SessionID: m.Call.Metadata["session_id"],
	}
	if ev.SessionID == "" {
		return nil, fmt.Errorf("webhook without session metadata: %w", domain.ErrInvalidArgument)
	}

	switch m.Type {
	case "status-update":
		switch m.Status {
		case "in-progress":
			ev.Type = adapter.EventCallStarted
		case "ended":
			ev.Type = adapter.EventCallEnded
		default:
			return nil, nil
		}
	case "speech-update":
		// Only the assistant's speech drives the indicator; the SDK also
		// reports candidate speech, which maps to the inverse signal.
		started := m.Status == "started"
		agent := strings.ToLower(m.Role) != "user"
		if agent == started {
			ev.Type = adapter.EventSpeechStart
		} else {
			ev.Type = adapter.EventSpeechEnd
		}
	case "conversation-update":
		ev.Type = adapter.EventTranscript
		turns := make([]model.Turn, 0, len(m.Conversation))
		for _, t := range m.Conversation {
			if strings.ToLower(t.Role) == "system" {
				continue
			}
			turns = append(turns, model.Turn{Role: t.Role, Text: t.Content})
		}
		ev.Turns = turns
	case "error":
		ev.Type = adapter.EventError
		ev.Reason = m.Error
	case "end-of-call-report":
		// transcript is already accumulated from conversation updates
		ev.Type = adapter.EventCallEnded
	default:
		return nil, nil
	}
	return ev, nil
}
