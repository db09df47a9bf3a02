package adapter

import (
	"context"

	"ai-interview-platform/internal/domain/model"
)

// CallTranscriber selects the speech-to-text layer of the voice call.
type CallTranscriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// CallVoice selects the synthesized interviewer voice.
type CallVoice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

// CallModel selects the LLM driving the conversation and carries the
// system instruction embedding every interview question in order.
type CallModel struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	SystemPrompt string `json:"-"`
}

// CallConfig is everything the voice SDK needs to run one interview call.
type CallConfig struct {
	AssistantName      string
	FirstMessage       string
	Transcriber        CallTranscriber
	Voice              CallVoice
	Model              CallModel
	MaxDurationSeconds int
	// SessionID is echoed back in webhook events so they can be routed
	// to the owning session.
	SessionID string
}

type EventType string

const (
	EventCallStarted EventType = "call-start"
	EventSpeechStart EventType = "speech-start"
	EventSpeechEnd   EventType = "speech-end"
	EventTranscript  EventType = "message"
	EventCallEnded   EventType = "call-end"
	EventError       EventType = "error"
)

// CallEvent is one asynchronous signal from the voice SDK. The SDK gives
// no ordering guarantee between event types; in particular call-end and a
// final transcript snapshot may race.
type CallEvent struct {
	Type      EventType
	SessionID string
	CallID    string
	// Turns is the full conversation snapshot carried by transcript
	// events; always a complete replacement, never a delta.
	Turns  []model.Turn
	Reason string
}

// VoiceCallAdapter is the port for the hosted voice-call SDK. Events
// produced by the SDK arrive out-of-band (webhook) as CallEvent values.
type VoiceCallAdapter interface {
	Start(ctx context.Context, cfg CallConfig) (callID string, err error)
	Stop(ctx context.Context, callID string) error
	SetMuted(ctx context.Context, callID string, muted bool) error
}
