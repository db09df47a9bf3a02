package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-interview-platform/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.VoiceCallAdapter = (*VapiAdapter)(nil)

// VapiAdapter implements adapter.VoiceCallAdapter against the Vapi REST
// API. There is no official Go SDK; this is a plain HTTP client.
// Authorization: Bearer <VAPI_API_KEY>. Call events come back out-of-band
// on the server webhook and are decoded by DecodeWebhook.
type VapiAdapter struct {
	apiKey string
	base   string // e.g., https://api.vapi.ai
	client *http.Client
}

func NewVapiAdapter(apiKey, base string) (*VapiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("vapi api key empty")
	}
	if base == "" {
		base = "https://api.vapi.ai"
	}
	return &VapiAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type vapiAssistant struct {
	Name         string `json:"name"`
	FirstMessage string `json:"firstMessage"`
	Transcriber  struct {
		Provider string `json:"provider"`
		Model    string `json:"model"`
		Language string `json:"language"`
	} `json:"transcriber"`
	Voice struct {
		Provider string `json:"provider"`
		VoiceID  string `json:"voiceId"`
	} `json:"voice"`
	Model struct {
		Provider string       `json:"provider"`
		Model    string       `json:"model"`
		Messages []adapterMsg `json:"messages"`
	} `json:"model"`
	MaxDurationSeconds int               `json:"maxDurationSeconds,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

type adapterMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (v *VapiAdapter) Start(ctx context.Context, cfg adapter.CallConfig) (string, error) {
	var a vapiAssistant
	a.Name = cfg.AssistantName
	a.FirstMessage = cfg.FirstMessage
	a.Transcriber.Provider = cfg.Transcriber.Provider
	a.Transcriber.Model = cfg.Transcriber.Model
	a.Transcriber.Language = cfg.Transcriber.Language
	a.Voice.Provider = cfg.Voice.Provider
	a.Voice.VoiceID = cfg.Voice.VoiceID
	a.Model.Provider = cfg.Model.Provider
	a.Model.Model = cfg.Model.Model
	a.Model.Messages = []adapterMsg{{Role: "system", Content: cfg.Model.SystemPrompt}}
	a.MaxDurationSeconds = cfg.MaxDurationSeconds
	a.Metadata = map[string]string{"session_id": cfg.SessionID}

	body := struct {
		Assistant vapiAssistant `json:"assistant"`
	}{Assistant: a}

	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, v.base+"/call", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vapi start: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("vapi http %d", resp.StatusCode)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", errors.New("vapi: no call id in response")
	}
	return payload.ID, nil
}

func (v *VapiAdapter) Stop(ctx context.Context, callID string) error {
	if callID == "" {
		return errors.New("vapi stop: empty call id")
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodDelete, v.base+"/call/"+callID, nil)
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("vapi stop: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("vapi http %d", resp.StatusCode)
	}
	return nil
}

func (v *VapiAdapter) SetMuted(ctx context.Context, callID string, muted bool) error {
	body := struct {
		Type  string `json:"type"`
		Muted bool   `json:"muted"`
	}{Type: "mute", Muted: muted}
	b, _ := json.Marshal(body)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, v.base+"/call/"+callID+"/control", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("vapi mute: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("vapi http %d", resp.StatusCode)
	}
	return nil
}
