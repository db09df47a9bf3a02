package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-interview-platform/internal/domain/ports/adapter"
)

func testCallConfig() adapter.CallConfig {
	return adapter.CallConfig{
		AssistantName:      "AI Recruiter",
		FirstMessage:       "Hi Alice, ready?",
		Transcriber:        adapter.CallTranscriber{Provider: "deepgram", Model: "nova-2", Language: "en-US"},
		Voice:              adapter.CallVoice{Provider: "playht", VoiceID: "jennifer"},
		Model:              adapter.CallModel{Provider: "openai", Model: "gpt-4", SystemPrompt: "ask the questions"},
		MaxDurationSeconds: 900,
		SessionID:          "sess-1",
	}
}

func TestVapiStartPostsAssistantConfig(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/call" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key-1" {
			t.Errorf("authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"call-42"}`))
	}))
	defer srv.Close()

	v, err := NewVapiAdapter("key-1", srv.URL)
	if err != nil {
		t.Fatalf("NewVapiAdapter: %v", err)
	}
	callID, err := v.Start(context.Background(), testCallConfig())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if callID != "call-42" {
		t.Fatalf("call id = %q", callID)
	}

	assistant, ok := got["assistant"].(map[string]any)
	if !ok {
		t.Fatalf("missing assistant object: %v", got)
	}
	if assistant["maxDurationSeconds"] != float64(900) {
		t.Fatalf("maxDurationSeconds = %v", assistant["maxDurationSeconds"])
	}
	meta, _ := assistant["metadata"].(map[string]any)
	if meta["session_id"] != "sess-1" {
		t.Fatalf("metadata = %v", meta)
	}
	model, _ := assistant["model"].(map[string]any)
	msgs, _ := model["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("system messages = %v", msgs)
	}
}

func TestVapiStopToleratesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	v, _ := NewVapiAdapter("key-1", srv.URL)
	// A call that already ended upstream is not an error for teardown.
	if err := v.Stop(context.Background(), "call-42"); err != nil {
		t.Fatalf("Stop on 404: %v", err)
	}
}

func TestVapiStartRejectsMissingCallID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	v, _ := NewVapiAdapter("key-1", srv.URL)
	if _, err := v.Start(context.Background(), testCallConfig()); err == nil {
		t.Fatal("expected error for response without call id")
	}
}
