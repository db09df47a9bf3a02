package voice

import (
	"context"
	"fmt"
	"sync/atomic"

	"ai-interview-platform/internal/domain/ports/adapter"
)

var _ adapter.VoiceCallAdapter = (*NoopVoiceAdapter)(nil)

// NoopVoiceAdapter implements adapter.VoiceCallAdapter for local/dev runs
// without a Vapi key. Start hands out a synthetic call id and no audio
// ever flows; sessions advance on whatever webhook events are posted to
// the server by hand.
type NoopVoiceAdapter struct {
	seq atomic.Int64
}

func NewNoopVoiceAdapter() *NoopVoiceAdapter {
	return &NoopVoiceAdapter{}
}

func (a *NoopVoiceAdapter) Start(ctx context.Context, cfg adapter.CallConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("dev-call-%d", a.seq.Add(1)), nil
}

func (a *NoopVoiceAdapter) Stop(ctx context.Context, callID string) error { return nil }

func (a *NoopVoiceAdapter) SetMuted(ctx context.Context, callID string, muted bool) error {
	return nil
}
