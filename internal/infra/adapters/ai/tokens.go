package ai

import (
	"github.com/pkoukk/tiktoken-go"

	"ai-interview-platform/internal/domain/ports/adapter"
)

// CountTokensLocal counts prompt tokens with the cl100k_base encoding.
// Best-effort: gateway providers don't expose exact counters, and the
// callers only use this for transcript size budgeting.
func CountTokensLocal(messages []adapter.Message) (int, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, err
	}
	total := 0
	for _, m := range messages {
		total += len(enc.Encode(m.Content, nil, nil))
		// rough per-message overhead for role framing
		total += 4
	}
	return total, nil
}
