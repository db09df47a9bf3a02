package prompt

import (
	"strings"
)

// Render substitutes template placeholders with plain text replacement.
// Both the triple-brace ({{{key}}}) and double-brace ({{key}}) token forms
// are supported; substitution order does not matter.
func Render(template string, vars map[string]string) string {
	out := template
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{{"+k+"}}}", v)
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

// StripFences removes markdown code-fence wrappers the completion endpoint
// tends to put around JSON payloads. Content outside the first fenced
// block is discarded; unfenced input is returned trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "```")
	if start < 0 {
		return s
	}
	s = s[start+3:]
	// language tag on the opening fence ("json", "JSON", ...)
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		first := strings.TrimSpace(s[:nl])
		if len(first) <= 8 && !strings.ContainsAny(first, "{}[]") {
			s = s[nl+1:]
		}
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
