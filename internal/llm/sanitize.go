package llm

import (
	"bytes"
	"log/slog"
)

var codeFence = []byte("```")

// SanitizeModelJSON unwraps the JSON object from decoration the model may
// add around it despite the structured-output constraint: markdown code
// fences and prose before or after the object. Field values are never
// touched. A payload that still violates the schema after unwrapping is a
// validation failure, not something to repair.
func SanitizeModelJSON(raw []byte, logger *slog.Logger) ([]byte, []string) {
	if logger == nil {
		logger = slog.Default()
	}

	out := bytes.TrimSpace(raw)
	var stripped []string

	if bytes.HasPrefix(out, codeFence) {
		// Drop the opening fence line including any language tag, then the
		// closing fence.
		if i := bytes.IndexByte(out, '\n'); i >= 0 {
			out = out[i+1:]
		} else {
			out = out[len(codeFence):]
		}
		out = bytes.TrimSpace(out)
		out = bytes.TrimSuffix(out, codeFence)
		out = bytes.TrimSpace(out)
		stripped = append(stripped, "code_fence")
	}

	if len(out) > 0 && out[0] != '{' {
		start := bytes.IndexByte(out, '{')
		end := bytes.LastIndexByte(out, '}')
		if start >= 0 && end > start {
			out = out[start : end+1]
			stripped = append(stripped, "surrounding_text")
		}
	}

	if len(stripped) > 0 {
		logger.Warn("llm.extract.sanitize", "stripped", stripped)
	}
	return out, stripped
}
