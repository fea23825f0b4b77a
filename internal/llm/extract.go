// Package llm interprets raw LLM output. It is the single point that shields
// the rest of the engine from the unpredictability of generated text: every
// extraction degrades to a caller-supplied fallback instead of failing.
package llm

import (
	"encoding/json"
	"strings"

	"studymate/internal/logger"

	"go.uber.org/zap"
)

// CleanText strips reasoning tags and code fences from a raw LLM reply,
// returning the payload most likely to be parseable. A ```json fence wins
// over a plain fence; with no fence the trimmed text is returned as is.
func CleanText(text string) string {
	cleaned := strings.TrimSpace(text)

	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			cleaned = cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):]
			cleaned = strings.TrimSpace(cleaned)
		}
	}

	if idx := strings.Index(cleaned, "```json"); idx != -1 {
		rest := cleaned[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(cleaned, "```"); idx != -1 {
		rest := cleaned[idx+len("```"):]
		if end := strings.Index(rest, "```"); end != -1 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return cleaned
}

// TryExtractJSON parses a JSON value of type T out of a loosely fenced reply.
// It reports false when the text contains nothing parseable, which callers
// use to tell "the model answered garbage" apart from "the model answered".
func TryExtractJSON[T any](text string) (T, bool) {
	var out T

	cleaned := CleanText(text)
	if err := json.Unmarshal([]byte(cleaned), &out); err == nil {
		return out, true
	}

	// Second chance: slice from the first '{' to the last '}' in case the
	// model wrapped the object in prose.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end != -1 && end > start {
		var retry T
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &retry); err == nil {
			return retry, true
		}
	}

	var zero T
	return zero, false
}

// ExtractJSON parses a JSON value out of text, returning fallback unchanged on
// any parse failure. It never fails; callers supply a structurally valid
// default so the pipeline degrades rather than breaks.
func ExtractJSON[T any](text string, fallback T) T {
	out, ok := TryExtractJSON[T](text)
	if !ok {
		logger.Get().Warn("Failed to extract JSON from LLM response, using fallback",
			zap.String("response", truncate(text, 200)))
		return fallback
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
