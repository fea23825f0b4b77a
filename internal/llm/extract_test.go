package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type verdict struct {
	Verified bool   `json:"verified"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "  hello world  ",
			expected: "hello world",
		},
		{
			name:     "json fence preferred",
			input:    "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			expected: `{"a": 1}`,
		},
		{
			name:     "plain fence accepted",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "unterminated fence keeps remainder",
			input:    "```json\n{\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "think block stripped",
			input:    "<think>internal musings</think>\n```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestTryExtractJSON(t *testing.T) {
	t.Run("fenced verdict round trip", func(t *testing.T) {
		raw := "Sure, here is my evaluation:\n```json\n{\"verified\": true, \"score\": 92, \"feedback\": \"Well done\"}\n```"
		out, ok := TryExtractJSON[verdict](raw)
		assert.True(t, ok)
		assert.True(t, out.Verified)
		assert.Equal(t, 92, out.Score)
		assert.Equal(t, "Well done", out.Feedback)
	})

	t.Run("object embedded in prose", func(t *testing.T) {
		raw := `The result is {"verified": false, "score": 30, "feedback": "Try again"} as requested.`
		out, ok := TryExtractJSON[verdict](raw)
		assert.True(t, ok)
		assert.False(t, out.Verified)
		assert.Equal(t, 30, out.Score)
	})

	t.Run("garbage reports false", func(t *testing.T) {
		_, ok := TryExtractJSON[verdict]("I could not evaluate that, sorry.")
		assert.False(t, ok)
	})

	t.Run("mismatched braces report false", func(t *testing.T) {
		_, ok := TryExtractJSON[verdict]("} not json {")
		assert.False(t, ok)
	})
}

func TestExtractJSONFallback(t *testing.T) {
	fallback := verdict{Verified: true, Score: 80, Feedback: "default"}

	out := ExtractJSON("no json here at all", fallback)
	assert.Equal(t, fallback, out)

	out = ExtractJSON(`{"verified": true, "score": 55, "feedback": "ok"}`, fallback)
	assert.Equal(t, 55, out.Score)
}
