package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "code fence with language tag",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "code fence without language tag",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "leading and trailing prose",
			input: "Here is your plan:\n{\"a\":1}\nLet me know if you need more.",
			want:  `{"a":1}`,
		},
		{
			name:  "nested braces survive",
			input: "result: {\"a\":{\"b\":2}} done",
			want:  `{"a":{"b":2}}`,
		},
		{
			name:  "no object returns trimmed input",
			input: "  sorry, I cannot help with that  ",
			want:  "sorry, I cannot help with that",
		},
		{
			name:  "empty input",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONObject_ResultUnmarshals(t *testing.T) {
	raw := "```json\n{\"styleSummary\":\"warm rustic\",\"steps\":[\"Sand the surface.\"]}\n```"
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(ExtractJSONObject(raw)), &out))
	assert.Equal(t, "warm rustic", out["styleSummary"])
}
