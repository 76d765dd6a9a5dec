package genai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 status code", &APIError{Code: 429, Message: "slow down"}, true},
		{"resource exhausted status", &APIError{Code: 400, Status: "RESOURCE_EXHAUSTED", Message: "x"}, true},
		{"quota in message", errors.New("Quota exceeded for gemini-2.5-flash"), true},
		{"rate limit in message", errors.New("rate limit hit, try later"), true},
		{"wrapped api error", fmt.Errorf("call failed: %w", &APIError{Code: 429, Message: "x"}), true},
		{"plain upstream error", &APIError{Code: 500, Status: "INTERNAL", Message: "boom"}, false},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimit(tt.err))
		})
	}
}
