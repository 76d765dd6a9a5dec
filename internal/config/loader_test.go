package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("RENO_TEST_HOST", "redis.internal")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"env var set", "host: ${RENO_TEST_HOST}", "host: redis.internal"},
		{"env var set ignores default", "host: ${RENO_TEST_HOST:fallback}", "host: redis.internal"},
		{"default used when unset", "host: ${RENO_TEST_MISSING:localhost}", "host: localhost"},
		{"empty default", "key: ${RENO_TEST_MISSING:}", "key: "},
		{"no default keeps placeholder", "host: ${RENO_TEST_MISSING}", "host: ${RENO_TEST_MISSING}"},
		{"multiple placeholders", "${RENO_TEST_HOST}:${RENO_TEST_PORT:6379}", "redis.internal:6379"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.input))
		})
	}
}
