package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "http://localhost/api-example.php", cfg.AnswerEndpoint)
	assert.Empty(t, cfg.AnswersExpr)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.FillDelay)
	assert.Equal(t, 3, cfg.ScaleFallback)
	assert.True(t, cfg.VerifyFill)
	assert.Equal(t, 4, cfg.FetchWorkers)
	assert.Equal(t, 128, cfg.SelectorCacheSize)
	assert.Equal(t, 32, cfg.PageCacheMaxItems)
	assert.Equal(t, 5*time.Second, cfg.PageCacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ANSWER_ENDPOINT", "https://answers.example.com/v1")
	t.Setenv("ANSWERS_EXPR", ".answers")
	t.Setenv("FILL_DELAY_MS", "0")
	t.Setenv("SCALE_FALLBACK", "0")
	t.Setenv("VERIFY_FILL", "off")
	t.Setenv("FETCH_WORKERS", "not-a-number")
	t.Setenv("PAGE_CACHE_TTL_MS", "0")

	cfg := Load()

	assert.Equal(t, "https://answers.example.com/v1", cfg.AnswerEndpoint)
	assert.Equal(t, ".answers", cfg.AnswersExpr)
	assert.Equal(t, time.Duration(0), cfg.FillDelay)
	assert.Equal(t, 0, cfg.ScaleFallback)
	assert.False(t, cfg.VerifyFill)
	assert.Equal(t, 4, cfg.FetchWorkers)
	assert.Equal(t, time.Duration(0), cfg.PageCacheTTL)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"1", false, true},
		{"yes", false, true},
		{"no", true, false},
		{"maybe", true, true},
		{"", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tc.value)
			assert.Equal(t, tc.want, getEnvBool("TEST_BOOL", tc.def))
		})
	}
}
