package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "llama3.2", cfg.Model)
	assert.Equal(t, 5000, cfg.TaskTimeout(TaskSentiment))
}

func TestLoadConfig_TaskTimeoutOverrides(t *testing.T) {
	t.Setenv("MINDSYNC_LLM_TIMEOUT_MS", "9000")
	t.Setenv("MINDSYNC_LLM_SENTIMENT_TIMEOUT_MS", "1500")

	cfg := LoadConfig()

	assert.Equal(t, 9000, cfg.TimeoutMs)
	assert.Equal(t, 1500, cfg.TaskTimeout(TaskSentiment))
	assert.Equal(t, 20000, cfg.TaskTimeout(TaskCompanion))
	assert.Equal(t, 9000, cfg.TaskTimeout(TaskType("other")))
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("MINDSYNC_LLM_SENTIMENT_TIMEOUT_MS", "not-a-number")
	t.Setenv("MINDSYNC_LLM_MAX_RETRIES", "-2")

	cfg := LoadConfig()

	assert.Equal(t, 5000, cfg.TaskTimeout(TaskSentiment))
	assert.Equal(t, 1, cfg.MaxRetries)
}

func TestLoadConfig_Provider(t *testing.T) {
	t.Setenv("MINDSYNC_LLM_ENABLED", "true")
	t.Setenv("MINDSYNC_LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Empty(t, cfg.Endpoint)
}

func TestLoadConfig_ExplicitModelAndKey(t *testing.T) {
	t.Setenv("MINDSYNC_LLM_PROVIDER", "gemini")
	t.Setenv("MINDSYNC_LLM_MODEL", "gemini-custom")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("MINDSYNC_LLM_API_KEY", "override")

	cfg := LoadConfig()

	assert.Equal(t, "gemini-custom", cfg.Model)
	assert.Equal(t, "override", cfg.APIKey)
}
