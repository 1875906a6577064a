package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		base     func() *Config
		expected func(cfg *Config)
	}{
		{
			name: "Secrets and port from environment",
			env: map[string]string{
				"PORT":         "8080",
				"GITHUB_TOKEN": "ghp_token",
				"LLM_API_KEY":  "sk-key",
			},
			base: GetDefault,
			expected: func(cfg *Config) {
				assert.Equal(t, "8080", cfg.API.ListenPort)
				assert.Equal(t, "ghp_token", cfg.Github.Token)
				assert.Equal(t, "sk-key", cfg.LLM.APIKey)
			},
		},
		{
			name: "Gemini key used as fallback for gemini provider",
			env: map[string]string{
				"LLM_PROVIDER":   "Gemini",
				"GEMINI_API_KEY": "gemini-key",
				"OPENAI_API_KEY": "openai-key",
			},
			base: GetDefault,
			expected: func(cfg *Config) {
				assert.Equal(t, "gemini", cfg.LLM.Provider)
				assert.Equal(t, "gemini-key", cfg.LLM.APIKey)
			},
		},
		{
			name: "Explicit key is not replaced by provider fallback",
			env: map[string]string{
				"OPENAI_API_KEY": "openai-key",
			},
			base: func() *Config {
				cfg := GetDefault()
				cfg.LLM.APIKey = "from-file"
				return cfg
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "from-file", cfg.LLM.APIKey)
			},
		},
		{
			name: "Invalid boolean is ignored",
			env: map[string]string{
				"LOG_JSON":  "maybe",
				"LOG_LEVEL": "warn",
			},
			base: GetDefault,
			expected: func(cfg *Config) {
				assert.False(t, cfg.Logs.OutputLogsAsJSON)
				assert.Equal(t, "warn", cfg.Logs.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.base()
			ApplyEnv(cfg, func(key string) string { return tt.env[key] })
			tt.expected(cfg)
		})
	}
}

func TestSanitize(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.Temperature = 0.9

	Sanitize(cfg)

	def := GetDefault()
	assert.Equal(t, def.Tasks.ContextBatchSize, cfg.Tasks.ContextBatchSize)
	assert.Equal(t, def.Github.MaxReadmeLength, cfg.Github.MaxReadmeLength)
	assert.Equal(t, def.Github.ManifestPath, cfg.Github.ManifestPath)
	assert.Equal(t, def.LLM.Provider, cfg.LLM.Provider)
	assert.Equal(t, def.LLM.Temperature, cfg.LLM.Temperature)
	assert.Equal(t, 0, cfg.Github.MaxTreeFiles, "zero tree cap means uncapped and is kept")
}
