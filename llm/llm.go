// Package llm wraps hosted text generation services behind a single Generator
// interface. Callers receive raw text, parsing is their concern.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FlorianRuen/repo-insight/config"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured = errors.New("LLM_NOT_CONFIGURED")
	ErrEmptyResponse = errors.New("LLM_EMPTY_RESPONSE")
)

// Options are the sampling parameters sent with a prompt
type Options struct {
	Temperature     float32
	MaxOutputTokens int
}

type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	Name() string
}

// NewGenerator builds the generator for the configured provider.
// A missing API key yields a generator that always returns ErrNotConfigured.
func NewGenerator(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		log.WithField("provider", cfg.Provider).Warn("no LLM API key configured, analysis will use fallback content")
		return Disabled{}, nil
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAIGenerator(cfg.BaseURL, cfg.APIKey, cfg.Model, timeout), nil
	case "gemini":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// Disabled is used when no credential is available
type Disabled struct{}

func (Disabled) Generate(context.Context, string, Options) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Name() string { return "disabled" }

// StripCodeFences removes markdown code fences that some models wrap around JSON
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// opening fence, with or without language tag
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}

		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}

		s = strings.TrimSpace(s)
	}

	return s
}

// ExtractJSON returns the outermost object found in s
func ExtractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no json braces found")
	}

	return s[start : end+1], nil
}
