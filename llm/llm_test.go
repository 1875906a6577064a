package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "No fences", input: `{"a":1}`, expected: `{"a":1}`},
		{name: "Json fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "Bare fence with spaces", input: "  ```\n{\"a\":1}\n```  \n", expected: `{"a":1}`},
		{name: "Single line fence", input: "```{\"a\":1}```", expected: `{"a":1}`},
		{name: "Text only", input: " hello ", expected: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFences(tt.input))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	js, err := ExtractJSON(`Sure! Here it is: {"a":{"b":2}} hope it helps`)
	assert.NoError(t, err)
	assert.Equal(t, `{"a":{"b":2}}`, js)

	_, err = ExtractJSON("no object here")
	assert.Error(t, err)
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	gen, err := NewGenerator(ctx, config.LLMConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, gen)

	_, err = gen.Generate(ctx, "prompt", Options{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	gen, err = NewGenerator(ctx, config.LLMConfig{Provider: "openai", APIKey: "key", Model: "gpt-4o-mini", TimeoutSeconds: 5})
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o-mini", gen.Name())

	_, err = NewGenerator(ctx, config.LLMConfig{Provider: "mistery", APIKey: "key"})
	assert.Error(t, err)
}

func TestOpenAIGenerator(t *testing.T) {
	tests := []struct {
		name        string
		response    string
		expected    string
		expectError error
	}{
		{
			name:     "First choice content is returned",
			response: `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"},"finish_reason":"stop"}]}`,
			expected: `{"summary":"ok"}`,
		},
		{
			name:        "No choices",
			response:    `{"id":"1","object":"chat.completion","choices":[]}`,
			expectError: ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

				w.Header().Set("Content-Type", "application/json")
				_, err := w.Write([]byte(tt.response))
				if err != nil {
					t.Error("unable to write mocked response")
				}
			}))
			defer server.Close()

			gen := NewOpenAIGenerator(server.URL+"/v1/", "test-key", "test-model", 5*time.Second)
			out, err := gen.Generate(context.Background(), "prompt", Options{Temperature: 0.2, MaxOutputTokens: 300})

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, out)
			}

			assert.Equal(t, "test-model", received["model"])
			assert.InDelta(t, 0.2, received["temperature"], 0.0001)
			assert.EqualValues(t, 300, received["max_tokens"])
		})
	}
}
