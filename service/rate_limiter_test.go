package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGithubRateLimiter(t *testing.T) {
	tests := []struct {
		name           string
		authenticated  bool
		status         int
		body           string
		expectedBurst  int
		expectedTokens float64
	}{
		{
			name:           "Synced with github remaining requests",
			status:         http.StatusOK,
			body:           `{"resources":{"core":{"limit":100,"remaining":40,"reset":1893456000}}}`,
			expectedBurst:  100,
			expectedTokens: 40,
		},
		{
			name:           "Unauthenticated fallback",
			status:         http.StatusInternalServerError,
			body:           `{"message":"boom"}`,
			expectedBurst:  unauthenticatedHourlyLimit,
			expectedTokens: unauthenticatedHourlyLimit,
		},
		{
			name:           "Authenticated fallback",
			authenticated:  true,
			status:         http.StatusOK,
			body:           `{"resources":{}}`,
			expectedBurst:  authenticatedHourlyLimit,
			expectedTokens: authenticatedHourlyLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/rate_limit", r.URL.Path)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			limiter := NewGithubRateLimiter(context.Background(), client, tt.authenticated)

			assert.Equal(t, tt.expectedBurst, limiter.Burst())
			assert.InDelta(t, tt.expectedTokens, limiter.Tokens(), 1)
		})
	}
}
