package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/howl/internal/domain"
)

func TestComplete_FailingCallHitsUpstreamOnce(t *testing.T) {
	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer upstream.Close()

	provider, err := NewProvider(Config{
		APIKey:     "test-key",
		BaseURL:    upstream.URL,
		Model:      "gpt-3.5-turbo",
		MaxRetries: 0,
	})
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), &domain.CompletionRequest{Message: "hello"})
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load(), "failed call must not be retried against the upstream")
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(Config{})
	require.Error(t, err)
}
