package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai/groq"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:      "test",
		GroqAPIKey:  "test-key",
		GroqBaseURL: baseURL,
		GroqModel:   "llama-3.3-70b-versatile",
		AITimeout:   2 * time.Second,
	}
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestChatJSON_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
		assert.EqualValues(t, 500, body["max_tokens"])

		_ = json.NewEncoder(w).Encode(chatResponse(`{"score": 90}`))
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	got, err := c.ChatJSON(context.Background(), "system", "user", 500)
	require.NoError(t, err)
	assert.Equal(t, `{"score": 90}`, got)
}

func TestChatJSON_MissingAPIKey(t *testing.T) {
	t.Parallel()
	cfg := testConfig("http://unused")
	cfg.GroqAPIKey = ""
	c := groq.New(cfg)

	_, err := c.ChatJSON(context.Background(), "s", "u", 100)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestChatJSON_RetriesOn429(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(chatResponse("ok"))
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	got, err := c.ChatJSON(context.Background(), "s", "u", 100)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestChatJSON_NoRetryOn4xx(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "s", "u", 100)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "client errors must not retry")
}

func TestChatJSON_EmptyChoices(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := groq.New(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "s", "u", 100)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestChatJSON_ServerDown(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := groq.New(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "s", "u", 100)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
