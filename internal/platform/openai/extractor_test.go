package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model          string `json:"model"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content, finishReason string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finishReason,
		}},
	}
}

// newServer answers chat completions with the responders in order, repeating
// the last one.
func newServer(t *testing.T, calls *atomic.Int32, responders ...func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n >= len(responders) {
			n = len(responders) - 1
		}
		responders[n](w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func respondJSON(status int, body any) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func apiError(message string) map[string]any {
	return map[string]any{"error": map[string]any{"message": message, "type": "server_error"}}
}

func newTestExtractor(t *testing.T, baseURL string) *Extractor {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	e, err := NewExtractor(log, config.LLMConfig{
		OpenAIAPIKey:        "test-key",
		OpenAIModel:         "test-model",
		OpenAIBaseURL:       baseURL + "/v1/",
		MaxCardsPerDocument: 3,
	})
	require.NoError(t, err)
	return e.WithRetryPolicy(generation.RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		Jitter:     func() float64 { return 0.5 },
	})
}

func TestExtractRequestsJSONCards(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	var got chatRequest
	srv := newServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respondJSON(http.StatusOK, completion(
			`{"cards":[{"question":"What is ATP?","answer":"The energy currency of the cell","tags":["Biology"]}]}`,
			"stop",
		))(w, r)
	})

	drafts, err := newTestExtractor(t, srv.URL).Extract(context.Background(), "ATP stores energy.")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "What is ATP?", drafts[0].Question)
	assert.Equal(t, []string{"biology"}, drafts[0].Tags)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, generation.BuildPrompt("ATP stores energy.", 3), got.Messages[1].Content)
}

func TestExtractRetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := newServer(t, &calls,
		respondJSON(http.StatusServiceUnavailable, apiError("overloaded")),
		respondJSON(http.StatusTooManyRequests, apiError("slow down")),
		respondJSON(http.StatusOK, completion(`[{"question":"Q","answer":"A"}]`, "stop")),
	)

	drafts, err := newTestExtractor(t, srv.URL).Extract(context.Background(), "material")
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestExtractFailures(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		responder func(http.ResponseWriter, *http.Request)
		wantErr   error
		wantCalls int32
	}{
		{"persistent server error", respondJSON(http.StatusInternalServerError, apiError("boom")), generation.ErrTransientFailure, 3},
		{"bad request", respondJSON(http.StatusBadRequest, apiError("bad model")), generation.ErrGenerationFailed, 1},
		{"content filtered", respondJSON(http.StatusOK, completion("", "content_filter")), generation.ErrContentBlocked, 1},
		{"not JSON", respondJSON(http.StatusOK, completion("Here you go!", "stop")), generation.ErrInvalidResponse, 1},
		{"no choices", respondJSON(http.StatusOK, map[string]any{"id": "x", "choices": []any{}}), generation.ErrInvalidResponse, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			srv := newServer(t, &calls, tc.responder)

			_, err := newTestExtractor(t, srv.URL).Extract(context.Background(), "material")
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, tc.wantCalls, calls.Load())
		})
	}
}

func TestNewExtractorValidatesConfig(t *testing.T) {
	t.Parallel()
	_, err := NewExtractor(nil, config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	e, err := NewExtractor(nil, config.LLMConfig{OpenAIAPIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, e.model)

	_, err = e.Extract(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyContent)
}
