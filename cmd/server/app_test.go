package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"github.com/phrazzld/scry-tutor/internal/platform/openai"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
	"github.com/phrazzld/scry-tutor/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(dsn string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                      8080,
			LogLevel:                  "debug",
			ShutdownTimeoutSeconds:    5,
			GenerateRequestsPerMinute: 2,
		},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			DSN:          dsn,
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
		SRS: config.SRSConfig{QualityRounding: "half_up"},
		LLM: config.LLMConfig{
			Provider:            "heuristic",
			MaxCardsPerDocument: 10,
		},
	}
}

func newTestApplication(t *testing.T) *application {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	app, err := newApplication(context.Background(), newTestConfig(testdb.SQLiteMemoryDSN()), log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, v interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestApplicationServesLearningWorkflow(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	var health map[string]string
	resp := getJSON(t, srv.URL+"/health", &health)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	resp = postJSON(t, srv.URL+"/api/courses/bio-101/cards", map[string]interface{}{
		"question": "What do plants produce during photosynthesis?",
		"answer":   "Glucose and oxygen",
		"tags":     []string{"plants"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var card domain.LearningCard
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.Equal(t, 1, card.IntervalDays)

	var due struct {
		Cards []domain.LearningCard `json:"cards"`
		Count int                   `json:"count"`
	}
	resp = getJSON(t, srv.URL+"/api/courses/bio-101/cards/due", &due)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, due.Count)
	assert.Equal(t, card.ID, due.Cards[0].ID)

	resp = postJSON(t, srv.URL+"/api/cards/"+card.ID+"/reviews", map[string]interface{}{
		"quality_rating":   5,
		"response_time_ms": 1500,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result learning.ReviewResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Passed)
	assert.Equal(t, 1, result.IntervalDays)
	assert.Equal(t, 1, result.Repetitions)
	assert.Equal(t, 2.5, result.EaseFactor)
	assert.Equal(t, 1, result.ReviewCount)

	resp = getJSON(t, srv.URL+"/api/courses/bio-101/cards/due", &due)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, due.Count)

	var reviews struct {
		Reviews []domain.ReviewSession `json:"reviews"`
	}
	resp = getJSON(t, srv.URL+"/api/cards/"+card.ID+"/reviews", &reviews)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, reviews.Reviews, 1)
	assert.Equal(t, 0, reviews.Reviews[0].PreviousRepetitions)

	var analytics domain.LearningAnalytics
	resp = getJSON(t, srv.URL+"/api/courses/bio-101/analytics?days=7", &analytics)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, analytics.TotalCards)
	assert.Equal(t, 1, analytics.TotalReviews)
	assert.Equal(t, 1.0, analytics.Accuracy)

	var recs domain.StudyRecommendations
	resp = getJSON(t, srv.URL+"/api/courses/bio-101/recommendations", &recs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bio-101", recs.CourseID)

	resp = getJSON(t, srv.URL+"/api/cards/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApplicationGeneratesCardsWithRateLimit(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)
	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)

	body := map[string]string{
		"content": "A catalyst is defined as a substance that speeds up a chemical reaction without being consumed.",
	}
	url := srv.URL + "/api/courses/chem/cards/generate"

	first := postJSON(t, url, body)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	var generated struct {
		Cards []domain.LearningCard `json:"cards"`
	}
	require.NoError(t, json.NewDecoder(first.Body).Decode(&generated))
	require.NotEmpty(t, generated.Cards)
	assert.Equal(t, domain.CardTypeAutoGenerated, generated.Cards[0].CardType)

	assert.Equal(t, http.StatusCreated, postJSON(t, url, body).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, postJSON(t, url, body).StatusCode)
}

func TestNewExtractor(t *testing.T) {
	t.Parallel()
	log, _ := logger.NewTestLogger(t)
	ctx := context.Background()

	e, err := newExtractor(ctx, config.LLMConfig{Provider: "heuristic", MaxCardsPerDocument: 5}, log)
	require.NoError(t, err)
	assert.IsType(t, &generation.HeuristicExtractor{}, e)

	e, err = newExtractor(ctx, config.LLMConfig{Provider: "openai", OpenAIAPIKey: "test-key"}, log)
	require.NoError(t, err)
	assert.IsType(t, &openai.Extractor{}, e)

	_, err = newExtractor(ctx, config.LLMConfig{Provider: "openai"}, log)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = newExtractor(ctx, config.LLMConfig{Provider: "claude"}, log)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewApplicationFailsOnBadDatabase(t *testing.T) {
	t.Parallel()
	log, _ := logger.NewTestLogger(t)
	cfg := newTestConfig("")
	cfg.Database.Driver = "oracle"

	_, err := newApplication(context.Background(), cfg, log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestServeShutsDownWhenContextCanceled(t *testing.T) {
	t.Parallel()
	app := newTestApplication(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr().String()))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestMigrateCommands(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "tutor.db") + "?_pragma=foreign_keys(1)&_time_format=sqlite"

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := newRootCommand(&out)
		cmd.SetArgs(append(args, "--db-driver", "sqlite", "--db-dsn", dsn, "--log-level", "error"))
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		return out.String()
	}

	status := run("migrate", "status")
	assert.Contains(t, status, "pending")
	assert.Contains(t, status, "create_learning_tables")

	run("migrate", "up")
	status = run("migrate", "status")
	assert.True(t, strings.HasPrefix(status, "applied"), status)
	assert.NotContains(t, status, "pending")

	run("migrate", "down")
	assert.Contains(t, run("migrate", "status"), "pending")
}

func TestServeRejectsArguments(t *testing.T) {
	t.Parallel()
	cmd := newRootCommand(&bytes.Buffer{})
	cmd.SetArgs([]string{"serve", "extra"})
	assert.Error(t, cmd.Execute())
}
