package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

const systemPrompt = "You write concise study flashcards and always answer with JSON."

// ErrEmptyContent is returned when there is no study material to send.
var ErrEmptyContent = errors.New("content cannot be empty")

// Extractor implements generation.ContentExtractor with chat completions.
type Extractor struct {
	client   *goopenai.Client
	model    string
	maxCards int
	retry    generation.RetryPolicy
	logger   *slog.Logger
}

var _ generation.ContentExtractor = (*Extractor)(nil)

// NewExtractor creates an Extractor from cfg. An empty OpenAIBaseURL targets
// the public OpenAI API.
func NewExtractor(logger *slog.Logger, cfg config.LLMConfig) (*Extractor, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.OpenAIBaseURL, "/")
	}

	model := cfg.OpenAIModel
	if model == "" {
		model = DefaultModel
	}
	maxCards := cfg.MaxCardsPerDocument
	if maxCards <= 0 {
		maxCards = generation.DefaultMaxCards
	}

	return &Extractor{
		client:   goopenai.NewClientWithConfig(clientConfig),
		model:    model,
		maxCards: maxCards,
		retry:    generation.NewRetryPolicy(cfg.MaxRetries, cfg.RetryDelaySeconds),
		logger:   logger.With(slog.String("component", "openai_extractor"), slog.String("model", model)),
	}, nil
}

// WithRetryPolicy returns a copy of e using policy.
func (e *Extractor) WithRetryPolicy(policy generation.RetryPolicy) *Extractor {
	cp := *e
	cp.retry = policy
	return &cp
}

// Extract implements generation.ContentExtractor.
func (e *Extractor) Extract(ctx context.Context, content string) ([]generation.CardDraft, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	req := goopenai.ChatCompletionRequest{
		Model: e.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: generation.BuildPrompt(content, e.maxCards)},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var drafts []generation.CardDraft
	err := generation.Retry(ctx, e.retry, log, func(ctx context.Context) error {
		text, err := e.complete(ctx, req)
		if err != nil {
			return err
		}
		drafts, err = generation.ParseDrafts(text, e.maxCards)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "OpenAI extraction failed", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "OpenAI extraction succeeded", "card_count", len(drafts))
	return drafts, nil
}

func (e *Extractor) complete(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: content filtered", generation.ErrContentBlocked)
	}
	return choice.Message.Content, nil
}

// classifyError marks rate limits, server errors and network failures as
// transient. Other API errors are permanent.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d: %v", generation.ErrTransientFailure, status, err)
	}
	return fmt.Errorf("%w: status %d: %v", generation.ErrGenerationFailed, status, err)
}
