package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/logger"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// ModelClient is the subset of *genai.Models used by the extractor.
type ModelClient interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Extractor implements generation.ContentExtractor using Gemini.
type Extractor struct {
	models   ModelClient
	model    string
	maxCards int
	retry    generation.RetryPolicy
	logger   *slog.Logger
}

var _ generation.ContentExtractor = (*Extractor)(nil)

// NewExtractor creates a Gemini client from cfg and wraps it in an Extractor.
func NewExtractor(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Extractor, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return NewExtractorWithClient(client.Models, logger, cfg)
}

// NewExtractorWithClient wraps an existing model client.
func NewExtractorWithClient(models ModelClient, logger *slog.Logger, cfg config.LLMConfig) (*Extractor, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: model client cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	model := cfg.GeminiModel
	if model == "" {
		model = DefaultModel
	}
	maxCards := cfg.MaxCardsPerDocument
	if maxCards <= 0 {
		maxCards = generation.DefaultMaxCards
	}

	return &Extractor{
		models:   models,
		model:    model,
		maxCards: maxCards,
		retry:    generation.NewRetryPolicy(cfg.MaxRetries, cfg.RetryDelaySeconds),
		logger:   logger.With(slog.String("component", "gemini_extractor"), slog.String("model", model)),
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

	prompt := generation.BuildPrompt(content, e.maxCards)
	log.DebugContext(ctx, "requesting cards from Gemini",
		"content_length", len(content),
		"prompt_length", len(prompt))

	var drafts []generation.CardDraft
	err := generation.Retry(ctx, e.retry, log, func(ctx context.Context) error {
		text, err := e.generate(ctx, prompt)
		if err != nil {
			return err
		}
		drafts, err = generation.ParseDrafts(text, e.maxCards)
		return err
	})
	if err != nil {
		log.ErrorContext(ctx, "Gemini extraction failed", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "Gemini extraction succeeded", "card_count", len(drafts))
	return drafts, nil
}

func (e *Extractor) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := e.models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}
