package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/scry-tutor/internal/config"
	"github.com/phrazzld/scry-tutor/internal/domain/srs"
	"github.com/phrazzld/scry-tutor/internal/generation"
	"github.com/phrazzld/scry-tutor/internal/platform/gemini"
	"github.com/phrazzld/scry-tutor/internal/platform/openai"
	"github.com/phrazzld/scry-tutor/internal/platform/sqlstore"
	"github.com/phrazzld/scry-tutor/internal/service/learning"
)

// application holds the long-lived dependencies of the server.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sqlx.DB
	service learning.Service
}

// newApplication opens the database, applies migrations when configured and
// wires the stores, scheduler, extractor and learning service together.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := sqlstore.Open(ctx, dbOptions(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app := &application{config: cfg, logger: logger, db: db}

	if cfg.Database.AutoMigrate {
		if err := sqlstore.Migrate(ctx, db, logger); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	scheduler, err := srs.NewServiceWithParams(
		srs.NewDefaultParams().WithRounding(srs.QualityRounding(cfg.SRS.QualityRounding)),
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	extractor, err := newExtractor(ctx, cfg.LLM, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.service, err = learning.NewService(learning.Dependencies{
		DB:                db,
		Cards:             sqlstore.NewCardStore(db, logger),
		Reviews:           sqlstore.NewReviewStore(db, logger),
		Sessions:          sqlstore.NewStudySessionStore(db, logger),
		Scheduler:         scheduler,
		Extractor:         extractor,
		Logger:            logger,
		MaxGeneratedCards: cfg.LLM.MaxCardsPerDocument,
	})
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create learning service: %w", err)
	}

	return app, nil
}

// newExtractor selects the content extractor named by cfg.Provider.
func newExtractor(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.ContentExtractor, error) {
	switch cfg.Provider {
	case "gemini":
		e, err := gemini.NewExtractor(ctx, logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini extractor: %w", err)
		}
		return e, nil
	case "openai":
		e, err := openai.NewExtractor(logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai extractor: %w", err)
		}
		return e, nil
	case "heuristic", "":
		return generation.NewHeuristicExtractor(cfg.MaxCardsPerDocument), nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", slog.String("error", err.Error()))
	}
	app.db = nil
}
