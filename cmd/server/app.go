package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pmallory/recall-api/internal/config"
	"github.com/pmallory/recall-api/internal/domain/srs"
	"github.com/pmallory/recall-api/internal/platform/postgres"
	"github.com/pmallory/recall-api/internal/service/auth"
	"github.com/pmallory/recall-api/internal/service/card_review"
	"github.com/pmallory/recall-api/internal/service/cards"
	"github.com/pmallory/recall-api/internal/service/insights"
	"github.com/pmallory/recall-api/internal/store"
)

// application holds the wired dependency graph.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore      store.UserStore
	cardStore      store.CardStore
	reviewLogStore store.ReviewLogStore

	jwtService        auth.JWTService
	passwordVerifier  auth.PasswordVerifier
	cardService       cards.CardService
	cardReviewService card_review.CardReviewService
	insightsService   insights.InsightsService
}

// newApplication connects to the database, applies migrations, and wires
// stores, services, and handlers together.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := openDatabase(cfg.Database.URL, log)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, log)
	cardStore := postgres.NewPostgresCardStore(db, log)
	reviewLogStore := postgres.NewPostgresReviewLogStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	srsService := srs.NewServiceWithParams(srs.NewParams(srs.Config{
		IntervalModifier:       cfg.SRS.IntervalModifier,
		GraduatingIntervalDays: cfg.SRS.GraduatingIntervalDays,
		EasyIntervalDays:       cfg.SRS.EasyIntervalDays,
		MaximumIntervalDays:    cfg.SRS.MaximumIntervalDays,
		LearningStepsMinutes:   cfg.SRS.LearningStepsMinutes,
		RelearningStepsMinutes: cfg.SRS.RelearningStepsMinutes,
	}))

	cardReviewService := card_review.NewCardReviewService(
		card_review.NewCardRepositoryAdapter(cardStore, db),
		card_review.NewReviewLogRepositoryAdapter(reviewLogStore),
		srsService,
		log,
	)

	return &application{
		config:            cfg,
		logger:            log,
		db:                db,
		userStore:         userStore,
		cardStore:         cardStore,
		reviewLogStore:    reviewLogStore,
		jwtService:        jwtService,
		passwordVerifier:  auth.NewBcryptVerifier(),
		cardService:       cards.NewCardService(cardStore, log),
		cardReviewService: cardReviewService,
		insightsService:   insights.NewInsightsService(cardStore, reviewLogStore, log),
	}, nil
}

// cleanup releases application resources. Safe to call more than once.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
		app.db = nil
	}
}
