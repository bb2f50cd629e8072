package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pmallory/recall-api/internal/api"
	apimiddleware "github.com/pmallory/recall-api/internal/api/middleware"
)

// setupRouter builds the route tree and middleware chain.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	tokenLifetime := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		tokenLifetime,
		app.logger,
	)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	reviewHandler := api.NewReviewHandler(app.cardReviewService, app.logger)
	insightsHandler := api.NewInsightsHandler(app.insightsService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	// Authentication endpoints (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)
	})

	// Everything under /api requires a valid access token.
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cardHandler.CreateCard)
			r.Get("/", cardHandler.ListCards)
			r.Get("/{id}", cardHandler.GetCard)
			r.Put("/{id}", cardHandler.UpdateCard)
			r.Delete("/{id}", cardHandler.DeleteCard)

			r.Post("/{id}/review", reviewHandler.SubmitReview)
			r.Get("/{id}/preview", reviewHandler.GetPreviews)
			r.Get("/{id}/history", reviewHandler.GetHistory)
			r.Post("/{id}/postpone", reviewHandler.Postpone)
			r.Post("/{id}/reset", reviewHandler.ResetCard)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/queue", reviewHandler.GetQueue)
			r.Get("/counts", reviewHandler.GetCounts)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/weak-areas", insightsHandler.WeakAreas)
			r.Get("/recommendations", insightsHandler.Recommendations)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
