package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stockguardian/stock-guardian-backend/internal/api/handlers"
	custommiddleware "github.com/stockguardian/stock-guardian-backend/internal/api/middleware"
	"github.com/stockguardian/stock-guardian-backend/internal/config"
	"github.com/stockguardian/stock-guardian-backend/internal/notifier"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	db *sql.DB,
	holdingsService *service.HoldingsService,
	engineService *service.EngineService,
	alertService *service.AlertService,
	forecastService *service.ForecastService,
	settingsService *service.SettingsService,
	dispatcher *notifier.Dispatcher,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/positions", func(r chi.Router) {
			positionHandler := handlers.NewPositionHandler(holdingsService)
			r.Get("/", positionHandler.Positions)
			r.Post("/", positionHandler.CreatePosition)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Delete("/", positionHandler.DeletePosition)
			})
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(engineService)
			r.Get("/summary", portfolioHandler.Summary)
		})

		r.Route("/alerts", func(r chi.Router) {
			alertHandler := handlers.NewAlertHandler(alertService, engineService)
			r.Get("/", alertHandler.Rules)
			r.Post("/", alertHandler.CreateRule)
			r.Post("/check", alertHandler.Check)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Post("/reset", alertHandler.ResetRule)
				r.Delete("/", alertHandler.DeleteRule)
			})
		})

		r.Route("/forecast", func(r chi.Router) {
			forecastHandler := handlers.NewForecastHandler(forecastService, cfg.Forecast.HorizonDays)
			r.Get("/{symbol}", forecastHandler.Forecast)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(settingsService, dispatcher)
			r.Get("/", settingsHandler.Settings)
			r.Put("/", settingsHandler.UpdateSettings)
		})
	})

	return r
}
