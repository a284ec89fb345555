package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stockguardian/stock-guardian-backend/internal/api"
	"github.com/stockguardian/stock-guardian-backend/internal/config"
	"github.com/stockguardian/stock-guardian-backend/internal/database"
	"github.com/stockguardian/stock-guardian-backend/internal/notifier"
	"github.com/stockguardian/stock-guardian-backend/internal/pricing"
	"github.com/stockguardian/stock-guardian-backend/internal/repository"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
	"github.com/stockguardian/stock-guardian-backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	positionRepo := repository.NewPositionRepository(db)
	ruleRepo := repository.NewAlertRuleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Price source: Yahoo Finance behind a TTL quote cache
	quoteCache, err := pricing.NewQuoteCache(cfg.Quotes.TTL)
	if err != nil {
		log.Fatalf("Failed to create quote cache: %v", err)
	}
	yahooSource := pricing.NewYahooSource(yahoo.NewFinanceClient(), cfg.Quotes.Timeout)
	priceSource := pricing.NewCachedSource(yahooSource, quoteCache)

	// Create services
	settingsService, err := service.NewSettingsService(settingsRepo, cfg.Notify.FernetKey)
	if err != nil {
		log.Fatalf("Failed to create settings service: %v", err)
	}
	holdingsService := service.NewHoldingsService(positionRepo)
	valuationService := service.NewValuationService()
	alertService := service.NewAlertService(ruleRepo)
	forecastService := service.NewForecastService(priceSource, cfg.Forecast.MinHistory)

	// Notification channels
	dispatcher := notifier.NewDispatcher()
	if cfg.Notify.SMTPHost != "" {
		smtpPassword, err := settingsService.SMTPPassword()
		if err != nil {
			log.Printf("SMTP password unavailable, email auth disabled: %v", err)
		}
		dispatcher.Register("email", notifier.NewEmailNotifier(
			cfg.Notify.SMTPHost,
			cfg.Notify.SMTPPort,
			cfg.Notify.SMTPFrom,
			cfg.Notify.SMTPUser,
			smtpPassword,
		))
	} else {
		log.Println("SMTP not configured, email notifications go to the log")
		dispatcher.Register("email", notifier.LogNotifier{})
	}

	if webhookURL, err := settingsService.WebhookURL(); err == nil && webhookURL != "" {
		dispatcher.Register("webhook", notifier.NewWebhookNotifier(webhookURL))
		cfg.Alerts.Channels = append(cfg.Alerts.Channels, "webhook")
	}

	engineService := service.NewEngineService(
		positionRepo,
		ruleRepo,
		priceSource,
		valuationService,
		alertService,
		dispatcher,
		settingsService,
		cfg.Alerts.Channels,
		cfg.Quotes.Parallelism,
	)

	// Background alert checks
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Alerts.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err := engineService.RunCycle(ctx)
		if err != nil {
			log.Printf("Scheduled alert check failed: %v", err)
			return
		}
		log.Printf("Alert check complete: %d positions, %d skipped, %d alerts triggered",
			len(report.Results), report.Skipped, report.Triggered)
	})
	if err != nil {
		log.Fatalf("Invalid alert schedule %q: %v", cfg.Alerts.Schedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(db, holdingsService, engineService, alertService, forecastService, settingsService, dispatcher, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
