package testutil

import (
	"database/sql"
	"testing"

	"github.com/stockguardian/stock-guardian-backend/internal/notifier"
	"github.com/stockguardian/stock-guardian-backend/internal/pricing"
	"github.com/stockguardian/stock-guardian-backend/internal/repository"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
)

// NewTestAlertService wires an AlertService against the test database.
func NewTestAlertService(t *testing.T, db *sql.DB) *service.AlertService {
	t.Helper()
	return service.NewAlertService(repository.NewAlertRuleRepository(db))
}

// NewTestHoldingsService wires a HoldingsService against the test database.
func NewTestHoldingsService(t *testing.T, db *sql.DB) *service.HoldingsService {
	t.Helper()
	return service.NewHoldingsService(repository.NewPositionRepository(db))
}

// NewTestSettingsService wires a SettingsService without a fernet key.
func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	svc, err := service.NewSettingsService(repository.NewSettingsRepository(db), "")
	if err != nil {
		t.Fatalf("Failed to create settings service: %v", err)
	}
	return svc
}

// NewTestEngineService wires an EngineService against the test database with
// the given price source and notification dispatcher. Pass nil for dispatcher
// to run cycles without notifications.
func NewTestEngineService(t *testing.T, db *sql.DB, source pricing.Source, dispatcher *notifier.Dispatcher, channels []string) *service.EngineService {
	t.Helper()

	return service.NewEngineService(
		repository.NewPositionRepository(db),
		repository.NewAlertRuleRepository(db),
		source,
		service.NewValuationService(),
		NewTestAlertService(t, db),
		dispatcher,
		NewTestSettingsService(t, db),
		channels,
		4,
	)
}
