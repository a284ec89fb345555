package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockguardian/stock-guardian-backend/internal/api/handlers"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/notifier"
	"github.com/stockguardian/stock-guardian-backend/internal/service"
	"github.com/stockguardian/stock-guardian-backend/internal/testutil"
)

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

// TestPositionHandler tests the holdings endpoints.
func TestPositionHandler(t *testing.T) {
	setup := func(t *testing.T) (*chi.Mux, *sql.DB) {
		t.Helper()

		db := testutil.SetupTestDB(t)
		handler := handlers.NewPositionHandler(testutil.NewTestHoldingsService(t, db))

		r := chi.NewRouter()
		r.Get("/api/positions", handler.Positions)
		r.Post("/api/positions", handler.CreatePosition)
		r.Delete("/api/positions/{uuid}", handler.DeletePosition)

		return r, db
	}

	t.Run("lists recorded holdings", func(t *testing.T) {
		r, db := setup(t)

		testutil.NewPosition().WithSymbol("AAPL").Build(t, db)
		testutil.NewPosition().WithSymbol("MSFT").Build(t, db)

		req := httptest.NewRequest(http.MethodGet, "/api/positions", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var positions []handlers.PositionResponse
		decodeJSON(t, rec, &positions)
		if len(positions) != 2 {
			t.Errorf("Expected two positions, got %d", len(positions))
		}
	})

	t.Run("creates a holding and normalizes the symbol", func(t *testing.T) {
		r, _ := setup(t)

		body := bytes.NewBufferString(`{"symbol":"aapl","quantity":10,"costBasis":100,"acquiredAt":"2025-01-15"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/positions", body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var position handlers.PositionResponse
		decodeJSON(t, rec, &position)
		if position.Symbol != "AAPL" {
			t.Errorf("Expected symbol AAPL, got %s", position.Symbol)
		}
		if position.AcquiredAt != "2025-01-15" {
			t.Errorf("Expected acquiredAt 2025-01-15, got %s", position.AcquiredAt)
		}
	})

	t.Run("rejects an invalid holding", func(t *testing.T) {
		r, _ := setup(t)

		body := bytes.NewBufferString(`{"symbol":"AAPL","quantity":-1,"costBasis":100}`)
		req := httptest.NewRequest(http.MethodPost, "/api/positions", body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("deletes a holding", func(t *testing.T) {
		r, db := setup(t)

		position := testutil.NewPosition().Build(t, db)

		req := httptest.NewRequest(http.MethodDelete, "/api/positions/"+position.ID, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", rec.Code)
		}
	})

	t.Run("deleting an unknown holding is 404", func(t *testing.T) {
		r, _ := setup(t)

		req := httptest.NewRequest(http.MethodDelete, "/api/positions/"+testutil.MakeID(), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})
}

// TestAlertHandler tests the alert rule endpoints.
//
// WHY: The duplicate-create contract (200 with the existing rule, not 201
// and not an error) is what lets the frontend treat rule creation as
// idempotent.
func TestAlertHandler(t *testing.T) {
	setup := func(t *testing.T) (*chi.Mux, *sql.DB) {
		t.Helper()

		db := testutil.SetupTestDB(t)
		source := testutil.NewMockPriceSource().WithQuote("AAPL", 120)
		engine := testutil.NewTestEngineService(t, db, source, nil, nil)
		handler := handlers.NewAlertHandler(testutil.NewTestAlertService(t, db), engine)

		r := chi.NewRouter()
		r.Get("/api/alerts", handler.Rules)
		r.Post("/api/alerts", handler.CreateRule)
		r.Post("/api/alerts/check", handler.Check)
		r.Post("/api/alerts/{uuid}/reset", handler.ResetRule)
		r.Delete("/api/alerts/{uuid}", handler.DeleteRule)

		return r, db
	}

	t.Run("creates a rule", func(t *testing.T) {
		r, db := setup(t)

		position := testutil.NewPosition().Build(t, db)

		body := bytes.NewBufferString(`{"positionId":"` + position.ID + `","kind":"price_above","threshold":150}`)
		req := httptest.NewRequest(http.MethodPost, "/api/alerts", body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var rule handlers.AlertRuleResponse
		decodeJSON(t, rec, &rule)
		if rule.Kind != "price_above" {
			t.Errorf("Expected kind price_above, got %s", rule.Kind)
		}
		if rule.Fired {
			t.Error("Expected a new rule to start armed")
		}
	})

	t.Run("duplicate create returns 200 with the existing rule", func(t *testing.T) {
		r, db := setup(t)

		position := testutil.NewPosition().Build(t, db)
		payload := `{"positionId":"` + position.ID + `","kind":"profit_pct_above","threshold":15}`

		req := httptest.NewRequest(http.MethodPost, "/api/alerts", bytes.NewBufferString(payload))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d", rec.Code)
		}
		var first handlers.AlertRuleResponse
		decodeJSON(t, rec, &first)

		req = httptest.NewRequest(http.MethodPost, "/api/alerts", bytes.NewBufferString(payload))
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200 for a duplicate, got %d", rec.Code)
		}
		var second handlers.AlertRuleResponse
		decodeJSON(t, rec, &second)

		if second.ID != first.ID {
			t.Errorf("Expected the existing rule back, got %s vs %s", second.ID, first.ID)
		}
	})

	t.Run("rejects an unknown kind", func(t *testing.T) {
		r, db := setup(t)

		position := testutil.NewPosition().Build(t, db)

		body := bytes.NewBufferString(`{"positionId":"` + position.ID + `","kind":"moon_phase","threshold":1}`)
		req := httptest.NewRequest(http.MethodPost, "/api/alerts", body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("manual check runs a cycle and reports triggers", func(t *testing.T) {
		r, db := setup(t)

		position := testutil.NewPosition().WithSymbol("AAPL").Build(t, db)
		testutil.NewAlertRule(position.ID).
			WithKind(model.PriceAbove).
			WithThreshold(110).
			Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/alerts/check", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var report service.CycleReport
		decodeJSON(t, rec, &report)
		if report.Triggered != 1 {
			t.Errorf("Expected one trigger, got %d", report.Triggered)
		}
	})

	t.Run("reset and delete round-trip", func(t *testing.T) {
		r, db := setup(t)

		position := testutil.NewPosition().Build(t, db)
		rule := testutil.NewAlertRule(position.ID).AlreadyFired().Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/alerts/"+rule.ID+"/reset", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204 from reset, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodDelete, "/api/alerts/"+rule.ID, nil)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204 from delete, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodDelete, "/api/alerts/"+rule.ID, nil)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404 for a deleted rule, got %d", rec.Code)
		}
	})
}

// TestPortfolioHandler tests the summary endpoint.
func TestPortfolioHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	source := testutil.NewMockPriceSource().WithQuote("AAPL", 120)
	engine := testutil.NewTestEngineService(t, db, source, nil, nil)
	handler := handlers.NewPortfolioHandler(engine)

	r := chi.NewRouter()
	r.Get("/api/portfolio/summary", handler.Summary)

	position := testutil.NewPosition().WithSymbol("AAPL").WithQuantity(10).WithCostBasis(100).Build(t, db)
	rule := testutil.NewAlertRule(position.ID).
		WithKind(model.PriceAbove).
		WithThreshold(110).
		Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report service.CycleReport
	decodeJSON(t, rec, &report)
	if report.Totals.MarketValue != 1200 {
		t.Errorf("Expected market value 1200, got %v", report.Totals.MarketValue)
	}
	if report.Triggered != 0 {
		t.Errorf("Expected the summary to trigger nothing, got %d", report.Triggered)
	}

	// The rule survives the read untouched.
	var fired bool
	if err := db.QueryRow("SELECT fired FROM alert_rule WHERE id = ?", rule.ID).Scan(&fired); err != nil {
		t.Fatalf("Failed to read rule state: %v", err)
	}
	if fired {
		t.Error("Expected the summary to leave the rule armed")
	}
}

// TestForecastHandler tests the forecast endpoint and its status mapping.
func TestForecastHandler(t *testing.T) {
	start := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T, source *testutil.MockPriceSource) *chi.Mux {
		t.Helper()

		svc := service.NewForecastService(source, 20)
		handler := handlers.NewForecastHandler(svc, 30)

		r := chi.NewRouter()
		r.Get("/api/forecast/{symbol}", handler.Forecast)
		return r
	}

	t.Run("projects the requested horizon", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithHistory("AAPL", testutil.MakeHistory(start, 100, 1, 40))
		r := setup(t, source)

		req := httptest.NewRequest(http.MethodGet, "/api/forecast/aapl?days=10", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var forecast handlers.ForecastResponse
		decodeJSON(t, rec, &forecast)
		if forecast.Symbol != "AAPL" {
			t.Errorf("Expected symbol AAPL, got %s", forecast.Symbol)
		}
		if forecast.HorizonDays != 10 {
			t.Errorf("Expected horizon 10, got %d", forecast.HorizonDays)
		}
		if len(forecast.Points) != 10 {
			t.Errorf("Expected 10 points, got %d", len(forecast.Points))
		}
	})

	t.Run("insufficient history maps to 422", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithHistory("AAPL", testutil.MakeHistory(start, 100, 1, 5))
		r := setup(t, source)

		req := httptest.NewRequest(http.MethodGet, "/api/forecast/AAPL", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d", rec.Code)
		}
	})

	t.Run("rejects a non-positive horizon", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithHistory("AAPL", testutil.MakeHistory(start, 100, 1, 40))
		r := setup(t, source)

		req := httptest.NewRequest(http.MethodGet, "/api/forecast/AAPL?days=0", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}

// TestSettingsHandler tests the settings endpoints.
func TestSettingsHandler(t *testing.T) {
	setup := func(t *testing.T) *chi.Mux {
		t.Helper()

		db := testutil.SetupTestDB(t)
		dispatcher := notifier.NewDispatcher()
		dispatcher.Register("webhook", notifier.LogNotifier{})
		dispatcher.Register("email", notifier.LogNotifier{})
		handler := handlers.NewSettingsHandler(testutil.NewTestSettingsService(t, db), dispatcher)

		r := chi.NewRouter()
		r.Get("/api/settings", handler.Settings)
		r.Put("/api/settings", handler.UpdateSettings)
		return r
	}

	t.Run("updates and reads back non-secret settings", func(t *testing.T) {
		r := setup(t)

		body := bytes.NewBufferString(`{"recipientEmail":"alerts@example.com","webhookUrl":"https://hooks.example.com/abc"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/settings", body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
		}

		req = httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var settings handlers.SettingsResponse
		decodeJSON(t, rec, &settings)
		if settings.RecipientEmail != "alerts@example.com" {
			t.Errorf("Expected the stored recipient back, got %q", settings.RecipientEmail)
		}
		if settings.WebhookURL != "https://hooks.example.com/abc" {
			t.Errorf("Expected the stored webhook back, got %q", settings.WebhookURL)
		}
		if len(settings.Channels) != 2 || settings.Channels[0] != "email" || settings.Channels[1] != "webhook" {
			t.Errorf("Expected registered channels [email webhook], got %v", settings.Channels)
		}
	})

	t.Run("rejects a malformed recipient email", func(t *testing.T) {
		r := setup(t)

		body := bytes.NewBufferString(`{"recipientEmail":"not-an-email"}`)
		req := httptest.NewRequest(http.MethodPut, "/api/settings", body)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}

// TestSystemHandler tests the health and version endpoints.
func TestSystemHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewSystemHandler(db)

	r := chi.NewRouter()
	r.Get("/api/system/health", handler.Health)
	r.Get("/api/system/version", handler.Version)

	t.Run("health reports ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var body map[string]string
		decodeJSON(t, rec, &body)
		if body["status"] != "ok" {
			t.Errorf("Expected status ok, got %q", body["status"])
		}
	})

	t.Run("version reports the build version", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var body map[string]string
		decodeJSON(t, rec, &body)
		if body["version"] == "" {
			t.Error("Expected a non-empty version")
		}
	})
}
