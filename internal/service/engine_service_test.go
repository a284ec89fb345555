package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/notifier"
	"github.com/stockguardian/stock-guardian-backend/internal/testutil"
)

// TestEngineService_RunCycle tests the full evaluation cycle: quote fan-out,
// valuation, rule evaluation and notification dispatch.
//
// WHY: The cycle is where the isolation guarantees live. One failing symbol
// must degrade one position, not the cycle, and a triggered rule must produce
// exactly one notification across repeated cycles.
func TestEngineService_RunCycle(t *testing.T) {
	t.Run("a failed quote skips one position, not the cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		testutil.NewPosition().WithSymbol("AAPL").WithQuantity(10).WithCostBasis(100).Build(t, db)
		testutil.NewPosition().WithSymbol("MSFT").WithQuantity(5).WithCostBasis(200).Build(t, db)
		testutil.NewPosition().WithSymbol("NOPE").Build(t, db)

		source := testutil.NewMockPriceSource().
			WithQuote("AAPL", 120).
			WithQuote("MSFT", 250).
			WithQuoteError("NOPE", apperrors.ErrSymbolNotFound)

		engine := testutil.NewTestEngineService(t, db, source, nil, nil)

		report, err := engine.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("RunCycle() returned unexpected error: %v", err)
		}

		if len(report.Results) != 3 {
			t.Fatalf("Expected a result per position, got %d", len(report.Results))
		}
		if report.Skipped != 1 {
			t.Errorf("Expected exactly one skipped position, got %d", report.Skipped)
		}

		valuated := 0
		for _, r := range report.Results {
			switch r.Position.Symbol {
			case "NOPE":
				if r.Valuation != nil {
					t.Error("Expected the failing symbol to carry no valuation")
				}
				if r.Error == "" {
					t.Error("Expected the failing symbol to carry an error")
				}
			default:
				if r.Valuation == nil {
					t.Errorf("Expected %s to be valuated despite the failing symbol", r.Position.Symbol)
					continue
				}
				valuated++
			}
		}
		if valuated != 2 {
			t.Errorf("Expected two valuated positions, got %d", valuated)
		}

		// Totals cover only the valuated positions: 10*120 + 5*250.
		if report.Totals.MarketValue != 2450 {
			t.Errorf("Expected market value 2450, got %v", report.Totals.MarketValue)
		}
		if report.Totals.InvestedValue != 2000 {
			t.Errorf("Expected invested value 2000, got %v", report.Totals.InvestedValue)
		}
	})

	t.Run("a triggered rule notifies exactly once across cycles", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		position := testutil.NewPosition().WithSymbol("AAPL").WithQuantity(10).WithCostBasis(100).Build(t, db)
		testutil.NewAlertRule(position.ID).
			WithKind(model.ProfitPctAbove).
			WithThreshold(15).
			Build(t, db)

		source := testutil.NewMockPriceSource().WithQuote("AAPL", 120)

		recorder := &testutil.RecordingNotifier{}
		dispatcher := notifier.NewDispatcher()
		dispatcher.Register("email", recorder)

		engine := testutil.NewTestEngineService(t, db, source, dispatcher, []string{"email"})

		report, err := engine.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("RunCycle() returned unexpected error: %v", err)
		}
		if report.Triggered != 1 {
			t.Fatalf("Expected one triggered rule, got %d", report.Triggered)
		}
		if recorder.Count() != 1 {
			t.Fatalf("Expected one notification, got %d", recorder.Count())
		}

		sent := recorder.Sent[0]
		if sent.Subject != "StockGuardian Alert - AAPL" {
			t.Errorf("Unexpected subject: %q", sent.Subject)
		}
		if !strings.Contains(sent.Message, "AAPL profit reached 15.0%") {
			t.Errorf("Unexpected message: %q", sent.Message)
		}

		// Same quote, second cycle: the rule is fired, nothing new goes out.
		report, err = engine.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("RunCycle() returned unexpected error: %v", err)
		}
		if report.Triggered != 0 {
			t.Errorf("Expected no triggers on the second cycle, got %d", report.Triggered)
		}
		if recorder.Count() != 1 {
			t.Errorf("Expected no further notifications, got %d", recorder.Count())
		}
	})

	t.Run("rules on a skipped position are left untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		position := testutil.NewPosition().WithSymbol("NOPE").Build(t, db)
		rule := testutil.NewAlertRule(position.ID).
			WithKind(model.PriceAbove).
			WithThreshold(1).
			Build(t, db)

		source := testutil.NewMockPriceSource().
			WithQuoteError("NOPE", apperrors.ErrQuoteUnavailable)

		engine := testutil.NewTestEngineService(t, db, source, nil, nil)

		report, err := engine.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("RunCycle() returned unexpected error: %v", err)
		}
		if report.Triggered != 0 {
			t.Errorf("Expected no triggers for a skipped position, got %d", report.Triggered)
		}

		var fired bool
		if err := db.QueryRow("SELECT fired FROM alert_rule WHERE id = ?", rule.ID).Scan(&fired); err != nil {
			t.Fatalf("Failed to read rule state: %v", err)
		}
		if fired {
			t.Error("Expected the rule on a skipped position to remain armed")
		}
	})

	t.Run("duplicate symbols are fetched once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		testutil.NewPosition().WithSymbol("AAPL").Build(t, db)
		testutil.NewPosition().WithSymbol("AAPL").WithQuantity(3).Build(t, db)
		testutil.NewPosition().WithSymbol("MSFT").Build(t, db)

		source := testutil.NewMockPriceSource().
			WithQuote("AAPL", 120).
			WithQuote("MSFT", 250)

		engine := testutil.NewTestEngineService(t, db, source, nil, nil)

		report, err := engine.RunCycle(context.Background())
		if err != nil {
			t.Fatalf("RunCycle() returned unexpected error: %v", err)
		}
		// One fetch per distinct symbol, regardless of how many positions
		// share it or how the fan-out interleaves.
		if source.QuoteCalls != 2 {
			t.Errorf("Expected one quote fetch per distinct symbol, got %d", source.QuoteCalls)
		}
		for _, r := range report.Results {
			if r.Valuation == nil {
				t.Errorf("Expected %s to be valuated from the shared fetch", r.Position.Symbol)
			}
		}
	})

	t.Run("a cancelled context stops the cycle", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		testutil.NewPosition().Build(t, db)

		source := testutil.NewMockPriceSource().WithQuote("AAPL", 120)
		engine := testutil.NewTestEngineService(t, db, source, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := engine.RunCycle(ctx); err == nil {
			t.Error("Expected an error from a cancelled cycle")
		}
	})
}

// TestEngineService_Summary tests the read-only portfolio view.
//
// WHY: The dashboard summary must never consume a rule's single fire;
// rendering twice then running a cycle still has to notify.
func TestEngineService_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)

	position := testutil.NewPosition().WithSymbol("AAPL").WithQuantity(10).WithCostBasis(100).Build(t, db)
	testutil.NewAlertRule(position.ID).
		WithKind(model.PriceAbove).
		WithThreshold(110).
		Build(t, db)

	source := testutil.NewMockPriceSource().WithQuote("AAPL", 120)

	recorder := &testutil.RecordingNotifier{}
	dispatcher := notifier.NewDispatcher()
	dispatcher.Register("email", recorder)

	engine := testutil.NewTestEngineService(t, db, source, dispatcher, []string{"email"})

	for i := 0; i < 2; i++ {
		report, err := engine.Summary(context.Background())
		if err != nil {
			t.Fatalf("Summary() returned unexpected error: %v", err)
		}
		if report.Totals.MarketValue != 1200 {
			t.Errorf("Expected market value 1200, got %v", report.Totals.MarketValue)
		}
		if report.Triggered != 0 {
			t.Errorf("Expected the summary to trigger nothing, got %d", report.Triggered)
		}
	}
	if recorder.Count() != 0 {
		t.Fatalf("Expected no notifications from summaries, got %d", recorder.Count())
	}

	report, err := engine.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() returned unexpected error: %v", err)
	}
	if report.Triggered != 1 {
		t.Errorf("Expected the rule to still be armed for the cycle, got %d triggers", report.Triggered)
	}
	if recorder.Count() != 1 {
		t.Errorf("Expected one notification from the cycle, got %d", recorder.Count())
	}
}
