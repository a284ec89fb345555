package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/notifier"
	"github.com/stockguardian/stock-guardian-backend/internal/pricing"
	"github.com/stockguardian/stock-guardian-backend/internal/repository"
)

// EngineService orchestrates one evaluation cycle over the portfolio:
// fetch quotes, valuate every position, evaluate alert rules and dispatch
// notifications for the rules that triggered.
//
// Positions are independent within a cycle, so quote fetches fan out in
// parallel with a bounded group. The valuate-then-evaluate step for one
// position commits as a unit; the fired-flag transition inside the rule
// store is the only shared mutable state.
type EngineService struct {
	positionRepo *repository.PositionRepository
	ruleRepo     *repository.AlertRuleRepository
	source       pricing.Source
	valuation    *ValuationService
	alerts       *AlertService
	dispatcher   *notifier.Dispatcher
	settings     *SettingsService
	channels     []string
	parallelism  int
}

// NewEngineService creates an EngineService with the provided collaborators.
// channels lists the notification channels triggered alerts are dispatched
// to; parallelism bounds the quote fan-out.
func NewEngineService(
	positionRepo *repository.PositionRepository,
	ruleRepo *repository.AlertRuleRepository,
	source pricing.Source,
	valuation *ValuationService,
	alerts *AlertService,
	dispatcher *notifier.Dispatcher,
	settings *SettingsService,
	channels []string,
	parallelism int,
) *EngineService {
	if parallelism < 1 {
		parallelism = 1
	}
	return &EngineService{
		positionRepo: positionRepo,
		ruleRepo:     ruleRepo,
		source:       source,
		valuation:    valuation,
		alerts:       alerts,
		dispatcher:   dispatcher,
		settings:     settings,
		channels:     channels,
		parallelism:  parallelism,
	}
}

// PositionResult captures the outcome for one position in a cycle. Either
// Valuation is set, or Error explains why the position was skipped this
// cycle (a failed quote is a skip, not a non-trigger).
type PositionResult struct {
	Position  model.Position         `json:"position"`
	Valuation *model.Valuation       `json:"valuation,omitempty"`
	Triggered []model.TriggeredAlert `json:"triggered,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// PortfolioTotals aggregates the valuated positions of a cycle.
// PnLPctValid is false when nothing could be valuated or the invested total
// is zero.
type PortfolioTotals struct {
	MarketValue   float64 `json:"marketValue"`
	InvestedValue float64 `json:"investedValue"`
	PnL           float64 `json:"pnl"`
	PnLPct        float64 `json:"pnlPct"`
	PnLPctValid   bool    `json:"pnlPctValid"`
}

// CycleReport is the outcome of one full evaluation cycle.
type CycleReport struct {
	Results   []PositionResult `json:"results"`
	Totals    PortfolioTotals  `json:"totals"`
	Skipped   int              `json:"skipped"`
	Triggered int              `json:"triggered"`
}

// RunCycle executes one complete cycle: valuate all positions, evaluate
// their alert rules and dispatch notifications for triggered rules.
//
// Failures degrade a single position: a symbol whose quote fails is skipped
// for the cycle (its rules are neither triggered nor treated as not-met) and
// the cycle continues. The cycle is cancellable between positions via ctx.
func (s *EngineService) RunCycle(ctx context.Context) (CycleReport, error) {
	report, err := s.valuatePortfolio(ctx)
	if err != nil {
		return CycleReport{}, err
	}

	for i := range report.Results {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := &report.Results[i]
		if result.Valuation == nil {
			continue
		}

		rules, err := s.ruleRepo.GetActiveRulesOnPositionID(result.Position.ID)
		if err != nil {
			log.Printf("failed to load rules for position %s: %v", result.Position.ID, err)
			continue
		}

		triggered, err := s.alerts.Evaluate(*result.Valuation, rules)
		if err != nil {
			log.Printf("failed to evaluate rules for position %s: %v", result.Position.ID, err)
			continue
		}

		result.Triggered = triggered
		report.Triggered += len(triggered)

		s.notify(ctx, triggered)
	}

	return report, nil
}

// Summary valuates the portfolio without touching alert rules. Used by the
// dashboard so that rendering never mutates engine state.
func (s *EngineService) Summary(ctx context.Context) (CycleReport, error) {
	return s.valuatePortfolio(ctx)
}

// valuatePortfolio fetches quotes for all positions in parallel and
// valuates each one, producing per-position results and portfolio totals.
func (s *EngineService) valuatePortfolio(ctx context.Context) (CycleReport, error) {
	positions, err := s.positionRepo.GetPositions()
	if err != nil {
		return CycleReport{}, fmt.Errorf("failed to load positions: %w", err)
	}

	results := make([]PositionResult, len(positions))

	// Dedup before launching: one fetch per distinct symbol, no matter how
	// many positions share it.
	symbols := make([]string, 0, len(positions))
	seen := make(map[string]struct{}, len(positions))
	for _, position := range positions {
		if _, ok := seen[position.Symbol]; ok {
			continue
		}
		seen[position.Symbol] = struct{}{}
		symbols = append(symbols, position.Symbol)
	}

	var mu sync.Mutex
	quotes := make(map[string]model.Quote)
	quoteErrs := make(map[string]error)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			quote, err := s.source.GetQuote(gctx, symbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				quoteErrs[symbol] = err
				// A failed symbol never fails the cycle.
				return nil
			}
			quotes[symbol] = quote
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return CycleReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return CycleReport{}, err
	}

	report := CycleReport{}

	for i, position := range positions {
		results[i] = PositionResult{Position: position}

		if qerr, ok := quoteErrs[position.Symbol]; ok {
			results[i].Error = qerr.Error()
			report.Skipped++
			log.Printf("skipping position %s (%s): %v", position.ID, position.Symbol, qerr)
			continue
		}

		quote, ok := quotes[position.Symbol]
		if !ok {
			// Fan-out cancelled before this symbol was fetched.
			results[i].Error = "quote not fetched"
			report.Skipped++
			continue
		}

		valuation, err := s.valuation.Valuate(position, quote)
		if err != nil {
			results[i].Error = err.Error()
			report.Skipped++
			log.Printf("skipping position %s (%s): %v", position.ID, position.Symbol, err)
			continue
		}

		results[i].Valuation = &valuation
		report.Totals.MarketValue += valuation.MarketValue
		report.Totals.InvestedValue += valuation.InvestedValue
		report.Totals.PnL += valuation.PnL
	}

	if report.Totals.InvestedValue != 0 {
		report.Totals.PnLPct = report.Totals.PnL / report.Totals.InvestedValue * 100
		report.Totals.PnLPctValid = true
	}

	report.Results = results
	return report, nil
}

// notify dispatches triggered alerts over every configured channel.
// Delivery failures are logged and otherwise ignored: the rules stay fired,
// re-arming them is a user action.
func (s *EngineService) notify(ctx context.Context, triggered []model.TriggeredAlert) {
	if len(triggered) == 0 || s.dispatcher == nil {
		return
	}

	recipient, err := s.settings.RecipientEmail()
	if err != nil {
		log.Printf("failed to load notification recipient: %v", err)
		recipient = ""
	}

	for _, alert := range triggered {
		subject := fmt.Sprintf("StockGuardian Alert - %s", alert.Symbol)
		for _, channel := range s.channels {
			if err := s.dispatcher.Send(ctx, channel, recipient, subject, alert.Message); err != nil {
				log.Printf("failed to deliver alert %s over %s: %v", alert.RuleID, channel, err)
			}
		}
	}
}
