package service

import (
	"fmt"
	"log"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/repository"
)

// AlertService evaluates alert rules against freshly computed valuations.
// It owns the single-fire state machine: a rule that triggers is marked
// fired in the same evaluation pass, before any notification is dispatched,
// so a crash between detection and delivery cannot double-fire on retry.
type AlertService struct {
	ruleRepo *repository.AlertRuleRepository
}

// NewAlertService creates a new AlertService with the provided repository.
func NewAlertService(ruleRepo *repository.AlertRuleRepository) *AlertService {
	return &AlertService{ruleRepo: ruleRepo}
}

// Evaluate checks each rule against the valuation and returns the alerts
// that triggered on this pass.
//
// Per rule:
//   - Rules already fired are skipped entirely.
//   - PriceAbove(t) triggers when current price >= t.
//   - ProfitPctAbove(t) triggers when the P&L percentage is defined and >= t.
//   - DropPctAbove(t) triggers when the P&L percentage is defined and <= -t
//     (t is a positive magnitude).
//
// On trigger the rule is marked fired synchronously. MarkFired only reports
// a transition for the caller that flips the flag, so concurrent evaluation
// of the same rule still yields at most one TriggeredAlert per arming.
func (s *AlertService) Evaluate(valuation model.Valuation, rules []model.AlertRule) ([]model.TriggeredAlert, error) {
	triggered := []model.TriggeredAlert{}

	for _, rule := range rules {
		if rule.Fired {
			continue
		}

		observed, message, hit := s.check(valuation, rule)
		if !hit {
			continue
		}

		transitioned, err := s.ruleRepo.MarkFired(rule.ID)
		if err != nil {
			// The rule stays armed; the next cycle retries it.
			log.Printf("failed to mark rule %s fired: %v", rule.ID, err)
			continue
		}
		if !transitioned {
			// Another evaluation got there first.
			continue
		}

		triggered = append(triggered, model.TriggeredAlert{
			PositionID:    rule.PositionID,
			RuleID:        rule.ID,
			Symbol:        valuation.Symbol,
			Kind:          rule.Kind,
			Threshold:     rule.Threshold,
			ObservedValue: observed,
			Message:       message,
		})
	}

	return triggered, nil
}

// CreateRule adds a rule for a position. An identical (position, kind,
// threshold) rule collapses onto the existing row, which is returned along
// with apperrors.ErrDuplicateRule.
func (s *AlertService) CreateRule(positionID string, kind model.AlertKind, threshold float64) (model.AlertRule, error) {
	return s.ruleRepo.CreateRule(positionID, kind, threshold)
}

// ListRules returns every alert rule.
func (s *AlertService) ListRules() ([]model.AlertRule, error) {
	return s.ruleRepo.GetAllRules()
}

// ListRulesForPosition returns the rules attached to one position.
func (s *AlertService) ListRulesForPosition(positionID string) ([]model.AlertRule, error) {
	return s.ruleRepo.GetRulesOnPositionID(positionID)
}

// ResetRule re-arms a fired rule.
func (s *AlertService) ResetRule(ruleID string) error {
	return s.ruleRepo.ResetRule(ruleID)
}

// RemoveRule deletes a rule.
func (s *AlertService) RemoveRule(ruleID string) error {
	return s.ruleRepo.DeleteRule(ruleID)
}

// check decides whether a single rule's condition is met and renders the
// notification message for it.
func (s *AlertService) check(v model.Valuation, rule model.AlertRule) (observed float64, message string, hit bool) {
	switch rule.Kind {
	case model.PriceAbove:
		if v.CurrentPrice >= rule.Threshold {
			message = fmt.Sprintf("%s hit target $%.2f (now $%.2f)", v.Symbol, rule.Threshold, v.CurrentPrice)
			return v.CurrentPrice, message, true
		}
	case model.ProfitPctAbove:
		if v.PnLPctValid && v.PnLPct >= rule.Threshold {
			message = fmt.Sprintf("%s profit reached %.1f%% (now %.1f%%)", v.Symbol, rule.Threshold, v.PnLPct)
			return v.PnLPct, message, true
		}
	case model.DropPctAbove:
		if v.PnLPctValid && v.PnLPct <= -rule.Threshold {
			message = fmt.Sprintf("%s dropped %.1f%% (now %.1f%%)", v.Symbol, rule.Threshold, v.PnLPct)
			return v.PnLPct, message, true
		}
	}

	return 0, "", false
}
