package service

import (
	"strings"
	"time"

	"github.com/stockguardian/stock-guardian-backend/internal/model"
	"github.com/stockguardian/stock-guardian-backend/internal/repository"
)

// HoldingsService manages the user's position list. The engine reads
// positions through this service; writes happen only on explicit user
// actions.
type HoldingsService struct {
	positionRepo *repository.PositionRepository
}

// NewHoldingsService creates a new HoldingsService with the provided repository.
func NewHoldingsService(positionRepo *repository.PositionRepository) *HoldingsService {
	return &HoldingsService{positionRepo: positionRepo}
}

// ListPositions returns all recorded positions.
func (s *HoldingsService) ListPositions() ([]model.Position, error) {
	return s.positionRepo.GetPositions()
}

// GetPosition returns a single position by ID.
func (s *HoldingsService) GetPosition(positionID string) (model.Position, error) {
	return s.positionRepo.GetPositionOnID(positionID)
}

// AddPosition records a new holding. The symbol is normalized to upper case;
// a zero acquiredAt defaults to now.
func (s *HoldingsService) AddPosition(symbol string, quantity, costBasis float64, acquiredAt time.Time) (model.Position, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if acquiredAt.IsZero() {
		acquiredAt = time.Now().UTC()
	}

	return s.positionRepo.CreatePosition(symbol, quantity, costBasis, acquiredAt)
}

// RemovePosition deletes a holding together with its alert rules.
func (s *HoldingsService) RemovePosition(positionID string) error {
	return s.positionRepo.DeletePosition(positionID)
}
