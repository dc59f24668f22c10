package services

import (
	"fmt"

	"parimarket/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OddsService converts a market's bet pool into parimutuel payout
// multipliers: each option pays total pool over its own pool, so the house
// takes no cut and early, lightly-backed options pay more.
type OddsService struct{}

func NewOddsService() *OddsService {
	return &OddsService{}
}

// ComputeOdds maps per-option pending stakes to payout multipliers. Options
// with no backing pay 1.0; there is nobody to pay them from. When a single
// option holds the whole pool its odds are exactly 1.0.
func (s *OddsService) ComputeOdds(pool map[uint]int64) map[uint]decimal.Decimal {
	var total int64
	for _, staked := range pool {
		total += staked
	}

	odds := make(map[uint]decimal.Decimal, len(pool))
	for optionID, staked := range pool {
		if staked <= 0 || total <= 0 {
			odds[optionID] = decimal.NewFromInt(1)
			continue
		}
		odds[optionID] = decimal.NewFromInt(total).Div(decimal.NewFromInt(staked))
	}
	return odds
}

// RecomputeMarketOdds refreshes the odds of every option of a market from the
// pool of pending single bets. It must run inside the placement transaction
// so the pool already includes the bet being placed.
func (s *OddsService) RecomputeMarketOdds(tx *gorm.DB, marketID uint) error {
	var options []models.Option
	if err := tx.Where("market_id = ?", marketID).Find(&options).Error; err != nil {
		return fmt.Errorf("failed to load options for market %d: %w", marketID, err)
	}

	type optionPool struct {
		OptionID uint
		Total    int64
	}
	var pools []optionPool
	if err := tx.Model(&models.Bet{}).
		Select("option_id, COALESCE(SUM(amount), 0) AS total").
		Where("market_id = ? AND status = ?", marketID, models.WagerStatusPending).
		Group("option_id").
		Scan(&pools).Error; err != nil {
		return fmt.Errorf("failed to sum bet pool for market %d: %w", marketID, err)
	}

	pool := make(map[uint]int64, len(options))
	for _, o := range options {
		pool[o.ID] = 0
	}
	for _, p := range pools {
		pool[p.OptionID] = p.Total
	}

	odds := s.ComputeOdds(pool)
	for _, o := range options {
		if err := tx.Model(&models.Option{}).Where("id = ?", o.ID).
			Update("odds", odds[o.ID]).Error; err != nil {
			return fmt.Errorf("failed to update odds for option %d: %w", o.ID, err)
		}
	}
	return nil
}
