package services

import (
	"errors"
	"fmt"

	"parimarket/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// settlementOutcome is the shared result variant for a settled wager: either
// won with the credited amount, or lost. Bets and parlays both settle through
// this shape so the streak/profit bookkeeping exists exactly once.
type settlementOutcome struct {
	Won    bool
	Amount int64
}

// StatsService maintains the per-user rollup. Placement counters are written
// as conflict-free increments; settlement updates read-modify-write the row
// because streaks depend on its current value. Both paths run inside the
// caller's transaction.
type StatsService struct{}

func NewStatsService() *StatsService {
	return &StatsService{}
}

// RecordBetPlaced folds a new single bet into the rollup, creating the row
// lazily on the user's first wager. Profit dips by the stake until settlement
// confirms a win.
func (s *StatsService) RecordBetPlaced(tx *gorm.DB, userID uint, amount int64) error {
	seed := models.UserStats{
		UserID:       userID,
		TotalBets:    1,
		TotalWagered: amount,
		Profit:       -amount,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_bets":    gorm.Expr("total_bets + 1"),
			"total_wagered": gorm.Expr("total_wagered + ?", amount),
			"profit":        gorm.Expr("profit - ?", amount),
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&seed).Error
	if err != nil {
		return fmt.Errorf("failed to record bet placement stats for user %d: %w", userID, err)
	}
	return nil
}

// RecordParlayPlaced folds a new parlay into the rollup. Per-leg won/lost
// counters stay untouched here; legs are outstanding until settlement.
func (s *StatsService) RecordParlayPlaced(tx *gorm.DB, userID uint, legCount int, amount int64) error {
	seed := models.UserStats{
		UserID:          userID,
		TotalParlays:    1,
		TotalParlayLegs: int64(legCount),
		TotalWagered:    amount,
		Profit:          -amount,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_parlays":     gorm.Expr("total_parlays + 1"),
			"total_parlay_legs": gorm.Expr("total_parlay_legs + ?", legCount),
			"total_wagered":     gorm.Expr("total_wagered + ?", amount),
			"profit":            gorm.Expr("profit - ?", amount),
			"updated_at":        gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&seed).Error
	if err != nil {
		return fmt.Errorf("failed to record parlay placement stats for user %d: %w", userID, err)
	}
	return nil
}

// RecordBetOutcome folds one settled single bet into the rollup.
func (s *StatsService) RecordBetOutcome(tx *gorm.DB, userID uint, outcome settlementOutcome) error {
	stats, err := s.loadOrCreate(tx, userID)
	if err != nil {
		return err
	}

	if outcome.Won {
		stats.BetsWon++
	} else {
		stats.BetsLost++
	}
	applyOutcome(stats, outcome)

	return s.save(tx, stats)
}

// RecordParlayOutcome folds one terminally settled parlay into the rollup,
// attributing its resolved legs. Legs of a lost parlay whose markets never
// resolved stay unattributed.
func (s *StatsService) RecordParlayOutcome(tx *gorm.DB, userID uint, outcome settlementOutcome, legsWon, legsLost int) error {
	stats, err := s.loadOrCreate(tx, userID)
	if err != nil {
		return err
	}

	if outcome.Won {
		stats.ParlaysWon++
	} else {
		stats.ParlaysLost++
	}
	stats.ParlayLegsWon += int64(legsWon)
	stats.ParlayLegsLost += int64(legsLost)
	applyOutcome(stats, outcome)

	return s.save(tx, stats)
}

// RefreshDerived recomputes ROI and the most common bet label. ROI stays nil
// while nothing has been wagered: profit over zero stake is undefined, not
// zero.
func (s *StatsService) RefreshDerived(tx *gorm.DB, userID uint) error {
	stats, err := s.loadOrCreate(tx, userID)
	if err != nil {
		return err
	}

	if stats.TotalWagered > 0 {
		roi := float64(stats.Profit) / float64(stats.TotalWagered)
		stats.ROI = &roi
	} else {
		stats.ROI = nil
	}

	var labels []string
	if err := tx.Model(&models.Bet{}).
		Joins("JOIN options ON options.id = bets.option_id").
		Where("bets.user_id = ?", userID).
		Group("options.label").
		Order("COUNT(bets.id) DESC").
		Limit(1).
		Pluck("options.label", &labels).Error; err != nil {
		return fmt.Errorf("failed to find most common bet for user %d: %w", userID, err)
	}
	if len(labels) > 0 {
		stats.MostCommonBet = labels[0]
	}

	return s.save(tx, stats)
}

// Get returns the user's rollup, creating an empty one on first access.
func (s *StatsService) Get(tx *gorm.DB, userID uint) (*models.UserStats, error) {
	return s.loadOrCreate(tx, userID)
}

// applyOutcome is the single place streak, profit and biggest-win bookkeeping
// happens for any settled wager.
func applyOutcome(stats *models.UserStats, outcome settlementOutcome) {
	if outcome.Won {
		stats.TotalWon += outcome.Amount
		stats.Profit += outcome.Amount
		if outcome.Amount > stats.BiggestWin {
			stats.BiggestWin = outcome.Amount
		}
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestStreak {
			stats.LongestStreak = stats.CurrentStreak
		}
	} else {
		stats.CurrentStreak = 0
	}
}

func (s *StatsService) loadOrCreate(tx *gorm.DB, userID uint) (*models.UserStats, error) {
	var stats models.UserStats
	err := tx.Where("user_id = ?", userID).First(&stats).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.UserStats{UserID: userID}
		if err := tx.Create(&stats).Error; err != nil {
			return nil, fmt.Errorf("failed to create stats for user %d: %w", userID, err)
		}
		return &stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load stats for user %d: %w", userID, err)
	}
	return &stats, nil
}

func (s *StatsService) save(tx *gorm.DB, stats *models.UserStats) error {
	if err := tx.Save(stats).Error; err != nil {
		return fmt.Errorf("failed to save stats for user %d: %w", stats.UserID, err)
	}
	return nil
}
