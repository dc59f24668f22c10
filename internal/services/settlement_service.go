package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parimarket/internal/events"
	"parimarket/internal/metrics"
	"parimarket/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettlementService transitions every bet and parlay that depends on a market
// to a terminal state in one atomic unit of work: mark the market resolved,
// credit winners, append ledger records, and fold outcomes into the per-user
// rollups. Resolving an already-resolved market fails with ErrAlreadyResolved
// and never re-credits.
type SettlementService struct {
	db        *gorm.DB
	stats     *StatsService
	publisher events.Publisher
	locks     *MarketLocks
	logger    *zap.Logger
}

func NewSettlementService(db *gorm.DB, publisher events.Publisher, locks *MarketLocks, logger *zap.Logger) *SettlementService {
	return &SettlementService{
		db:        db,
		stats:     NewStatsService(),
		publisher: publisher,
		locks:     locks,
		logger:    logger,
	}
}

// ResolveMarket resolves a market with its winning option and settles every
// dependent wager. Returns the market in its resolved state, with options,
// for confirmation and auditing.
func (s *SettlementService) ResolveMarket(ctx context.Context, marketID, winningOptionID uint) (*models.Market, error) {
	unlock := s.locks.Lock(marketID)
	defer unlock()

	var market models.Market
	touched := make(map[uint]struct{})

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Options").First(&market, "id = ?", marketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("market %d: %w", marketID, models.ErrOptionNotFound)
			}
			return fmt.Errorf("failed to load market %d: %w", marketID, err)
		}
		if market.Resolved {
			return fmt.Errorf("market %d: %w", marketID, models.ErrAlreadyResolved)
		}

		winningOption := findOption(market.Options, winningOptionID)
		if winningOption == nil {
			return fmt.Errorf("option %d does not belong to market %d: %w",
				winningOptionID, marketID, models.ErrOptionNotFound)
		}

		now := time.Now()
		if err := tx.Model(&models.Market{}).Where("id = ?", marketID).Updates(map[string]interface{}{
			"resolved":          true,
			"resolved_at":       now,
			"winning_option_id": winningOptionID,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark market %d resolved: %w", marketID, err)
		}
		market.Resolved = true
		market.ResolvedAt = &now
		market.WinningOptionID = &winningOptionID

		if err := s.settleBets(tx, &market, winningOptionID, now, touched); err != nil {
			return err
		}
		if err := s.settleParlays(tx, &market, winningOptionID, now, touched); err != nil {
			return err
		}

		for userID := range touched {
			if err := s.stats.RefreshDerived(tx, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MarketsResolved.Inc()
	if err := s.publisher.PublishMarketResolved(ctx, events.MarketResolved{Market: market}); err != nil {
		s.logger.Warn("failed to publish market.resolved", zap.Uint("market_id", marketID), zap.Error(err))
	}
	return &market, nil
}

// settleBets moves every pending single bet on the market to WON or LOST,
// crediting winners their frozen potential payout.
func (s *SettlementService) settleBets(tx *gorm.DB, market *models.Market, winningOptionID uint, now time.Time, touched map[uint]struct{}) error {
	var bets []models.Bet
	if err := tx.Where("market_id = ? AND status = ?", market.ID, models.WagerStatusPending).
		Find(&bets).Error; err != nil {
		return fmt.Errorf("failed to load pending bets for market %d: %w", market.ID, err)
	}

	for i := range bets {
		bet := &bets[i]
		outcome := settlementOutcome{Won: bet.OptionID == winningOptionID, Amount: bet.PotentialPayout}

		updates := map[string]interface{}{
			"status":     models.WagerStatusLost,
			"settled_at": now,
		}
		if outcome.Won {
			updates["status"] = models.WagerStatusWon
			updates["payout"] = bet.PotentialPayout

			err := s.credit(tx, bet.UserID, bet.PotentialPayout, &bet.ID, nil,
				fmt.Sprintf("winnings for bet %d", bet.ID))
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The bet still settles; the credit is simply not deliverable.
				s.logger.Warn("settling bet without credit: user record missing",
					zap.Uint("bet_id", bet.ID), zap.Uint("user_id", bet.UserID))
			} else if err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Bet{}).Where("id = ?", bet.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to settle bet %d: %w", bet.ID, err)
		}

		if err := s.stats.RecordBetOutcome(tx, bet.UserID, outcome); err != nil {
			return err
		}
		touched[bet.UserID] = struct{}{}
	}
	return nil
}

// settleParlays marks this market's legs won or lost, then settles every
// parlay that reached a terminal state: lost the moment any leg lost, won and
// credited only when the last outstanding leg resolved favorably.
func (s *SettlementService) settleParlays(tx *gorm.DB, market *models.Market, winningOptionID uint, now time.Time, touched map[uint]struct{}) error {
	var legs []models.ParlayLeg
	if err := tx.Where("market_id = ?", market.ID).Find(&legs).Error; err != nil {
		return fmt.Errorf("failed to load parlay legs for market %d: %w", market.ID, err)
	}

	parlayIDs := make([]uint, 0, len(legs))
	seen := make(map[uint]struct{}, len(legs))
	for i := range legs {
		won := legs[i].OptionID == winningOptionID
		if err := tx.Model(&models.ParlayLeg{}).Where("id = ?", legs[i].ID).
			Update("won", won).Error; err != nil {
			return fmt.Errorf("failed to mark parlay leg %d: %w", legs[i].ID, err)
		}
		if _, ok := seen[legs[i].ParlayID]; !ok {
			seen[legs[i].ParlayID] = struct{}{}
			parlayIDs = append(parlayIDs, legs[i].ParlayID)
		}
	}

	for _, parlayID := range parlayIDs {
		var parlay models.Parlay
		if err := tx.Preload("Legs").First(&parlay, "id = ?", parlayID).Error; err != nil {
			return fmt.Errorf("failed to load parlay %d: %w", parlayID, err)
		}
		if parlay.Status != models.WagerStatusPending {
			continue
		}

		outcome, terminal := parlayOutcome(&parlay)
		if !terminal {
			continue // other markets still outstanding
		}

		updates := map[string]interface{}{
			"status":     models.WagerStatusLost,
			"settled_at": now,
		}
		if outcome.Won {
			updates["status"] = models.WagerStatusWon
			updates["payout"] = parlay.PotentialPayout

			err := s.credit(tx, parlay.UserID, parlay.PotentialPayout, nil, &parlay.ID,
				fmt.Sprintf("winnings for parlay %d", parlay.ID))
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("settling parlay without credit: user record missing",
					zap.Uint("parlay_id", parlay.ID), zap.Uint("user_id", parlay.UserID))
			} else if err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Parlay{}).Where("id = ?", parlay.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to settle parlay %d: %w", parlay.ID, err)
		}

		legsWon, legsLost := countResolvedLegs(&parlay)
		if err := s.stats.RecordParlayOutcome(tx, parlay.UserID, outcome, legsWon, legsLost); err != nil {
			return err
		}
		touched[parlay.UserID] = struct{}{}
	}
	return nil
}

// credit adds the payout to the user's balance and appends the CREDIT ledger
// record. Returns gorm.ErrRecordNotFound when the user row is gone.
func (s *SettlementService) credit(tx *gorm.DB, userID uint, amount int64, betID, parlayID *uint, description string) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := appendLedger(tx, userID, models.LedgerTypeCredit, amount, betID, parlayID, description); err != nil {
		return err
	}
	metrics.LedgerCredits.Inc()
	return nil
}

// parlayOutcome reports whether the parlay reached a terminal state. A single
// lost leg loses the whole parlay immediately, regardless of outstanding
// legs; winning requires every leg resolved in its holder's favor.
func parlayOutcome(p *models.Parlay) (settlementOutcome, bool) {
	allResolved := true
	for i := range p.Legs {
		leg := &p.Legs[i]
		if leg.Won == nil {
			allResolved = false
			continue
		}
		if !*leg.Won {
			return settlementOutcome{Won: false}, true
		}
	}
	if allResolved {
		return settlementOutcome{Won: true, Amount: p.PotentialPayout}, true
	}
	return settlementOutcome{}, false
}

func countResolvedLegs(p *models.Parlay) (won, lost int) {
	for i := range p.Legs {
		if p.Legs[i].Won == nil {
			continue
		}
		if *p.Legs[i].Won {
			won++
		} else {
			lost++
		}
	}
	return won, lost
}

func findOption(options []models.Option, id uint) *models.Option {
	for i := range options {
		if options[i].ID == id {
			return &options[i]
		}
	}
	return nil
}
