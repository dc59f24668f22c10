package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parimarket/internal/events"
	"parimarket/internal/metrics"
	"parimarket/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WagerService accepts placement requests and persists them atomically with
// all derived effects: the debit, the ledger record, the odds recomputation
// and the stats rollup. Any error inside the unit of work aborts the entire
// placement; nothing partial is ever persisted.
type WagerService struct {
	db        *gorm.DB
	odds      *OddsService
	stats     *StatsService
	publisher events.Publisher
	locks     *MarketLocks
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewWagerService(db *gorm.DB, publisher events.Publisher, locks *MarketLocks, logger *zap.Logger) *WagerService {
	return &WagerService{
		db:        db,
		odds:      NewOddsService(),
		stats:     NewStatsService(),
		publisher: publisher,
		locks:     locks,
		validate:  validator.New(),
		logger:    logger,
	}
}

// PlaceBetRequest carries the inputs for a single-leg wager.
type PlaceBetRequest struct {
	UserID   uint  `json:"user_id" validate:"required"`
	OptionID uint  `json:"option_id" validate:"required"`
	Amount   int64 `json:"amount" validate:"required,gt=0"`
}

// PlaceParlayRequest carries the inputs for a multi-leg wager. One stake
// covers every leg; each leg must reference a distinct option.
type PlaceParlayRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	OptionIDs []uint `json:"option_ids" validate:"required,min=1,unique"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}

// PlaceBet validates and persists a single bet. Odds are frozen from the
// option's committed state under the market lock, before the new stake joins
// the pool.
func (s *WagerService) PlaceBet(ctx context.Context, req *PlaceBetRequest) (*models.Bet, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid bet request: %w", err)
	}

	// Light pre-read just to learn which market to serialize on.
	var ref models.Option
	if err := s.db.WithContext(ctx).Select("id, market_id").First(&ref, "id = ?", req.OptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOptionNotFound
		}
		return nil, fmt.Errorf("failed to load option %d: %w", req.OptionID, err)
	}

	unlock := s.locks.Lock(ref.MarketID)
	defer unlock()

	var bet *models.Bet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var option models.Option
		if err := tx.First(&option, "id = ?", req.OptionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrOptionNotFound
			}
			return fmt.Errorf("failed to load option %d: %w", req.OptionID, err)
		}

		var market models.Market
		if err := tx.First(&market, "id = ?", option.MarketID).Error; err != nil {
			return fmt.Errorf("failed to load market %d: %w", option.MarketID, err)
		}
		if !market.Open(time.Now()) {
			return fmt.Errorf("market %d: %w", market.ID, models.ErrMarketClosed)
		}

		if err := debitUser(tx, req.UserID, req.Amount); err != nil {
			return err
		}

		bet = &models.Bet{
			UserID:          req.UserID,
			MarketID:        market.ID,
			OptionID:        option.ID,
			Amount:          req.Amount,
			OddsAtPlacement: option.Odds,
			PotentialPayout: potentialPayout(req.Amount, option.Odds),
			Status:          models.WagerStatusPending,
		}
		if err := tx.Create(bet).Error; err != nil {
			return fmt.Errorf("failed to create bet: %w", err)
		}

		if err := appendLedger(tx, req.UserID, models.LedgerTypeDebit, req.Amount, &bet.ID, nil,
			fmt.Sprintf("bet on %q", option.Label)); err != nil {
			return err
		}

		if err := s.odds.RecomputeMarketOdds(tx, market.ID); err != nil {
			return err
		}

		return s.stats.RecordBetPlaced(tx, req.UserID, req.Amount)
	})
	if err != nil {
		return nil, err
	}

	metrics.BetsPlaced.Inc()
	s.publishBetPlaced(ctx, bet)
	return bet, nil
}

// PlaceParlay validates every leg before any mutation, then persists the
// parlay and its legs atomically with the single debit. A parlay is
// all-or-nothing at validation time too.
func (s *WagerService) PlaceParlay(ctx context.Context, req *PlaceParlayRequest) (*models.Parlay, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid parlay request: %w", err)
	}

	// Learn which markets to serialize on.
	marketIDs := make([]uint, 0, len(req.OptionIDs))
	for _, optionID := range req.OptionIDs {
		var ref models.Option
		if err := s.db.WithContext(ctx).Select("id, market_id").First(&ref, "id = ?", optionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.ErrOptionNotFound
			}
			return nil, fmt.Errorf("failed to load option %d: %w", optionID, err)
		}
		marketIDs = append(marketIDs, ref.MarketID)
	}

	unlock := s.locks.LockAll(marketIDs)
	defer unlock()

	var parlay *models.Parlay
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		combinedOdds := decimal.NewFromInt(1)
		legs := make([]models.ParlayLeg, 0, len(req.OptionIDs))

		for _, optionID := range req.OptionIDs {
			var option models.Option
			if err := tx.First(&option, "id = ?", optionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrOptionNotFound
				}
				return fmt.Errorf("failed to load option %d: %w", optionID, err)
			}

			var market models.Market
			if err := tx.First(&market, "id = ?", option.MarketID).Error; err != nil {
				return fmt.Errorf("failed to load market %d: %w", option.MarketID, err)
			}
			if !market.Open(now) {
				return fmt.Errorf("market %d: %w", market.ID, models.ErrMarketClosed)
			}

			combinedOdds = combinedOdds.Mul(option.Odds)
			legs = append(legs, models.ParlayLeg{
				MarketID:        market.ID,
				OptionID:        option.ID,
				OddsAtPlacement: option.Odds,
			})
		}

		if err := debitUser(tx, req.UserID, req.Amount); err != nil {
			return err
		}

		parlay = &models.Parlay{
			UserID:          req.UserID,
			Amount:          req.Amount,
			CombinedOdds:    combinedOdds,
			PotentialPayout: potentialPayout(req.Amount, combinedOdds),
			Status:          models.WagerStatusPending,
			Legs:            legs,
		}
		if err := tx.Create(parlay).Error; err != nil {
			return fmt.Errorf("failed to create parlay: %w", err)
		}

		if err := appendLedger(tx, req.UserID, models.LedgerTypeDebit, req.Amount, nil, &parlay.ID,
			fmt.Sprintf("parlay of %d legs", len(legs))); err != nil {
			return err
		}

		return s.stats.RecordParlayPlaced(tx, req.UserID, len(legs), req.Amount)
	})
	if err != nil {
		return nil, err
	}

	metrics.ParlaysPlaced.Inc()
	s.publishParlayPlaced(ctx, parlay)
	return parlay, nil
}

// debitUser subtracts the stake from the user's balance. The balance guard
// lives in the UPDATE itself so an overdraft cannot slip through between a
// read and a write.
func debitUser(tx *gorm.DB, userID uint, amount int64) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check user %d: %w", userID, err)
		}
		if count == 0 {
			return fmt.Errorf("user %d: %w", userID, gorm.ErrRecordNotFound)
		}
		return models.ErrInsufficientFunds
	}
	return nil
}

func (s *WagerService) publishBetPlaced(ctx context.Context, bet *models.Bet) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", bet.UserID).Error; err != nil {
		s.logger.Warn("bet.placed event missing user display fields",
			zap.Uint("user_id", bet.UserID), zap.Error(err))
	}
	e := events.BetPlaced{
		Bet: *bet,
		User: events.UserDisplay{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			AvatarURL:   user.AvatarURL,
		},
	}
	if err := s.publisher.PublishBetPlaced(ctx, e); err != nil {
		s.logger.Warn("failed to publish bet.placed", zap.Uint("bet_id", bet.ID), zap.Error(err))
	}
}

func (s *WagerService) publishParlayPlaced(ctx context.Context, parlay *models.Parlay) {
	if err := s.publisher.PublishParlayPlaced(ctx, events.ParlayPlaced{Parlay: *parlay}); err != nil {
		s.logger.Warn("failed to publish parlay.placed", zap.Uint("parlay_id", parlay.ID), zap.Error(err))
	}
}
