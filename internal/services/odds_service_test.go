package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"parimarket/internal/models"
)

func TestComputeOdds(t *testing.T) {
	odds := NewOddsService()

	// Empty pool
	result := odds.ComputeOdds(map[uint]int64{})
	if len(result) != 0 {
		t.Errorf("expected no odds for empty pool, got %d", len(result))
	}

	// Single backed option holds the whole pool
	result = odds.ComputeOdds(map[uint]int64{1: 100})
	if !result[1].Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected odds 1 for sole backed option, got %s", result[1])
	}

	// Unbacked options pay 1.0
	result = odds.ComputeOdds(map[uint]int64{1: 100, 2: 0})
	if !result[1].Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected odds 1 for option 1, got %s", result[1])
	}
	if !result[2].Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected odds 1 for unbacked option, got %s", result[2])
	}

	// Pool split 100/80: total 180
	result = odds.ComputeOdds(map[uint]int64{1: 100, 2: 80})
	if !result[1].Equal(decimal.RequireFromString("1.8")) {
		t.Errorf("expected odds 1.8 for option 1, got %s", result[1])
	}
	if !result[2].Equal(decimal.RequireFromString("2.25")) {
		t.Errorf("expected odds 2.25 for option 2, got %s", result[2])
	}
}

func TestComputeOddsNormalization(t *testing.T) {
	odds := NewOddsService()

	pool := map[uint]int64{1: 220, 2: 80, 3: 37}
	result := odds.ComputeOdds(pool)

	// Paying every backed option its odds times its stake redistributes
	// exactly the total pool, modulo division precision.
	var total int64
	paid := decimal.Zero
	for optionID, staked := range pool {
		total += staked
		paid = paid.Add(result[optionID].Mul(decimal.NewFromInt(staked)))
	}

	diff := paid.Sub(decimal.NewFromInt(total)).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.0001")) {
		t.Errorf("pool not conserved: paid %s of %d", paid, total)
	}
}

func TestRecomputeMarketOdds(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTables(db)

	odds := NewOddsService()
	market := createTestMarket(t, db, "Will it rain tomorrow?", "Yes", "No")
	yes, no := market.Options[0], market.Options[1]

	// Pending bets form the pool; settled bets do not count.
	bets := []models.Bet{
		{UserID: 1, MarketID: market.ID, OptionID: yes.ID, Amount: 100, OddsAtPlacement: decimal.NewFromInt(1), PotentialPayout: 100, Status: models.WagerStatusPending},
		{UserID: 2, MarketID: market.ID, OptionID: no.ID, Amount: 80, OddsAtPlacement: decimal.NewFromInt(1), PotentialPayout: 80, Status: models.WagerStatusPending},
		{UserID: 3, MarketID: market.ID, OptionID: no.ID, Amount: 500, OddsAtPlacement: decimal.NewFromInt(1), PotentialPayout: 500, Status: models.WagerStatusLost},
	}
	for i := range bets {
		if err := db.Create(&bets[i]).Error; err != nil {
			t.Fatalf("failed to seed bet: %v", err)
		}
	}

	if err := odds.RecomputeMarketOdds(db, market.ID); err != nil {
		t.Fatalf("RecomputeMarketOdds failed: %v", err)
	}

	var updatedYes, updatedNo models.Option
	if err := db.First(&updatedYes, "id = ?", yes.ID).Error; err != nil {
		t.Fatalf("failed to load option: %v", err)
	}
	if err := db.First(&updatedNo, "id = ?", no.ID).Error; err != nil {
		t.Fatalf("failed to load option: %v", err)
	}

	if !updatedYes.Odds.Equal(decimal.RequireFromString("1.8")) {
		t.Errorf("expected Yes odds 1.8, got %s", updatedYes.Odds)
	}
	if !updatedNo.Odds.Equal(decimal.RequireFromString("2.25")) {
		t.Errorf("expected No odds 2.25, got %s", updatedNo.Odds)
	}
}
