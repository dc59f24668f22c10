package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"parimarket/internal/events"
	"parimarket/internal/models"
)

// setupTestDB opens the shared in-memory database. :memory: is unique per
// connection unless using cache=shared, and gorm pools connections, so the
// shared cache keeps every handle on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Market{},
		&models.Option{},
		&models.Bet{},
		&models.Parlay{},
		&models.ParlayLeg{},
		&models.LedgerTransaction{},
		&models.UserStats{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	cleanupTables(db)
	return db
}

func cleanupTables(db *gorm.DB) {
	db.Exec("DELETE FROM user_stats")
	db.Exec("DELETE FROM ledger_transactions")
	db.Exec("DELETE FROM parlay_legs")
	db.Exec("DELETE FROM parlays")
	db.Exec("DELETE FROM bets")
	db.Exec("DELETE FROM options")
	db.Exec("DELETE FROM markets")
	db.Exec("DELETE FROM users")
}

func createTestUser(t *testing.T, db *gorm.DB, name string, balance int64) *models.User {
	t.Helper()
	user := models.User{DisplayName: name, Balance: balance}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createTestMarket(t *testing.T, db *gorm.DB, question string, labels ...string) *models.Market {
	t.Helper()
	options := make([]models.Option, len(labels))
	for i, label := range labels {
		options[i] = models.Option{Label: label, Odds: decimal.NewFromInt(1)}
	}
	market := models.Market{
		Question:  question,
		Kind:      models.MarketKindBinary,
		ExpiresAt: time.Now().Add(time.Hour),
		Options:   options,
	}
	if err := db.Create(&market).Error; err != nil {
		t.Fatalf("failed to create market: %v", err)
	}
	return &market
}

func loadStats(t *testing.T, db *gorm.DB, userID uint) *models.UserStats {
	t.Helper()
	var stats models.UserStats
	if err := db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		t.Fatalf("failed to load stats for user %d: %v", userID, err)
	}
	return &stats
}

func loadBalance(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to load user %d: %v", userID, err)
	}
	return user.Balance
}

// capturePublisher records everything published so tests can assert on the
// post-commit notifications.
type capturePublisher struct {
	bets     []events.BetPlaced
	parlays  []events.ParlayPlaced
	resolved []events.MarketResolved
}

func (p *capturePublisher) PublishBetPlaced(_ context.Context, e events.BetPlaced) error {
	p.bets = append(p.bets, e)
	return nil
}

func (p *capturePublisher) PublishParlayPlaced(_ context.Context, e events.ParlayPlaced) error {
	p.parlays = append(p.parlays, e)
	return nil
}

func (p *capturePublisher) PublishMarketResolved(_ context.Context, e events.MarketResolved) error {
	p.resolved = append(p.resolved, e)
	return nil
}

func newTestWagerService(db *gorm.DB, publisher events.Publisher) *WagerService {
	return NewWagerService(db, publisher, NewMarketLocks(), zap.NewNop())
}

func newTestSettlementService(db *gorm.DB, publisher events.Publisher) *SettlementService {
	return NewSettlementService(db, publisher, NewMarketLocks(), zap.NewNop())
}
