package main

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"parimarket/internal/config"
	"parimarket/internal/database"
	"parimarket/internal/models"
)

// Seeds a handful of demo users and open markets for local development.
// Run with: go run scripts/seed.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	db := database.GetDB()

	users := []models.User{
		{DisplayName: "alice", Balance: cfg.App.InitialBalance},
		{DisplayName: "bob", Balance: cfg.App.InitialBalance},
		{DisplayName: "carol", Balance: cfg.App.InitialBalance},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatal("Failed to create user:", err)
		}
	}
	fmt.Printf("Created %d users\n", len(users))

	threshold := decimal.RequireFromString("2.5")
	markets := []models.Market{
		{
			Question:  "Will it rain in Lisbon tomorrow?",
			Kind:      models.MarketKindBinary,
			ExpiresAt: time.Now().Add(24 * time.Hour),
			Options: []models.Option{
				{Label: "Yes", Odds: decimal.NewFromInt(1)},
				{Label: "No", Odds: decimal.NewFromInt(1)},
			},
		},
		{
			Question:  "Who wins the league final?",
			Kind:      models.MarketKindMultiple,
			ExpiresAt: time.Now().Add(72 * time.Hour),
			Options: []models.Option{
				{Label: "Home", Odds: decimal.NewFromInt(1)},
				{Label: "Away", Odds: decimal.NewFromInt(1)},
				{Label: "Draw", Odds: decimal.NewFromInt(1)},
			},
		},
		{
			Question:  "Total goals in Saturday's match?",
			Kind:      models.MarketKindOverUnder,
			Threshold: &threshold,
			ExpiresAt: time.Now().Add(48 * time.Hour),
			Options: []models.Option{
				{Label: "Over", Odds: decimal.NewFromInt(1)},
				{Label: "Under", Odds: decimal.NewFromInt(1)},
			},
		},
	}
	for i := range markets {
		if err := db.Create(&markets[i]).Error; err != nil {
			log.Fatal("Failed to create market:", err)
		}
	}
	fmt.Printf("Created %d markets\n", len(markets))

	fmt.Println("Seed complete")
}
