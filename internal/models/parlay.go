package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Parlay bundles one or more legs that must all win for any payout. One stake
// covers every leg; combined odds are the product of each leg's odds at
// placement time.
type Parlay struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Amount          int64           `gorm:"not null" json:"amount"`
	CombinedOdds    decimal.Decimal `gorm:"type:decimal(16,4);not null" json:"combined_odds"`
	PotentialPayout int64           `gorm:"not null" json:"potential_payout"`
	Status          string          `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Payout          *int64          `json:"payout,omitempty"`
	Legs            []ParlayLeg     `gorm:"foreignKey:ParlayID;constraint:OnDelete:CASCADE" json:"legs,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	SettledAt       *time.Time      `json:"settled_at,omitempty"`
}

// TableName specifies the table name for Parlay model
func (Parlay) TableName() string {
	return "parlays"
}

// ParlayLeg records one option selection inside a parlay, with its own frozen
// odds. Won stays nil until the leg's market resolves; a parlay can span
// markets that resolve at different times.
type ParlayLeg struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ParlayID        uint            `gorm:"not null;index" json:"parlay_id"`
	MarketID        uint            `gorm:"not null;index" json:"market_id"`
	OptionID        uint            `gorm:"not null;index" json:"option_id"`
	OddsAtPlacement decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"odds_at_placement"`
	Won             *bool           `json:"won,omitempty"`
}

// TableName specifies the table name for ParlayLeg model
func (ParlayLeg) TableName() string {
	return "parlay_legs"
}
