package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wager statuses shared by bets and parlays. REFUNDED is an administrative
// override; resolution itself only produces WON and LOST.
const (
	WagerStatusPending  = "PENDING"
	WagerStatusWon      = "WON"
	WagerStatusLost     = "LOST"
	WagerStatusRefunded = "REFUNDED"
)

// Bet is a single-leg wager. Odds are frozen at placement time and the
// potential payout is floor(amount × odds). Immutable after creation except
// for Status/Payout/SettledAt, written exactly once at settlement.
type Bet struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	MarketID        uint            `gorm:"not null;index" json:"market_id"`
	OptionID        uint            `gorm:"not null;index" json:"option_id"`
	Amount          int64           `gorm:"not null" json:"amount"`
	OddsAtPlacement decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"odds_at_placement"`
	PotentialPayout int64           `gorm:"not null" json:"potential_payout"`
	Status          string          `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Payout          *int64          `json:"payout,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	SettledAt       *time.Time      `json:"settled_at,omitempty"`
}

// TableName specifies the table name for Bet model
func (Bet) TableName() string {
	return "bets"
}
