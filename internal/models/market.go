package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Market kinds.
const (
	MarketKindBinary    = "BINARY"
	MarketKindMultiple  = "MULTIPLE"
	MarketKindOverUnder = "OVER_UNDER"
)

// Market represents a predictive question. It transitions exactly once from
// open to resolved; WinningOptionID stays nil until then.
type Market struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Question        string           `gorm:"size:500;not null" json:"question"`
	Kind            string           `gorm:"size:20;not null;default:BINARY;index" json:"kind"`
	Threshold       *decimal.Decimal `gorm:"type:decimal(15,4)" json:"threshold,omitempty"` // OVER_UNDER only
	ExpiresAt       time.Time        `gorm:"not null;index" json:"expires_at"`
	Resolved        bool             `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedAt      *time.Time       `json:"resolved_at,omitempty"`
	WinningOptionID *uint            `json:"winning_option_id,omitempty"`
	Options         []Option         `gorm:"foreignKey:MarketID" json:"options,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TableName specifies the table name for Market model
func (Market) TableName() string {
	return "markets"
}

// Open reports whether the market can still accept wagers at the given time.
// Expiry is evaluated at call time, never cached.
func (m *Market) Open(now time.Time) bool {
	return !m.Resolved && now.Before(m.ExpiresAt)
}

// Option is one selectable outcome of a market. Odds is the current payout
// multiplier, recomputed from the bet pool after every placement on the
// market; it never drops below 1.0.
type Option struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	MarketID uint            `gorm:"not null;index" json:"market_id"`
	Label    string          `gorm:"size:200;not null" json:"label"`
	Odds     decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1" json:"odds"`
}

// TableName specifies the table name for Option model
func (Option) TableName() string {
	return "options"
}
