package models

import (
	"time"
)

// UserStats is a denormalized rollup of a user's wagering history. It is
// created lazily on the first wager and maintained with increments on every
// placement and settlement, never recomputed from scratch in the hot path.
// ROI stays nil while TotalWagered is zero: profit over zero stake is
// undefined, not zero.
type UserStats struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalBets       int64     `gorm:"not null;default:0" json:"total_bets"`
	BetsWon         int64     `gorm:"not null;default:0" json:"bets_won"`
	BetsLost        int64     `gorm:"not null;default:0" json:"bets_lost"`
	TotalParlays    int64     `gorm:"not null;default:0" json:"total_parlays"`
	ParlaysWon      int64     `gorm:"not null;default:0" json:"parlays_won"`
	ParlaysLost     int64     `gorm:"not null;default:0" json:"parlays_lost"`
	TotalParlayLegs int64     `gorm:"not null;default:0" json:"total_parlay_legs"`
	ParlayLegsWon   int64     `gorm:"not null;default:0" json:"parlay_legs_won"`
	ParlayLegsLost  int64     `gorm:"not null;default:0" json:"parlay_legs_lost"`
	TotalWagered    int64     `gorm:"not null;default:0" json:"total_wagered"`
	TotalWon        int64     `gorm:"not null;default:0" json:"total_won"`
	Profit          int64     `gorm:"not null;default:0" json:"profit"`
	BiggestWin      int64     `gorm:"not null;default:0" json:"biggest_win"`
	ROI             *float64  `json:"roi,omitempty"`
	CurrentStreak   int       `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak   int       `gorm:"not null;default:0" json:"longest_streak"`
	MostCommonBet   string    `gorm:"size:200" json:"most_common_bet,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for UserStats model
func (UserStats) TableName() string {
	return "user_stats"
}
