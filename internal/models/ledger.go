package models

import (
	"time"
)

// Ledger transaction types.
const (
	LedgerTypeDebit  = "DEBIT"
	LedgerTypeCredit = "CREDIT"
)

// LedgerTransaction is an immutable, append-only record of one balance
// movement with the balance that resulted from it. At most one of BetID and
// ParlayID references the originating wager, never both.
type LedgerTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Type         string    `gorm:"size:10;not null;index" json:"type"`
	Amount       int64     `gorm:"not null" json:"amount"`
	BalanceAfter int64     `gorm:"not null" json:"balance_after"`
	BetID        *uint     `gorm:"index" json:"bet_id,omitempty"`
	ParlayID     *uint     `gorm:"index" json:"parlay_id,omitempty"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for LedgerTransaction model
func (LedgerTransaction) TableName() string {
	return "ledger_transactions"
}
