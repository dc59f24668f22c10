package services

import (
	"fmt"

	"parimarket/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// appendLedger writes the immutable record of one balance movement,
// snapshotting the balance that resulted from it. It must run inside the
// same transaction as the balance mutation it describes. At most one of
// betID and parlayID may be set.
func appendLedger(tx *gorm.DB, userID uint, txType string, amount int64, betID, parlayID *uint, description string) error {
	var user models.User
	if err := tx.Select("balance").Where("id = ?", userID).First(&user).Error; err != nil {
		return fmt.Errorf("failed to snapshot balance for user %d: %w", userID, err)
	}

	entry := models.LedgerTransaction{
		UserID:       userID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: user.Balance,
		BetID:        betID,
		ParlayID:     parlayID,
		Description:  description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append %s ledger transaction for user %d: %w", txType, userID, err)
	}
	return nil
}

// potentialPayout floors stake times multiplier to whole currency units.
func potentialPayout(amount int64, odds decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(odds).Floor().IntPart()
}
