package models

import (
	"time"
)

// User is the partial profile view the wager core works with: identity,
// display fields for event payloads, and the balance cache. The ledger is the
// source of truth for the balance; this column is derived from it.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Balance     int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
