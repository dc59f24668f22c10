package events

import (
	"parimarket/internal/models"
)

// Topics delivered to external consumers (realtime fan-out, leaderboard
// refresh trigger).
const (
	TopicBetPlaced      = "bet.placed"
	TopicParlayPlaced   = "parlay.placed"
	TopicMarketResolved = "market.resolved"
)

// Envelope wraps every published payload with an event id and emission time.
type Envelope struct {
	ID       string      `json:"id"`
	Topic    string      `json:"topic"`
	TsUnixMs int64       `json:"ts_unix_ms"`
	Payload  interface{} `json:"payload"`
}

// UserDisplay is the minimal user projection attached to placement events.
type UserDisplay struct {
	ID          uint    `json:"id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// BetPlaced is emitted after a single bet commits.
type BetPlaced struct {
	Bet  models.Bet  `json:"bet"`
	User UserDisplay `json:"user"`
}

// ParlayPlaced is emitted after a parlay commits.
type ParlayPlaced struct {
	Parlay models.Parlay `json:"parlay"`
}

// MarketResolved is emitted after a resolution commits, with the market in
// its resolved state.
type MarketResolved struct {
	Market models.Market `json:"market"`
}
