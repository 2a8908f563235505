package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

// Mood values recorded alongside a trade entry.
const (
	MoodConfident = "confident"
	MoodNeutral   = "neutral"
	MoodAnxious   = "anxious"
	MoodFomo      = "fomo"
)

// Trade represents a single buy/sell position record.
// A trade is open until its exit fields are set, and closed once both
// ExitDate and Profit are present.
type Trade struct {
	ID         string                      `gorm:"primaryKey" json:"id"`
	UserID     string                      `gorm:"index" json:"user_id"`
	Symbol     string                      `gorm:"index" json:"symbol"`
	Type       string                      `gorm:"index" json:"type"` // "buy" or "sell"
	EntryPrice float64                     `json:"entry_price"`
	ExitPrice  *float64                    `json:"exit_price,omitempty"`
	Quantity   float64                     `json:"quantity"`
	EntryDate  time.Time                   `gorm:"index" json:"entry_date"`
	ExitDate   *time.Time                  `json:"exit_date,omitempty"`
	Profit     *float64                    `json:"profit,omitempty"`
	Notes      string                      `json:"notes"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Confidence *int                        `json:"confidence,omitempty"` // 1-10 self-rating
	Mood       string                      `json:"mood"`
	StopLoss   *float64                    `json:"stop_loss,omitempty"`
	TakeProfit *float64                    `json:"take_profit,omitempty"`
	Screenshot string                      `json:"screenshot,omitempty"`
	Strategy   string                      `json:"strategy"`
	Market     string                      `json:"market"`
	Session    string                      `json:"session"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// IsOpen reports whether the position has not been exited yet.
func (t *Trade) IsOpen() bool {
	return t.ExitDate == nil
}

// IsClosed reports whether the position has been exited and its profit booked.
func (t *Trade) IsClosed() bool {
	return t.ExitDate != nil && t.Profit != nil
}
