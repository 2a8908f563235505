package models

import "time"

// WatchlistItem is a tracked symbol with its last-known quote snapshot.
// The symbol acts as the natural key: adding an already-tracked symbol
// upserts the existing row instead of duplicating it.
type WatchlistItem struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Symbol        string    `gorm:"uniqueIndex;not null" json:"symbol"`
	Name          string    `json:"name"`
	LastPrice     *float64  `json:"last_price,omitempty"`
	Change        *float64  `json:"change,omitempty"`
	ChangePercent *float64  `json:"change_percent,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}
