package models

import "time"

// Preferences is the nested user-settings record. It is stored JSON-encoded
// inside the users table; encoding and decoding happen at the store boundary.
type Preferences struct {
	Theme           string `json:"theme"`
	Notifications   bool   `json:"notifications"`
	DefaultCurrency string `json:"default_currency"`
}

// User represents an account together with its trading profile.
type User struct {
	ID              string      `gorm:"primaryKey" json:"id"`
	Email           string      `gorm:"uniqueIndex;not null" json:"email"`
	Name            string      `json:"name"`
	TradingStyle    string      `json:"trading_style"`
	RiskTolerance   string      `json:"risk_tolerance"`
	ExperienceLevel string      `json:"experience_level"`
	Preferences     Preferences `gorm:"serializer:json" json:"preferences"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
