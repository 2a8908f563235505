package models

import "time"

const (
	AlertTypePrice     = "price"
	AlertTypeNews      = "news"
	AlertTypeTechnical = "technical"
)

const (
	ConditionAbove  = "above"
	ConditionBelow  = "below"
	ConditionEquals = "equals"
)

// Alert is a user-defined condition on a symbol. The value is stored as
// text so numeric and string thresholds share one column. There is no
// server-side evaluation loop; alerts are created, toggled and deleted only.
type Alert struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"index" json:"symbol"`
	Type      string    `json:"type"`      // "price", "news" or "technical"
	Condition string    `json:"condition"` // "above", "below" or "equals"
	Value     string    `json:"value"`
	Message   string    `json:"message"`
	Active    bool      `gorm:"index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
