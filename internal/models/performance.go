package models

import "time"

// PerformanceMetric is a periodic rollup snapshot of trade statistics,
// keyed by date with upsert-by-date semantics.
type PerformanceMetric struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Date          string    `gorm:"uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	TotalTrades   int       `json:"total_trades"`
	WinningTrades int       `json:"winning_trades"`
	LosingTrades  int       `json:"losing_trades"`
	WinRate       float64   `json:"win_rate"`
	ProfitFactor  float64   `json:"profit_factor"`
	AverageWin    float64   `json:"average_win"`
	AverageLoss   float64   `json:"average_loss"`
	MaxDrawdown   float64   `json:"max_drawdown"`
	SharpeRatio   float64   `json:"sharpe_ratio"`
	CreatedAt     time.Time `json:"created_at"`
}
