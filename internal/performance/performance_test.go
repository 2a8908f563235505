package performance

import (
	"testing"
	"time"

	"trade-journal-go/internal/models"

	"github.com/stretchr/testify/assert"
)

func closedTrade(symbol string, profit float64, exitDay int) models.Trade {
	exit := time.Date(2024, 1, exitDay, 0, 0, 0, 0, time.UTC)
	return models.Trade{
		Symbol:    symbol,
		Type:      models.TradeTypeBuy,
		EntryDate: exit.Add(-24 * time.Hour),
		ExitDate:  &exit,
		Profit:    &profit,
	}
}

func TestCompute_Empty(t *testing.T) {
	metric := Compute(nil, "2024-01-31")
	assert.Equal(t, "2024-01-31", metric.Date)
	assert.Equal(t, 0, metric.TotalTrades)
	assert.Equal(t, 0.0, metric.WinRate)
}

func TestCompute_IgnoresOpenTrades(t *testing.T) {
	open := models.Trade{Symbol: "AAPL", Type: models.TradeTypeBuy, EntryDate: time.Now()}
	metric := Compute([]models.Trade{open, closedTrade("TSLA", 50, 2)}, "2024-01-31")
	assert.Equal(t, 1, metric.TotalTrades)
	assert.Equal(t, 1, metric.WinningTrades)
}

func TestCompute_Aggregates(t *testing.T) {
	trades := []models.Trade{
		closedTrade("AAPL", 100, 1),
		closedTrade("TSLA", -50, 2),
		closedTrade("MSFT", 200, 3),
		closedTrade("NVDA", -25, 4),
	}
	metric := Compute(trades, "2024-01-31")

	assert.Equal(t, 4, metric.TotalTrades)
	assert.Equal(t, 2, metric.WinningTrades)
	assert.Equal(t, 2, metric.LosingTrades)
	assert.Equal(t, 0.5, metric.WinRate)
	assert.InDelta(t, 300.0/75.0, metric.ProfitFactor, 1e-9)
	assert.Equal(t, 150.0, metric.AverageWin)
	assert.Equal(t, 37.5, metric.AverageLoss)
	// Curve: 100, 50, 250, 225. Largest peak-to-trough drop is 100->50.
	assert.Equal(t, 50.0, metric.MaxDrawdown)
	assert.Greater(t, metric.SharpeRatio, 0.0)
}

func TestCompute_AllWinners(t *testing.T) {
	trades := []models.Trade{
		closedTrade("AAPL", 10, 1),
		closedTrade("TSLA", 20, 2),
	}
	metric := Compute(trades, "2024-01-31")
	assert.Equal(t, 1.0, metric.WinRate)
	assert.Equal(t, 0.0, metric.ProfitFactor, "no losses means no meaningful factor")
	assert.Equal(t, 0.0, metric.MaxDrawdown)
}

func TestCompute_BreakEvenTradeCountsAsNeither(t *testing.T) {
	metric := Compute([]models.Trade{closedTrade("AAPL", 0, 1)}, "2024-01-31")
	assert.Equal(t, 1, metric.TotalTrades)
	assert.Equal(t, 0, metric.WinningTrades)
	assert.Equal(t, 0, metric.LosingTrades)
}
