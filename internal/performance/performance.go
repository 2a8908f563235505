package performance

import (
	"math"
	"sort"

	"trade-journal-go/internal/models"
)

// Compute aggregates closed trades into a rollup snapshot for the given
// date (YYYY-MM-DD). Open trades are ignored. The caller persists the
// result through the store's upsert-by-date.
func Compute(trades []models.Trade, date string) models.PerformanceMetric {
	metric := models.PerformanceMetric{Date: date}

	var closed []models.Trade
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	metric.TotalTrades = len(closed)
	if len(closed) == 0 {
		return metric
	}

	// Drawdown walks the cumulative-profit curve in exit order.
	sort.Slice(closed, func(i, j int) bool {
		return closed[i].ExitDate.Before(*closed[j].ExitDate)
	})

	var grossWin, grossLoss float64
	var profits []float64
	for _, t := range closed {
		p := *t.Profit
		profits = append(profits, p)
		if p > 0 {
			metric.WinningTrades++
			grossWin += p
		} else if p < 0 {
			metric.LosingTrades++
			grossLoss += -p
		}
	}

	metric.WinRate = float64(metric.WinningTrades) / float64(metric.TotalTrades)
	if grossLoss > 0 {
		metric.ProfitFactor = grossWin / grossLoss
	}
	if metric.WinningTrades > 0 {
		metric.AverageWin = grossWin / float64(metric.WinningTrades)
	}
	if metric.LosingTrades > 0 {
		metric.AverageLoss = grossLoss / float64(metric.LosingTrades)
	}
	metric.MaxDrawdown = maxDrawdown(profits)
	metric.SharpeRatio = sharpe(profits)
	return metric
}

// maxDrawdown returns the largest peak-to-trough drop of the cumulative
// profit curve.
func maxDrawdown(profits []float64) float64 {
	var cum, peak, maxDD float64
	for _, p := range profits {
		cum += p
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// sharpe is the mean per-trade profit over its standard deviation.
// A flat profit series has no meaningful ratio and yields zero.
func sharpe(profits []float64) float64 {
	if len(profits) < 2 {
		return 0
	}
	var sum float64
	for _, p := range profits {
		sum += p
	}
	mean := sum / float64(len(profits))

	var variance float64
	for _, p := range profits {
		variance += (p - mean) * (p - mean)
	}
	variance /= float64(len(profits))
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance)
}
