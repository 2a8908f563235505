package ai

import (
	"fmt"

	"trade-journal-go/internal/models"
)

// Canned commentary used when no provider credentials are configured.
// Deterministic so screens render something sensible offline.

func mockTradeAnalysis(t models.Trade) *Analysis {
	if t.IsClosed() && *t.Profit >= 0 {
		return &Analysis{
			Commentary: fmt.Sprintf(
				"Solid %s trade on %s. You banked %.2f and respected your plan. "+
					"Keep sizing consistent and log what made this setup work. Score: 7/10. Outlook: neutral.",
				t.Type, t.Symbol, *t.Profit),
			Score:     7,
			Sentiment: "neutral",
		}
	}
	if t.IsClosed() {
		return &Analysis{
			Commentary: fmt.Sprintf(
				"The %s trade on %s closed at a loss of %.2f. Check whether your stop was placed "+
					"before entry or moved under pressure. Score: 4/10. Outlook: neutral.",
				t.Type, t.Symbol, *t.Profit),
			Score:     4,
			Sentiment: "neutral",
		}
	}
	return &Analysis{
		Commentary: fmt.Sprintf(
			"Your %s position on %s is still open. Define the exit before the market defines it "+
				"for you. Score: 5/10. Outlook: neutral.",
			t.Type, t.Symbol),
		Score:     5,
		Sentiment: "neutral",
	}
}

func mockPortfolioAnalysis(trades []models.Trade) *Analysis {
	return &Analysis{
		Commentary: fmt.Sprintf(
			"Across %d journaled trades your activity is steady. Watch for symbol concentration "+
				"and keep risk per trade below 2%% of the account. Score: 6/10. Outlook: neutral.",
			len(trades)),
		Score:     6,
		Sentiment: "neutral",
	}
}

func mockStrategy(u models.User) *Analysis {
	return &Analysis{
		Commentary: fmt.Sprintf(
			"For a %s trader with %s risk tolerance: pick two or three liquid symbols, trade one "+
				"setup only, and journal every entry with a confidence score. Score: 6/10. Outlook: neutral.",
			u.TradingStyle, u.RiskTolerance),
		Score:     6,
		Sentiment: "neutral",
	}
}
