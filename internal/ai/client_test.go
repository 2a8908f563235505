package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleClosedTrade() models.Trade {
	exit := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	exitPrice, profit := 160.0, 100.0
	return models.Trade{
		Symbol:     "AAPL",
		Type:       models.TradeTypeBuy,
		EntryPrice: 150,
		Quantity:   10,
		EntryDate:  exit.Add(-4 * 24 * time.Hour),
		ExitDate:   &exit,
		ExitPrice:  &exitPrice,
		Profit:     &profit,
		Mood:       models.MoodConfident,
	}
}

func TestAnalyzeTrade_NoAPIKeyUsesCannedCommentary(t *testing.T) {
	c := NewClient(&config.AI{}, zap.NewNop())

	analysis, err := c.AnalyzeTrade(context.Background(), sampleClosedTrade())
	require.NoError(t, err)
	assert.Contains(t, analysis.Commentary, "AAPL")
	assert.Equal(t, 7, analysis.Score)
	assert.Equal(t, "neutral", analysis.Sentiment)

	// Open trades get their own canned reply.
	open := models.Trade{Symbol: "TSLA", Type: models.TradeTypeSell, EntryDate: time.Now()}
	analysis, err = c.AnalyzeTrade(context.Background(), open)
	require.NoError(t, err)
	assert.Contains(t, analysis.Commentary, "still open")
}

func TestAnalyzeTrade_ParsesProviderReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "AAPL")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content":
			"A disciplined entry with a clear exit. Score: 8/10. The setup looks Bullish going forward."}}]}`))
	}))
	defer server.Close()

	c := NewClient(&config.AI{BaseURL: server.URL, ApiKey: "test-key", Model: "gpt-4o-mini"}, zap.NewNop())
	analysis, err := c.AnalyzeTrade(context.Background(), sampleClosedTrade())
	require.NoError(t, err)
	assert.Equal(t, 8, analysis.Score)
	assert.Equal(t, "bullish", analysis.Sentiment)
	assert.Contains(t, analysis.Commentary, "disciplined entry")
}

func TestAnalyzeTrade_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(&config.AI{BaseURL: server.URL, ApiKey: "test-key"}, zap.NewNop())
	_, err := c.AnalyzeTrade(context.Background(), sampleClosedTrade())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to analyze trade")
}

func TestParseAnalysis_BestEffort(t *testing.T) {
	a := parseAnalysis("No structure in this reply at all.")
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, "", a.Sentiment)
	assert.Equal(t, "No structure in this reply at all.", a.Commentary)

	a = parseAnalysis("score: 6 and the tone is Bearish overall")
	assert.Equal(t, 6, a.Score)
	assert.Equal(t, "bearish", a.Sentiment)
}

func TestAnalyzePortfolioAndStrategy_NoAPIKey(t *testing.T) {
	c := NewClient(&config.AI{}, zap.NewNop())

	portfolio, err := c.AnalyzePortfolio(context.Background(), []models.Trade{sampleClosedTrade()})
	require.NoError(t, err)
	assert.Contains(t, portfolio.Commentary, "1 journaled trades")

	strategy, err := c.GenerateStrategy(context.Background(), models.User{
		TradingStyle:  "swing",
		RiskTolerance: "low",
	})
	require.NoError(t, err)
	assert.Contains(t, strategy.Commentary, "swing")
	assert.Equal(t, "neutral", strategy.Sentiment)
}

func TestBuildTradePrompt(t *testing.T) {
	prompt := buildTradePrompt(sampleClosedTrade())
	assert.Contains(t, prompt, "buy trade on AAPL")
	assert.Contains(t, prompt, "exit 160.00")
	assert.Contains(t, prompt, "profit 100.00")
	assert.Contains(t, prompt, "confident")

	stop := 145.0
	open := models.Trade{Symbol: "TSLA", Type: models.TradeTypeSell, EntryPrice: 240, StopLoss: &stop}
	prompt = buildTradePrompt(open)
	assert.Contains(t, prompt, "still open")
	assert.Contains(t, prompt, "stop-loss 145.00")
}
