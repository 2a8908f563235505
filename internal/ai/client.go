package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Analysis is free-text coaching commentary plus best-effort structured
// fields extracted from it.
type Analysis struct {
	Commentary string `json:"commentary"`
	Score      int    `json:"score"`     // 1-10, 0 when not found in the reply
	Sentiment  string `json:"sentiment"` // "bullish", "bearish" or "neutral"
}

// AnalyzerInterface defines the interface for the AI-analysis client.
type AnalyzerInterface interface {
	AnalyzeTrade(ctx context.Context, trade models.Trade) (*Analysis, error)
	AnalyzePortfolio(ctx context.Context, trades []models.Trade) (*Analysis, error)
	GenerateStrategy(ctx context.Context, profile models.User) (*Analysis, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint. With
// no API key configured it returns deterministic canned commentary
// without any network call.
type Client struct {
	client *resty.Client
	apiKey string
	model  string
	logger *zap.Logger
}

// ensure Client implements the interface
var _ AnalyzerInterface = (*Client)(nil)

// NewClient creates a new AI-analysis client.
func NewClient(cfg *config.AI, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if cfg.ApiKey == "" {
		logger.Warn("No AI API key configured, using canned commentary")
	}

	return &Client{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: cfg.ApiKey,
		model:  cfg.Model,
		logger: logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You are a trading coach reviewing a personal trading journal. " +
	"Reply in plain prose. Include a line 'Score: N/10' and one of the words " +
	"bullish, bearish or neutral."

// complete sends one prompt to the chat-completions endpoint and returns
// the reply text.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	var result chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: 0.5,
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("completion request failed with status %s: %s", resp.Status(), resp.String())
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return result.Choices[0].Message.Content, nil
}

var (
	scoreRe     = regexp.MustCompile(`(?i)score[:\s]+(\d+)`)
	sentimentRe = regexp.MustCompile(`(?i)\b(bullish|bearish|neutral)\b`)
)

// parseAnalysis extracts the structured fields from the free-text reply.
// Extraction is best effort; missing fields stay at their zero values.
func parseAnalysis(text string) *Analysis {
	a := &Analysis{Commentary: text}
	if m := scoreRe.FindStringSubmatch(text); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			a.Score = score
		}
	}
	if m := sentimentRe.FindStringSubmatch(text); m != nil {
		a.Sentiment = strings.ToLower(m[1])
	}
	return a
}

// AnalyzeTrade reviews a single trade.
func (c *Client) AnalyzeTrade(ctx context.Context, trade models.Trade) (*Analysis, error) {
	if c.apiKey == "" {
		return mockTradeAnalysis(trade), nil
	}

	text, err := c.complete(ctx, buildTradePrompt(trade))
	if err != nil {
		c.logger.Error("Trade analysis failed", zap.String("symbol", trade.Symbol), zap.Error(err))
		return nil, fmt.Errorf("failed to analyze trade: %w", err)
	}
	return parseAnalysis(text), nil
}

// AnalyzePortfolio reviews a collection of trades as a whole.
func (c *Client) AnalyzePortfolio(ctx context.Context, trades []models.Trade) (*Analysis, error) {
	if c.apiKey == "" {
		return mockPortfolioAnalysis(trades), nil
	}

	text, err := c.complete(ctx, buildPortfolioPrompt(trades))
	if err != nil {
		c.logger.Error("Portfolio analysis failed", zap.Int("trades", len(trades)), zap.Error(err))
		return nil, fmt.Errorf("failed to analyze portfolio: %w", err)
	}
	return parseAnalysis(text), nil
}

// GenerateStrategy suggests a strategy matching the user's profile.
func (c *Client) GenerateStrategy(ctx context.Context, profile models.User) (*Analysis, error) {
	if c.apiKey == "" {
		return mockStrategy(profile), nil
	}

	text, err := c.complete(ctx, buildStrategyPrompt(profile))
	if err != nil {
		c.logger.Error("Strategy generation failed", zap.String("user_id", profile.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate strategy: %w", err)
	}
	return parseAnalysis(text), nil
}

func buildTradePrompt(t models.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review this %s trade on %s: entry %.2f, quantity %.2f", t.Type, t.Symbol, t.EntryPrice, t.Quantity)
	if t.IsClosed() {
		fmt.Fprintf(&b, ", exit %.2f, profit %.2f", *t.ExitPrice, *t.Profit)
	} else {
		b.WriteString(", still open")
	}
	if t.StopLoss != nil {
		fmt.Fprintf(&b, ", stop-loss %.2f", *t.StopLoss)
	}
	if t.TakeProfit != nil {
		fmt.Fprintf(&b, ", take-profit %.2f", *t.TakeProfit)
	}
	if t.Mood != "" {
		fmt.Fprintf(&b, ". Mood at entry: %s", t.Mood)
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, ". Journal notes: %s", t.Notes)
	}
	b.WriteString(".")
	return b.String()
}

func buildPortfolioPrompt(trades []models.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review this trading journal of %d trades:\n", len(trades))
	for _, t := range trades {
		fmt.Fprintf(&b, "- %s %s entry %.2f", t.Type, t.Symbol, t.EntryPrice)
		if t.IsClosed() {
			fmt.Fprintf(&b, " profit %.2f", *t.Profit)
		}
		b.WriteString("\n")
	}
	b.WriteString("Comment on risk management, consistency and symbol concentration.")
	return b.String()
}

func buildStrategyPrompt(u models.User) string {
	return fmt.Sprintf(
		"Suggest a trading strategy for a %s trader with %s risk tolerance and %s experience.",
		u.TradingStyle, u.RiskTolerance, u.ExperienceLevel,
	)
}
