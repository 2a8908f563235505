package marketdata

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trade-journal-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Quote is a provider-normalized real-time price snapshot.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// Candle is one bar of historical price data.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// NewsItem is a provider-normalized headline.
type NewsItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Sentiment   string    `json:"sentiment"`
	PublishedAt time.Time `json:"published_at"`
}

// ClientInterface defines the interface for the market-data client.
type ClientInterface interface {
	GetRealTimePrice(ctx context.Context, symbol string) (*Quote, error)
	GetHistoricalData(ctx context.Context, symbol, timeframe string) ([]Candle, error)
	GetNews(ctx context.Context, symbols []string, limit int) ([]NewsItem, error)
}

// Client is a client for the market-data provider REST API.
// It implements ClientInterface.
type Client struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
	cache   *responseCache
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new market-data client.
func NewClient(cfg *config.Market, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		apiKey:  cfg.ApiKey,
		logger:  logger,
		limiter: limiter,
		cache:   newResponseCache(time.Duration(cfg.CacheTTL) * time.Second),
	}
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.SetContext(ctx).Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				retryAfterHeader := resp.Header().Get("Retry-After")
				if seconds, err := strconv.Atoi(retryAfterHeader); err == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 { // Server errors
				shouldRetry = true
			}
		} else { // Network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			// Exponential backoff: 1s, 2s, 4s
			retryAfter = time.Duration(math.Pow(2, float64(i))) * time.Second
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}

// GetRealTimePrice fetches the latest quote for a symbol. Responses are
// memoized per symbol for the configured TTL.
func (c *Client) GetRealTimePrice(ctx context.Context, symbol string) (*Quote, error) {
	cacheKey := "quote:" + symbol
	if cached, ok := c.cache.get(cacheKey); ok {
		return cached.(*Quote), nil
	}

	var quote Quote
	req := c.client.R().
		SetQueryParam("symbol", symbol).
		SetQueryParam("token", c.apiKey).
		SetResult(&quote)

	if _, err := c.doRequest(ctx, "GET", "/quote", req); err != nil {
		c.logger.Error("Failed to get real-time price", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("failed to get real-time price for %s: %w", symbol, err)
	}

	quote.Symbol = symbol
	if quote.Timestamp.IsZero() {
		quote.Timestamp = time.Now()
	}
	c.cache.set(cacheKey, &quote)
	return &quote, nil
}

// GetHistoricalData fetches candles for a symbol and timeframe
// (e.g. "1D", "1W", "1M"). Responses are memoized per symbol+timeframe.
func (c *Client) GetHistoricalData(ctx context.Context, symbol, timeframe string) ([]Candle, error) {
	cacheKey := "candles:" + symbol + ":" + timeframe
	if cached, ok := c.cache.get(cacheKey); ok {
		return cached.([]Candle), nil
	}

	var candles []Candle
	req := c.client.R().
		SetQueryParam("symbol", symbol).
		SetQueryParam("timeframe", timeframe).
		SetQueryParam("token", c.apiKey).
		SetResult(&candles)

	if _, err := c.doRequest(ctx, "GET", "/candles", req); err != nil {
		c.logger.Error("Failed to get historical data", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
	}

	c.cache.set(cacheKey, candles)
	return candles, nil
}

// GetNews fetches recent headlines for the given symbols (all markets
// when empty), capped at limit.
func (c *Client) GetNews(ctx context.Context, symbols []string, limit int) ([]NewsItem, error) {
	joined := strings.Join(symbols, ",")
	cacheKey := fmt.Sprintf("news:%s:%d", joined, limit)
	if cached, ok := c.cache.get(cacheKey); ok {
		return cached.([]NewsItem), nil
	}

	var news []NewsItem
	req := c.client.R().
		SetQueryParam("token", c.apiKey).
		SetResult(&news)
	if joined != "" {
		req.SetQueryParam("symbols", joined)
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	if _, err := c.doRequest(ctx, "GET", "/news", req); err != nil {
		c.logger.Error("Failed to get news", zap.String("symbols", joined), zap.Error(err))
		return nil, fmt.Errorf("failed to get news: %w", err)
	}

	c.cache.set(cacheKey, news)
	return news, nil
}
