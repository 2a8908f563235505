package refresh

import (
	"context"
	"errors"
	"testing"
	"time"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/marketdata"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockMarketClient is a mock implementation of marketdata.ClientInterface.
type MockMarketClient struct {
	mock.Mock
}

func (m *MockMarketClient) GetRealTimePrice(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketdata.Quote), args.Error(1)
}

func (m *MockMarketClient) GetHistoricalData(ctx context.Context, symbol, timeframe string) ([]marketdata.Candle, error) {
	args := m.Called(ctx, symbol, timeframe)
	return args.Get(0).([]marketdata.Candle), args.Error(1)
}

func (m *MockMarketClient) GetNews(ctx context.Context, symbols []string, limit int) ([]marketdata.NewsItem, error) {
	args := m.Called(ctx, symbols, limit)
	return args.Get(0).([]marketdata.NewsItem), args.Error(1)
}

func setupTest(t *testing.T) (*store.Store, *MockMarketClient) {
	t.Helper()
	st := store.New(&config.Database{DSN: "file::memory:"}, zap.NewNop())
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { _ = st.Close() })
	return st, new(MockMarketClient)
}

func TestRefreshOnce_UpdatesQuotes(t *testing.T) {
	st, mockClient := setupTest(t)
	require.NoError(t, st.AddWatchlistItem(&models.WatchlistItem{Symbol: "AAPL"}))
	require.NoError(t, st.AddWatchlistItem(&models.WatchlistItem{Symbol: "TSLA"}))

	mockClient.On("GetRealTimePrice", mock.Anything, "AAPL").
		Return(&marketdata.Quote{Symbol: "AAPL", Price: 187.3, Change: 1.2, ChangePercent: 0.64}, nil)
	mockClient.On("GetRealTimePrice", mock.Anything, "TSLA").
		Return(&marketdata.Quote{Symbol: "TSLA", Price: 242.5, Change: -3.1, ChangePercent: -1.26}, nil)

	r := NewRefresher(zap.NewNop(), st, mockClient, time.Minute)
	require.NoError(t, r.RefreshOnce(context.Background()))
	mockClient.AssertExpectations(t)

	items, err := st.GetWatchlist()
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotNil(t, item.LastPrice, "quote for %s", item.Symbol)
		require.NotNil(t, item.ChangePercent)
	}
}

func TestRefreshOnce_SkipsFailedSymbols(t *testing.T) {
	st, mockClient := setupTest(t)
	require.NoError(t, st.AddWatchlistItem(&models.WatchlistItem{Symbol: "AAPL"}))
	require.NoError(t, st.AddWatchlistItem(&models.WatchlistItem{Symbol: "BAD"}))

	mockClient.On("GetRealTimePrice", mock.Anything, "AAPL").
		Return(&marketdata.Quote{Symbol: "AAPL", Price: 187.3}, nil)
	mockClient.On("GetRealTimePrice", mock.Anything, "BAD").
		Return(nil, errors.New("provider down"))

	r := NewRefresher(zap.NewNop(), st, mockClient, time.Minute)
	require.NoError(t, r.RefreshOnce(context.Background()), "one bad symbol does not fail the round")
	mockClient.AssertExpectations(t)

	items, err := st.GetWatchlist()
	require.NoError(t, err)
	for _, item := range items {
		if item.Symbol == "AAPL" {
			assert.NotNil(t, item.LastPrice)
		}
		if item.Symbol == "BAD" {
			assert.Nil(t, item.LastPrice)
		}
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	st, mockClient := setupTest(t)

	r := NewRefresher(zap.NewNop(), st, mockClient, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop on context cancellation")
	}
}
