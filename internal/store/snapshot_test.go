package store

import (
	"testing"
	"time"

	"trade-journal-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.CreateUser(&models.User{Email: "snap@example.com"}))
	require.NoError(t, s.CreateTrade(&models.Trade{Symbol: "AAPL", Type: models.TradeTypeBuy, EntryDate: time.Now().UTC(), Tags: []string{"setup-a"}}))
	require.NoError(t, s.CreateTrade(&models.Trade{Symbol: "TSLA", Type: models.TradeTypeSell, EntryDate: time.Now().UTC()}))
	require.NoError(t, s.AddWatchlistItem(&models.WatchlistItem{Symbol: "MSFT"}))
	require.NoError(t, s.CreateAlert(&models.Alert{Symbol: "AAPL", Type: models.AlertTypePrice, Condition: models.ConditionBelow, Value: "120", Active: true}))
	require.NoError(t, s.SavePerformanceMetric(&models.PerformanceMetric{Date: "2024-01-01", TotalTrades: 2}))
}

func TestExportImport_RoundTrip(t *testing.T) {
	source := newTestStore(t)
	seedStore(t, source)

	snap, err := source.ExportData()
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.False(t, snap.ExportDate.IsZero())
	assert.Len(t, snap.Users, 1)
	assert.Len(t, snap.Trades, 2)
	assert.Len(t, snap.Watchlist, 1)
	assert.Len(t, snap.Alerts, 1)
	assert.Len(t, snap.PerformanceMetrics, 1)

	// Importing into an empty store reproduces identical row counts.
	target := newTestStore(t)
	require.NoError(t, target.ImportData(snap))

	users, err := target.GetUserByEmail("snap@example.com")
	require.NoError(t, err)
	assert.NotNil(t, users)

	trades, err := target.GetTrades(TradeFilter{})
	require.NoError(t, err)
	assert.Len(t, trades, 2)

	watchlist, err := target.GetWatchlist()
	require.NoError(t, err)
	assert.Len(t, watchlist, 1)

	alerts, err := target.GetAlerts(AlertFilter{})
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	metrics, err := target.GetPerformanceMetrics("", "")
	require.NoError(t, err)
	assert.Len(t, metrics, 1)
}

func TestImportData_ReplacesExistingRows(t *testing.T) {
	source := newTestStore(t)
	seedStore(t, source)
	snap, err := source.ExportData()
	require.NoError(t, err)

	target := newTestStore(t)
	require.NoError(t, target.CreateTrade(&models.Trade{Symbol: "OLD", Type: models.TradeTypeBuy, EntryDate: time.Now().UTC()}))

	require.NoError(t, target.ImportData(snap))

	trades, err := target.GetTrades(TradeFilter{})
	require.NoError(t, err)
	require.Len(t, trades, 2, "import is a destructive replace")
	for _, tr := range trades {
		assert.NotEqual(t, "OLD", tr.Symbol)
	}
}

func TestImportData_RollsBackOnFailure(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateTrade(&models.Trade{Symbol: "KEEP", Type: models.TradeTypeBuy, EntryDate: time.Now().UTC()}))

	// Two users sharing an email violate the unique constraint mid-import.
	bad := &Snapshot{
		Version: SnapshotVersion,
		Users: []models.User{
			{Email: "dup@example.com"},
			{Email: "dup@example.com"},
		},
	}
	err := s.ImportData(bad)
	require.Error(t, err)

	// The destructive delete must have been rolled back with the rest.
	trades, err := s.GetTrades(TradeFilter{})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "KEEP", trades[0].Symbol)
}
