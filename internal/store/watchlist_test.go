package store

import (
	"testing"

	"trade-journal-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWatchlistItem_UpsertsBySymbol(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddWatchlistItem(&models.WatchlistItem{Symbol: "TSLA", Name: "Tesla"}))

	price := 242.5
	require.NoError(t, s.AddWatchlistItem(&models.WatchlistItem{
		Symbol:    "TSLA",
		Name:      "Tesla Inc",
		LastPrice: &price,
	}))

	items, err := s.GetWatchlist()
	require.NoError(t, err)
	require.Len(t, items, 1, "second add upserts, does not duplicate")
	assert.Equal(t, "TSLA", items[0].Symbol)
	assert.Equal(t, "Tesla Inc", items[0].Name)
	require.NotNil(t, items[0].LastPrice)
	assert.Equal(t, 242.5, *items[0].LastPrice)
}

func TestRemoveWatchlistItem(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddWatchlistItem(&models.WatchlistItem{Symbol: "AAPL"}))
	require.NoError(t, s.AddWatchlistItem(&models.WatchlistItem{Symbol: "TSLA"}))

	require.NoError(t, s.RemoveWatchlistItem("AAPL"))

	items, err := s.GetWatchlist()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "TSLA", items[0].Symbol)

	// Removing an untracked symbol is not an error.
	assert.NoError(t, s.RemoveWatchlistItem("MSFT"))
}
