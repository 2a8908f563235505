package refresh

import (
	"context"
	"time"

	"trade-journal-go/internal/marketdata"
	"trade-journal-go/internal/store"

	"go.uber.org/zap"
)

// Refresher periodically pulls fresh quotes for every watchlist symbol
// and upserts them through the store. Polling lives here, outside the
// store, which stays a passive data-access layer.
type Refresher struct {
	logger   *zap.Logger
	store    *store.Store
	market   marketdata.ClientInterface
	interval time.Duration
}

// NewRefresher creates a new watchlist quote refresher.
func NewRefresher(logger *zap.Logger, st *store.Store, market marketdata.ClientInterface, interval time.Duration) *Refresher {
	return &Refresher{
		logger:   logger,
		store:    st,
		market:   market,
		interval: interval,
	}
}

// Run starts the refresh loop and blocks until the context is cancelled.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Starting watchlist refresh loop", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping watchlist refresh loop")
			return
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.logger.Error("Watchlist refresh failed", zap.Error(err))
			}
		}
	}
}

// RefreshOnce performs a single refresh round over the current
// watchlist. A symbol whose quote cannot be fetched is skipped; the
// round continues with the rest.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	items, err := r.store.GetWatchlist()
	if err != nil {
		return err
	}

	for _, item := range items {
		quote, err := r.market.GetRealTimePrice(ctx, item.Symbol)
		if err != nil {
			r.logger.Warn("Could not refresh quote", zap.String("symbol", item.Symbol), zap.Error(err))
			continue
		}

		item.LastPrice = &quote.Price
		item.Change = &quote.Change
		item.ChangePercent = &quote.ChangePercent
		if err := r.store.AddWatchlistItem(&item); err != nil {
			r.logger.Error("Could not save refreshed quote", zap.String("symbol", item.Symbol), zap.Error(err))
		}
	}

	r.logger.Debug("Watchlist refresh complete", zap.Int("symbols", len(items)))
	return nil
}
