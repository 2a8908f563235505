package store

import (
	"fmt"
	"time"

	"trade-journal-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// normalizeWatchlistItem applies create-time invariants.
func normalizeWatchlistItem(item *models.WatchlistItem) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
}

// AddWatchlistItem inserts a tracked symbol, or refreshes the quote
// snapshot of an existing row. The symbol is the natural key: adding the
// same symbol twice leaves exactly one row.
func (s *Store) AddWatchlistItem(item *models.WatchlistItem) error {
	db, err := s.conn("add watchlist item")
	if err != nil {
		return err
	}

	normalizeWatchlistItem(item)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "last_price", "change", "change_percent"}),
	}).Create(item).Error
	if err != nil {
		s.logger.Error("Failed to add watchlist item", zap.String("symbol", item.Symbol), zap.Error(err))
		return fmt.Errorf("failed to add watchlist item: %w", err)
	}
	return nil
}

// GetWatchlist lists all tracked symbols, most recently added first.
func (s *Store) GetWatchlist() ([]models.WatchlistItem, error) {
	db, err := s.conn("get watchlist")
	if err != nil {
		return nil, err
	}

	var items []models.WatchlistItem
	if err := db.Order("added_at desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}
	return items, nil
}

// RemoveWatchlistItem deletes by symbol. A symbol that is not tracked
// affects zero rows silently.
func (s *Store) RemoveWatchlistItem(symbol string) error {
	db, err := s.conn("remove watchlist item")
	if err != nil {
		return err
	}

	if err := db.Delete(&models.WatchlistItem{}, "symbol = ?", symbol).Error; err != nil {
		s.logger.Error("Failed to remove watchlist item", zap.String("symbol", symbol), zap.Error(err))
		return fmt.Errorf("failed to remove watchlist item: %w", err)
	}
	return nil
}
