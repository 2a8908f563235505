package store

import (
	"errors"
	"fmt"
	"time"

	"trade-journal-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TradeFilter selects trades by conjunctively combining the predicates
// that are set; zero-valued fields impose no constraint.
type TradeFilter struct {
	UserID string
	Symbol string
	Type   string
	Start  *time.Time // inclusive lower bound on entry date
	End    *time.Time // inclusive upper bound on entry date
	Limit  int
	Offset int
}

// normalizeTrade applies create-time invariants: generated id, non-nil
// tag list and timestamps.
func normalizeTrade(t *models.Trade) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Tags == nil {
		t.Tags = datatypes.JSONSlice[string]{}
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// CreateTrade inserts a new trade record.
func (s *Store) CreateTrade(t *models.Trade) error {
	db, err := s.conn("create trade")
	if err != nil {
		return err
	}

	normalizeTrade(t)
	if err := db.Create(t).Error; err != nil {
		s.logger.Error("Failed to create trade", zap.String("symbol", t.Symbol), zap.Error(err))
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// GetTrade returns the trade with the given id, or nil when absent.
func (s *Store) GetTrade(id string) (*models.Trade, error) {
	db, err := s.conn("get trade")
	if err != nil {
		return nil, err
	}

	var t models.Trade
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return &t, nil
}

// GetTrades lists trades matching the filter, most recent entry first.
// No matches yields an empty slice, not an error.
func (s *Store) GetTrades(filter TradeFilter) ([]models.Trade, error) {
	db, err := s.conn("get trades")
	if err != nil {
		return nil, err
	}

	q := db.Model(&models.Trade{}).Order("entry_date desc")
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Symbol != "" {
		q = q.Where("symbol = ?", filter.Symbol)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Start != nil {
		q = q.Where("entry_date >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("entry_date <= ?", *filter.End)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var trades []models.Trade
	if err := q.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	return trades, nil
}

// UpdateTrade overwrites all mutable columns unconditionally
// (last-write-wins) and bumps UpdatedAt. Closing a position is an update
// that sets exit price, exit date and profit.
func (s *Store) UpdateTrade(t *models.Trade) error {
	db, err := s.conn("update trade")
	if err != nil {
		return err
	}

	if t.Tags == nil {
		t.Tags = datatypes.JSONSlice[string]{}
	}
	t.UpdatedAt = time.Now()
	if err := db.Save(t).Error; err != nil {
		s.logger.Error("Failed to update trade", zap.String("id", t.ID), zap.Error(err))
		return fmt.Errorf("failed to update trade: %w", err)
	}
	return nil
}

// DeleteTrade removes the trade with the given id. Deleting a
// nonexistent id affects zero rows silently.
func (s *Store) DeleteTrade(id string) error {
	db, err := s.conn("delete trade")
	if err != nil {
		return err
	}

	if err := db.Delete(&models.Trade{}, "id = ?", id).Error; err != nil {
		s.logger.Error("Failed to delete trade", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return nil
}
