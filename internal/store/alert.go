package store

import (
	"errors"
	"fmt"
	"time"

	"trade-journal-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlertFilter selects alerts; zero-valued fields impose no constraint.
type AlertFilter struct {
	Symbol     string
	ActiveOnly bool
}

// normalizeAlert applies create-time invariants.
func normalizeAlert(a *models.Alert) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
}

// CreateAlert inserts a new alert.
func (s *Store) CreateAlert(a *models.Alert) error {
	db, err := s.conn("create alert")
	if err != nil {
		return err
	}

	normalizeAlert(a)
	if err := db.Create(a).Error; err != nil {
		s.logger.Error("Failed to create alert", zap.String("symbol", a.Symbol), zap.Error(err))
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// GetAlert returns the alert with the given id, or nil when absent.
func (s *Store) GetAlert(id string) (*models.Alert, error) {
	db, err := s.conn("get alert")
	if err != nil {
		return nil, err
	}

	var a models.Alert
	if err := db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return &a, nil
}

// GetAlerts lists alerts matching the filter, most recent first.
func (s *Store) GetAlerts(filter AlertFilter) ([]models.Alert, error) {
	db, err := s.conn("get alerts")
	if err != nil {
		return nil, err
	}

	q := db.Model(&models.Alert{}).Order("created_at desc")
	if filter.Symbol != "" {
		q = q.Where("symbol = ?", filter.Symbol)
	}
	if filter.ActiveOnly {
		q = q.Where("active = ?", true)
	}

	var alerts []models.Alert
	if err := q.Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	return alerts, nil
}

// UpdateAlert overwrites all mutable columns unconditionally. Toggling
// the active flag is an update.
func (s *Store) UpdateAlert(a *models.Alert) error {
	db, err := s.conn("update alert")
	if err != nil {
		return err
	}

	if err := db.Save(a).Error; err != nil {
		s.logger.Error("Failed to update alert", zap.String("id", a.ID), zap.Error(err))
		return fmt.Errorf("failed to update alert: %w", err)
	}
	return nil
}

// DeleteAlert removes the alert with the given id. Deleting a
// nonexistent id affects zero rows silently.
func (s *Store) DeleteAlert(id string) error {
	db, err := s.conn("delete alert")
	if err != nil {
		return err
	}

	if err := db.Delete(&models.Alert{}, "id = ?", id).Error; err != nil {
		s.logger.Error("Failed to delete alert", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return nil
}
