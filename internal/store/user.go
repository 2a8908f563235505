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

// normalizeUser applies create-time invariants: generated id and timestamps.
func normalizeUser(u *models.User) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

// CreateUser inserts a new user. A duplicate email violates the unique
// constraint and the engine's error is propagated, not retried.
func (s *Store) CreateUser(u *models.User) error {
	db, err := s.conn("create user")
	if err != nil {
		return err
	}

	normalizeUser(u)
	if err := db.Create(u).Error; err != nil {
		s.logger.Error("Failed to create user", zap.String("email", u.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser returns the user with the given id, or nil when absent.
func (s *Store) GetUser(id string) (*models.User, error) {
	db, err := s.conn("get user")
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail returns the user with the given email, or nil when absent.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	db, err := s.conn("get user by email")
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := db.First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// UpdateUser overwrites all mutable columns unconditionally
// (last-write-wins) and bumps UpdatedAt.
func (s *Store) UpdateUser(u *models.User) error {
	db, err := s.conn("update user")
	if err != nil {
		return err
	}

	u.UpdatedAt = time.Now()
	if err := db.Save(u).Error; err != nil {
		s.logger.Error("Failed to update user", zap.String("id", u.ID), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteUser removes the user and hand-cascades across the other tables:
// the user's trades by user id, and the single-profile watchlist, alert
// and metric rows. Deleting a nonexistent user is not an error.
func (s *Store) DeleteUser(id string) error {
	db, err := s.conn("delete user")
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Trade{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.WatchlistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Alert{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PerformanceMetric{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
	if err != nil {
		s.logger.Error("Failed to delete user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
