package store

import (
	"fmt"
	"time"

	"trade-journal-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SnapshotVersion is the schema version stamped on exports.
const SnapshotVersion = 1

// Snapshot is the full-database bundle produced by ExportData and
// consumed by ImportData. Composite fields are carried in decoded,
// structured form.
type Snapshot struct {
	Version            int                        `json:"version"`
	ExportDate         time.Time                  `json:"export_date"`
	Users              []models.User              `json:"users"`
	Trades             []models.Trade             `json:"trades"`
	Watchlist          []models.WatchlistItem     `json:"watchlist"`
	Alerts             []models.Alert             `json:"alerts"`
	PerformanceMetrics []models.PerformanceMetric `json:"performance_metrics"`
}

// ExportData reads every table fully and bundles the rows into one
// snapshot tagged with an export timestamp and schema version.
func (s *Store) ExportData() (*Snapshot, error) {
	db, err := s.conn("export data")
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportDate: time.Now(),
	}
	if err := db.Find(&snap.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	if err := db.Find(&snap.Trades).Error; err != nil {
		return nil, fmt.Errorf("failed to export trades: %w", err)
	}
	if err := db.Find(&snap.Watchlist).Error; err != nil {
		return nil, fmt.Errorf("failed to export watchlist: %w", err)
	}
	if err := db.Find(&snap.Alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to export alerts: %w", err)
	}
	if err := db.Find(&snap.PerformanceMetrics).Error; err != nil {
		return nil, fmt.Errorf("failed to export performance metrics: %w", err)
	}

	s.logger.Info("Exported snapshot",
		zap.Int("users", len(snap.Users)),
		zap.Int("trades", len(snap.Trades)),
		zap.Int("watchlist", len(snap.Watchlist)),
		zap.Int("alerts", len(snap.Alerts)),
		zap.Int("metrics", len(snap.PerformanceMetrics)),
	)
	return snap, nil
}

// ImportData destructively replaces the entire database with the
// snapshot's contents. The delete-then-reinsert sequence runs inside a
// single transaction: either the full snapshot applies or the store is
// left exactly as it was before the call. Records go through the same
// normalization as the per-entity create path, so id generation and
// composite-field encoding apply uniformly.
func (s *Store) ImportData(snap *Snapshot) error {
	db, err := s.conn("import data")
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{
			&models.User{}, &models.Trade{}, &models.WatchlistItem{},
			&models.Alert{}, &models.PerformanceMetric{},
		} {
			if err := global.Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		for i := range snap.Users {
			u := snap.Users[i]
			normalizeUser(&u)
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("failed to import user: %w", err)
			}
		}
		for i := range snap.Trades {
			t := snap.Trades[i]
			normalizeTrade(&t)
			if err := tx.Create(&t).Error; err != nil {
				return fmt.Errorf("failed to import trade: %w", err)
			}
		}
		for i := range snap.Watchlist {
			item := snap.Watchlist[i]
			normalizeWatchlistItem(&item)
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to import watchlist item: %w", err)
			}
		}
		for i := range snap.Alerts {
			a := snap.Alerts[i]
			normalizeAlert(&a)
			if err := tx.Create(&a).Error; err != nil {
				return fmt.Errorf("failed to import alert: %w", err)
			}
		}
		for i := range snap.PerformanceMetrics {
			m := snap.PerformanceMetrics[i]
			normalizePerformanceMetric(&m)
			if err := tx.Create(&m).Error; err != nil {
				return fmt.Errorf("failed to import performance metric: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Import failed, transaction rolled back", zap.Error(err))
		return fmt.Errorf("failed to import snapshot: %w", err)
	}

	s.logger.Info("Imported snapshot",
		zap.Int("version", snap.Version),
		zap.Time("export_date", snap.ExportDate),
	)
	return nil
}
