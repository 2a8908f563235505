package store

import (
	"fmt"
	"time"

	"trade-journal-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// normalizePerformanceMetric applies create-time invariants.
func normalizePerformanceMetric(m *models.PerformanceMetric) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}

// SavePerformanceMetric appends a rollup snapshot, replacing any
// existing snapshot for the same date (upsert-by-date).
func (s *Store) SavePerformanceMetric(m *models.PerformanceMetric) error {
	db, err := s.conn("save performance metric")
	if err != nil {
		return err
	}

	normalizePerformanceMetric(m)
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_trades", "winning_trades", "losing_trades", "win_rate",
			"profit_factor", "average_win", "average_loss", "max_drawdown", "sharpe_ratio",
		}),
	}).Create(m).Error
	if err != nil {
		s.logger.Error("Failed to save performance metric", zap.String("date", m.Date), zap.Error(err))
		return fmt.Errorf("failed to save performance metric: %w", err)
	}
	return nil
}

// GetPerformanceMetrics lists rollup snapshots in date order for
// historical charting. Empty bounds impose no constraint.
func (s *Store) GetPerformanceMetrics(start, end string) ([]models.PerformanceMetric, error) {
	db, err := s.conn("get performance metrics")
	if err != nil {
		return nil, err
	}

	q := db.Model(&models.PerformanceMetric{}).Order("date asc")
	if start != "" {
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		q = q.Where("date <= ?", end)
	}

	var metrics []models.PerformanceMetric
	if err := q.Find(&metrics).Error; err != nil {
		return nil, fmt.Errorf("failed to get performance metrics: %w", err)
	}
	return metrics, nil
}
