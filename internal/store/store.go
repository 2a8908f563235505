package store

import (
	"errors"
	"fmt"
	"sync"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotInitialized is returned when an operation is invoked before a
// successful Initialize. It is wrapped with the name of the attempted
// operation; check with errors.Is.
var ErrNotInitialized = errors.New("store not initialized")

// Store is the sole authority over durable state. It wraps the embedded
// SQLite engine behind typed CRUD operations for the five entity kinds,
// plus snapshot export/import. A Store is constructed once at the
// composition root and injected into every consumer.
type Store struct {
	cfg    *config.Database
	logger *zap.Logger

	mu    sync.Mutex
	db    *gorm.DB
	ready bool
}

// New creates a Store. The database connection is not opened until
// Initialize is called.
func New(cfg *config.Database, logger *zap.Logger) *Store {
	return &Store{cfg: cfg, logger: logger}
}

// Initialize opens the database connection and migrates the schema.
// It is idempotent: concurrent and repeated calls run schema creation
// exactly once, all callers after the first succeed immediately.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	db, err := gorm.Open(sqlite.Open(s.cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Secondary indexes (trade symbol/date/type, watchlist symbol, alert
	// active flag) are declared as gorm index tags on the models.
	if err := db.AutoMigrate(
		&models.User{},
		&models.Trade{},
		&models.WatchlistItem{},
		&models.Alert{},
		&models.PerformanceMetric{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	s.db = db
	s.ready = true
	s.logger.Info("Store initialized", zap.String("dsn", s.cfg.DSN))
	return nil
}

// Close releases the connection handle and resets the initialization
// state; subsequent operations require re-initialization.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	s.ready = false
	s.logger.Info("Store closed")
	return nil
}

// conn returns the database handle, or an error naming the attempted
// operation when the store has not been initialized.
func (s *Store) conn(op string) (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, fmt.Errorf("%s: %w", op, ErrNotInitialized)
	}
	return s.db, nil
}
