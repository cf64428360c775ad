package repository

import (
	"errors"
	"time"

	"snaplink/internal/config"
	"snaplink/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when no row matches the query
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when an insert violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key")
)

// PostgresRepository handles PostgreSQL operations
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(cfg *config.PostgresConfig) *PostgresRepository {
	// Configure GORM logger
	var gormLogger logger.Interface
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gormLogger = logger.Default.LogMode(logger.Silent)
	} else {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}

	// Auto migrate tables
	if err := db.AutoMigrate(&model.User{}, &model.ShortLink{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	log.Info().Msg("PostgreSQL connected successfully")

	return &PostgresRepository{db: db}
}

// GetDB returns the GORM DB instance
func (r *PostgresRepository) GetDB() *gorm.DB {
	return r.db
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
