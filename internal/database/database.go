package database

import (
	"fmt"
	"time"

	"halisaha-backend/internal/database/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	LogLevel        logger.LogLevel
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	SkipMigrate     bool
}

// Initialize opens a Postgres connection and creates the schema from GORM models.
func Initialize(dsn string, opts *Options) (*gorm.DB, error) {
	// Defaults
	if opts == nil {
		opts = &Options{}
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Error
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 20
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 10
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}
	if opts.ConnMaxIdleTime == 0 {
		opts.ConnMaxIdleTime = 10 * time.Minute
	}

	// Open DB
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	if !opts.SkipMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates tables and the indexes GORM tags cannot express.
func Migrate(db *gorm.DB) error {
	// Required for gen_random_uuid() defaults on older Postgres versions
	_ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error

	all := []interface{}{
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamJoinRequest{},
		&models.Notification{},
	}
	if err := db.AutoMigrate(all...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// At most one pending request per (team, user); resolved requests may repeat.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_team_join_requests_pending
		ON team_join_requests (team_id, user_id) WHERE status = 'pending'`).Error; err != nil {
		return fmt.Errorf("create pending join request index: %w", err)
	}

	return nil
}
