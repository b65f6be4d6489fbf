// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.ContentItem{},
		&models.LicensePurchase{},
		&models.Comment{},
		&models.CommentFlag{},
		&models.Notification{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
		"CREATE INDEX IF NOT EXISTS idx_users_wallet ON users(wallet_address)",
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",

		// Content indexes
		"CREATE INDEX IF NOT EXISTS idx_content_items_creator ON content_items(creator_id)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_parent ON content_items(parent_id)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_type_status ON content_items(content_type, status)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_license ON content_items(license_id)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_token ON content_items(token_id)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_tags ON content_items USING GIN(tags)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_created ON content_items(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_content_items_remix_count ON content_items(remix_count DESC)",

		// Purchase indexes
		"CREATE INDEX IF NOT EXISTS idx_license_purchases_buyer ON license_purchases(buyer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_license_purchases_content ON license_purchases(content_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_license_purchases_buyer_address ON license_purchases(buyer_address)",
		"CREATE INDEX IF NOT EXISTS idx_license_purchases_expires ON license_purchases(expires_at)",

		// Comment indexes
		"CREATE INDEX IF NOT EXISTS idx_comments_content ON comments(content_id, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_comment_flags_once ON comment_flags(comment_id, flagger_id)",
		"CREATE INDEX IF NOT EXISTS idx_comment_flags_status ON comment_flags(status, created_at)",

		// Follow indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_follows_edge ON follows(follower_id, followee_id)",
		"CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id)",

		// Notification indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, status, created_at DESC)",

		// Audit log indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user ON audit_logs(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
