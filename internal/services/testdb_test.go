// internal/services/testdb_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Schema for the tables the database-backed tests touch. Kept by hand
// because the production migrations use postgres-only defaults.
const (
	usersTableDDL = `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		username TEXT NOT NULL UNIQUE,
		email TEXT,
		password_hash TEXT,
		wallet_address TEXT UNIQUE,
		wallet_nonce TEXT,
		user_type TEXT NOT NULL DEFAULT 'creator',
		status TEXT DEFAULT 'active',
		profile_data BLOB,
		last_login_at DATETIME
	)`

	purchasesTableDDL = `CREATE TABLE license_purchases (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		license_id TEXT NOT NULL,
		content_id TEXT NOT NULL,
		buyer_id TEXT NOT NULL,
		buyer_address TEXT NOT NULL,
		seller_address TEXT,
		price_paid REAL NOT NULL,
		platform_fee REAL NOT NULL,
		status TEXT DEFAULT 'pending',
		payment_method TEXT,
		tx_hash TEXT,
		expires_at DATETIME,
		completed_at DATETIME,
		usage_count INTEGER DEFAULT 0,
		verification_code TEXT
	)`
)

func openTestDB(t *testing.T, ddl ...string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every in-memory sqlite connection gets its own database; pin the
	// pool to one connection so all statements see the same schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
