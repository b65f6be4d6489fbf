// internal/services/purchase_ledger_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

func seedPurchase(t *testing.T, db *gorm.DB, buyer string, contentID uuid.UUID, licenseID string, status models.PurchaseStatus, createdAt time.Time, expiresAt *time.Time) {
	t.Helper()

	purchase := models.LicensePurchase{
		LicenseID:        licenseID,
		ContentID:        contentID,
		BuyerID:          uuid.New(),
		BuyerAddress:     buyer,
		PricePaid:        0.01,
		PlatformFee:      0.0005,
		Status:           status,
		ExpiresAt:        expiresAt,
		VerificationCode: uuid.NewString()[:8],
	}
	purchase.ID = uuid.New()
	purchase.CreatedAt = createdAt
	purchase.UpdatedAt = createdAt

	require.NoError(t, db.Omit(clause.Associations).Create(&purchase).Error)
}

func TestActivePurchaseUnexpiredSurvivesNewerExpired(t *testing.T) {
	db := openTestDB(t, purchasesTableDDL)
	ledger := NewPurchaseLedger(db)

	now := time.Now().UTC()
	buyer := "0x1234567890abcdef1234567890abcdef12345678"
	contentID := uuid.New()

	// A perpetual license bought first, then a time-boxed one that has
	// since lapsed. The lapsed row is newer but must not shadow the
	// perpetual grant.
	seedPurchase(t, db, buyer, contentID, "personal", models.PurchaseStatusCompleted, now.Add(-48*time.Hour), nil)
	expired := now.Add(-time.Hour)
	seedPurchase(t, db, buyer, contentID, "remix", models.PurchaseStatusCompleted, now.Add(-24*time.Hour), &expired)

	purchase, err := ledger.ActivePurchase(buyer, contentID, now)
	require.NoError(t, err)
	require.NotNil(t, purchase)
	assert.Equal(t, "personal", purchase.LicenseID)
	assert.True(t, purchase.Active(now))
}

func TestActivePurchasePrefersNewestActive(t *testing.T) {
	db := openTestDB(t, purchasesTableDDL)
	ledger := NewPurchaseLedger(db)

	now := time.Now().UTC()
	buyer := "0x1234567890abcdef1234567890abcdef12345678"
	contentID := uuid.New()

	later := now.Add(100 * 24 * time.Hour)
	seedPurchase(t, db, buyer, contentID, "personal", models.PurchaseStatusCompleted, now.Add(-48*time.Hour), nil)
	seedPurchase(t, db, buyer, contentID, "commercial", models.PurchaseStatusCompleted, now.Add(-24*time.Hour), &later)

	purchase, err := ledger.ActivePurchase(buyer, contentID, now)
	require.NoError(t, err)
	require.NotNil(t, purchase)
	assert.Equal(t, "commercial", purchase.LicenseID)
}

func TestActivePurchaseIgnoresExpiredAndPending(t *testing.T) {
	db := openTestDB(t, purchasesTableDDL)
	ledger := NewPurchaseLedger(db)

	now := time.Now().UTC()
	buyer := "0x1234567890abcdef1234567890abcdef12345678"
	contentID := uuid.New()

	expired := now.Add(-time.Hour)
	seedPurchase(t, db, buyer, contentID, "remix", models.PurchaseStatusCompleted, now.Add(-24*time.Hour), &expired)
	seedPurchase(t, db, buyer, contentID, "personal", models.PurchaseStatusPending, now.Add(-time.Minute), nil)

	purchase, err := ledger.ActivePurchase(buyer, contentID, now)
	require.NoError(t, err)
	assert.Nil(t, purchase)
}

func TestActivePurchaseEmptyLedger(t *testing.T) {
	db := openTestDB(t, purchasesTableDDL)
	ledger := NewPurchaseLedger(db)

	purchase, err := ledger.ActivePurchase("0x1234567890abcdef1234567890abcdef12345678", uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, purchase)
}
