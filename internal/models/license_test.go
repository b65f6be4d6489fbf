// internal/models/license_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLicenseCatalogTiers(t *testing.T) {
	catalog := LicenseCatalog()
	require.Len(t, catalog, 4)

	personal := LicenseByID("personal")
	require.NotNil(t, personal)
	assert.InDelta(t, 0.01, personal.BasePrice, 1e-9)
	assert.True(t, personal.Perpetual())

	remix := LicenseByID("remix")
	require.NotNil(t, remix)
	assert.InDelta(t, 0.02, remix.BasePrice, 1e-9)
	assert.Equal(t, 180, remix.DurationDays)
	assert.False(t, remix.Perpetual())

	commercial := LicenseByID("commercial")
	require.NotNil(t, commercial)
	assert.Equal(t, 365, commercial.DurationDays)

	exclusive := LicenseByID("exclusive")
	require.NotNil(t, exclusive)
	assert.True(t, exclusive.Perpetual())
	assert.Equal(t, 1, exclusive.MaxUsage)
}

func TestLicenseByIDUnknown(t *testing.T) {
	assert.Nil(t, LicenseByID("platinum"))
	assert.Nil(t, LicenseByID(""))
}

func TestLicenseByIDReturnsCopy(t *testing.T) {
	first := LicenseByID("personal")
	require.NotNil(t, first)
	first.BasePrice = 99

	second := LicenseByID("personal")
	require.NotNil(t, second)
	assert.InDelta(t, 0.01, second.BasePrice, 1e-9)
}

func TestPurchaseExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	perpetual := &LicensePurchase{Status: PurchaseStatusCompleted}
	assert.False(t, perpetual.IsExpired(now))
	assert.True(t, perpetual.Active(now))

	expired := &LicensePurchase{Status: PurchaseStatusCompleted, ExpiresAt: &past}
	assert.True(t, expired.IsExpired(now))
	assert.False(t, expired.Active(now))

	current := &LicensePurchase{Status: PurchaseStatusCompleted, ExpiresAt: &future}
	assert.False(t, current.IsExpired(now))
	assert.True(t, current.Active(now))

	pending := &LicensePurchase{Status: PurchaseStatusPending, ExpiresAt: &future}
	assert.False(t, pending.Active(now))
}
