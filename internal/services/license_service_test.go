// internal/services/license_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

func licenseTestService(feePercent float64) *LicenseService {
	cfg := &config.Config{}
	cfg.Payment.PlatformFeePercent = feePercent
	return NewLicenseService(nil, cfg, nil, nil, nil)
}

func TestCalculateLicensePriceAddsPlatformFee(t *testing.T) {
	svc := licenseTestService(5)

	personal := models.LicenseByID("personal")
	require.NotNil(t, personal)

	assert.InDelta(t, 0.0105, svc.CalculateLicensePrice(personal), 1e-9)
	assert.InDelta(t, 0.0005, svc.PlatformFee(personal), 1e-9)
}

func TestCalculateLicensePriceZeroFee(t *testing.T) {
	svc := licenseTestService(0)

	remix := models.LicenseByID("remix")
	require.NotNil(t, remix)

	assert.InDelta(t, remix.BasePrice, svc.CalculateLicensePrice(remix), 1e-9)
	assert.Zero(t, svc.PlatformFee(remix))
}

func TestGetLicenseUnknownTier(t *testing.T) {
	svc := licenseTestService(5)

	_, err := svc.GetLicense("platinum")
	assert.ErrorIs(t, err, ErrLicenseNotFound)
}

func TestGetCatalogReturnsAllTiers(t *testing.T) {
	svc := licenseTestService(5)

	catalog := svc.GetCatalog()
	require.Len(t, catalog, 4)

	ids := make([]string, len(catalog))
	for i, tier := range catalog {
		ids[i] = tier.ID
	}
	assert.ElementsMatch(t, []string{"personal", "remix", "commercial", "exclusive"}, ids)
}

func TestSimulatedPurchaseTxIsDeterministic(t *testing.T) {
	purchase := &models.LicensePurchase{LicenseID: "remix", BuyerAddress: "0xabc"}

	first := simulatedPurchaseTx(purchase)
	second := simulatedPurchaseTx(purchase)

	assert.Equal(t, first, second)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", first)
}
