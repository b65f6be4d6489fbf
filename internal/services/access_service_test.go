// internal/services/access_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

type fakeLedger struct {
	purchase *models.LicensePurchase
	err      error
}

func (f *fakeLedger) ActivePurchase(buyerAddress string, contentID uuid.UUID, now time.Time) (*models.LicensePurchase, error) {
	return f.purchase, f.err
}

type fakeRegistry struct {
	hasAccess   bool
	err         error
	expiry      *time.Time
	accessCalls int
}

func (f *fakeRegistry) MintContent(ctx context.Context, req *MintRequest) (*MintResult, error) {
	return &MintResult{TokenID: "1", TxHash: "0x0"}, nil
}

func (f *fakeRegistry) BuyAccess(ctx context.Context, tokenID, buyerAddress string, periods int) (*AccessTx, error) {
	return &AccessTx{TxHash: "0x0"}, nil
}

func (f *fakeRegistry) HasAccess(ctx context.Context, tokenID, walletAddress string) (bool, error) {
	f.accessCalls++
	return f.hasAccess, f.err
}

func (f *fakeRegistry) SubscriptionExpiry(ctx context.Context, tokenID, walletAddress string) (*time.Time, error) {
	return f.expiry, nil
}

func (f *fakeRegistry) RenewAccess(ctx context.Context, tokenID, walletAddress string, periods int) (*AccessTx, error) {
	return &AccessTx{TxHash: "0x0"}, nil
}

func (f *fakeRegistry) GetLicenseTerms(ctx context.Context, tokenID string) (*RegistryTerms, error) {
	return &RegistryTerms{}, nil
}

func accessTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Access.CacheTTL = 60
	cfg.Access.CacheSize = 128
	return cfg
}

func registeredContent() *models.ContentItem {
	content := &models.ContentItem{TokenID: "42"}
	content.ID = uuid.New()
	return content
}

const testWallet = "0xAbCd000000000000000000000000000000001234"

func TestCheckAccessUnregisteredContentIsOpen(t *testing.T) {
	svc := NewAccessService(accessTestConfig(), &fakeLedger{}, &fakeRegistry{})

	content := &models.ContentItem{}
	content.ID = uuid.New()

	decision := svc.CheckAccess(context.Background(), testWallet, content)
	assert.True(t, decision.Granted)
	assert.Equal(t, models.AccessSourcePolicy, decision.Source)
}

func TestCheckAccessNoWalletIsOpen(t *testing.T) {
	svc := NewAccessService(accessTestConfig(), &fakeLedger{}, &fakeRegistry{})

	decision := svc.CheckAccess(context.Background(), "", registeredContent())
	assert.True(t, decision.Granted)
	assert.Equal(t, models.AccessSourcePolicy, decision.Source)
}

func TestCheckAccessLedgerWins(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)
	ledger := &fakeLedger{purchase: &models.LicensePurchase{
		LicenseID: "remix",
		Status:    models.PurchaseStatusCompleted,
		ExpiresAt: &expires,
	}}
	registry := &fakeRegistry{}
	svc := NewAccessService(accessTestConfig(), ledger, registry)

	decision := svc.CheckAccess(context.Background(), testWallet, registeredContent())
	assert.True(t, decision.Granted)
	assert.Equal(t, models.AccessSourceLedger, decision.Source)
	require.NotNil(t, decision.ExpiresAt)
	assert.Equal(t, expires.Unix(), decision.ExpiresAt.Unix())
	assert.Zero(t, registry.accessCalls, "ledger hit should not reach the registry")
}

func TestCheckAccessAuthorityDecisionIsCached(t *testing.T) {
	registry := &fakeRegistry{hasAccess: true}
	svc := NewAccessService(accessTestConfig(), &fakeLedger{}, registry)
	content := registeredContent()

	first := svc.CheckAccess(context.Background(), testWallet, content)
	second := svc.CheckAccess(context.Background(), testWallet, content)

	assert.True(t, first.Granted)
	assert.Equal(t, models.AccessSourceAuthority, first.Source)
	assert.True(t, second.Granted)
	assert.Equal(t, 1, registry.accessCalls, "second check should be served from cache")
}

func TestInvalidateForcesRecheck(t *testing.T) {
	registry := &fakeRegistry{hasAccess: true}
	svc := NewAccessService(accessTestConfig(), &fakeLedger{}, registry)
	content := registeredContent()

	svc.CheckAccess(context.Background(), testWallet, content)
	svc.Invalidate(testWallet, content.ID)
	svc.CheckAccess(context.Background(), testWallet, content)

	assert.Equal(t, 2, registry.accessCalls)
}

func TestCheckAccessOutageUsesLastKnown(t *testing.T) {
	registry := &fakeRegistry{hasAccess: true}
	svc := NewAccessService(accessTestConfig(), &fakeLedger{}, registry)
	content := registeredContent()

	// Prime both caches with a healthy answer, then poke a hole in the
	// fresh cache to force the registry path while it is down.
	svc.CheckAccess(context.Background(), testWallet, content)
	svc.cache.Purge()
	registry.err = ErrRegistryUnavailable

	decision := svc.CheckAccess(context.Background(), testWallet, content)
	assert.True(t, decision.Granted)
	assert.Equal(t, models.AccessSourceCachedFallback, decision.Source)
}

func TestCheckAccessOutageFailOpen(t *testing.T) {
	cfg := accessTestConfig()
	cfg.Access.FailOpen = true
	registry := &fakeRegistry{err: ErrRegistryUnavailable}
	svc := NewAccessService(cfg, &fakeLedger{}, registry)

	decision := svc.CheckAccess(context.Background(), testWallet, registeredContent())
	assert.True(t, decision.Granted)
	assert.Equal(t, models.AccessSourceOpenFallback, decision.Source)
}

func TestCheckAccessOutageFailClosed(t *testing.T) {
	registry := &fakeRegistry{err: ErrRegistryUnavailable}
	svc := NewAccessService(accessTestConfig(), &fakeLedger{}, registry)

	decision := svc.CheckAccess(context.Background(), testWallet, registeredContent())
	assert.False(t, decision.Granted)
	assert.Equal(t, models.AccessSourceOpenFallback, decision.Source)
}

func TestCheckAccessDenialFromAuthority(t *testing.T) {
	registry := &fakeRegistry{hasAccess: false}
	svc := NewAccessService(accessTestConfig(), &fakeLedger{}, registry)

	decision := svc.CheckAccess(context.Background(), testWallet, registeredContent())
	assert.False(t, decision.Granted)
	assert.Equal(t, models.AccessSourceAuthority, decision.Source)
}
