// internal/services/access_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

var (
	accessCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fyd_access_cache_hits_total",
		Help: "Access decisions served from the in-memory cache.",
	})
	accessCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fyd_access_cache_misses_total",
		Help: "Access checks that had to consult the ledger or registry.",
	})
	accessFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fyd_access_fallback_decisions_total",
		Help: "Access decisions made while the origin registry was unreachable.",
	})
)

// purchaseLedger is the slice of the purchase store the gate needs.
type purchaseLedger interface {
	ActivePurchase(buyerAddress string, contentID uuid.UUID, now time.Time) (*models.LicensePurchase, error)
}

// AccessService decides whether a wallet may use a piece of licensed
// content. Decisions come from, in order: platform policy, the local
// purchase ledger, a TTL cache, the origin registry. Registry outages
// degrade to the last known answer or, under the fail-open policy, to
// a grant that is labeled as such.
type AccessService struct {
	config   *config.Config
	ledger   purchaseLedger
	registry RegistryAPI

	cache     *expirable.LRU[string, models.AccessDecision]
	lastKnown *expirable.LRU[string, models.AccessDecision]
}

func NewAccessService(cfg *config.Config, ledger purchaseLedger, registry RegistryAPI) *AccessService {
	ttl := time.Duration(cfg.Access.CacheTTL) * time.Second
	return &AccessService{
		config:   cfg,
		ledger:   ledger,
		registry: registry,
		cache:    expirable.NewLRU[string, models.AccessDecision](cfg.Access.CacheSize, nil, ttl),
		// Stale answers kept around for outage fallback only
		lastKnown: expirable.NewLRU[string, models.AccessDecision](cfg.Access.CacheSize, nil, 0),
	}
}

// CheckAccess is the single entry point of the gate.
func (s *AccessService) CheckAccess(ctx context.Context, walletAddress string, content *models.ContentItem) models.AccessDecision {
	now := time.Now()

	// Unregistered content has no enforceable terms
	if !content.IsRegistered() {
		return models.AccessDecision{
			Granted:   true,
			Reason:    "content is not registered, open access",
			Source:    models.AccessSourcePolicy,
			CheckedAt: now,
		}
	}

	// No wallet means nothing to check against; browsing stays open
	if !utils.IsWalletAddress(walletAddress) {
		return models.AccessDecision{
			Granted:   true,
			Reason:    "no wallet linked, open access",
			Source:    models.AccessSourcePolicy,
			CheckedAt: now,
		}
	}
	wallet := utils.NormalizeAddress(walletAddress)

	// The local ledger is authoritative for purchases settled here
	if purchase, err := s.ledger.ActivePurchase(wallet, content.ID, now); err == nil && purchase != nil {
		return models.AccessDecision{
			Granted:   true,
			ExpiresAt: purchase.ExpiresAt,
			Reason:    fmt.Sprintf("active %s license", purchase.LicenseID),
			Source:    models.AccessSourceLedger,
			CheckedAt: now,
		}
	} else if err != nil {
		logrus.WithError(err).Warn("Purchase ledger lookup failed during access check")
	}

	key := cacheKey(wallet, content.ID)
	if decision, ok := s.cache.Get(key); ok {
		accessCacheHits.Inc()
		return decision
	}
	accessCacheMisses.Inc()

	decision, err := s.askRegistry(ctx, wallet, content, now)
	if err == nil {
		s.cache.Add(key, decision)
		s.lastKnown.Add(key, decision)
		return decision
	}

	return s.fallback(key, now, err)
}

// askRegistry queries the origin registry, retrying once after a fixed
// delay on rate limiting.
func (s *AccessService) askRegistry(ctx context.Context, wallet string, content *models.ContentItem, now time.Time) (models.AccessDecision, error) {
	granted, err := s.registry.HasAccess(ctx, content.TokenID, wallet)
	if errors.Is(err, ErrRegistryRateLimited) {
		select {
		case <-time.After(time.Duration(s.config.Registry.RetryDelay) * time.Second):
		case <-ctx.Done():
			return models.AccessDecision{}, ctx.Err()
		}
		granted, err = s.registry.HasAccess(ctx, content.TokenID, wallet)
	}
	if err != nil {
		return models.AccessDecision{}, err
	}

	decision := models.AccessDecision{
		Granted:   granted,
		Source:    models.AccessSourceAuthority,
		CheckedAt: now,
	}
	if !granted {
		decision.Reason = "no access recorded on the origin registry"
		return decision, nil
	}

	if expiry, err := s.registry.SubscriptionExpiry(ctx, content.TokenID, wallet); err == nil {
		decision.ExpiresAt = expiry
	} else {
		// Expiry is informational; the grant stands without it
		logrus.WithError(err).Debug("Failed to fetch subscription expiry")
	}
	decision.Reason = "access recorded on the origin registry"
	return decision, nil
}

// fallback answers when the registry cannot. The last known decision
// wins; without one the fail-open policy decides.
func (s *AccessService) fallback(key string, now time.Time, cause error) models.AccessDecision {
	accessFallbacks.Inc()

	if stale, ok := s.lastKnown.Get(key); ok {
		stale.Source = models.AccessSourceCachedFallback
		stale.Reason = "origin registry unreachable, using last known decision"
		stale.CheckedAt = now
		return stale
	}

	if s.config.Access.FailOpen {
		logrus.WithError(cause).Warn("Access gate failing open, registry unreachable")
		return models.AccessDecision{
			Granted:   true,
			Reason:    "origin registry unreachable, platform policy grants access",
			Source:    models.AccessSourceOpenFallback,
			CheckedAt: now,
		}
	}

	return models.AccessDecision{
		Granted:   false,
		Reason:    "origin registry unreachable and fail-open is disabled",
		Source:    models.AccessSourceOpenFallback,
		CheckedAt: now,
	}
}

// Invalidate drops cached decisions for one (wallet, content) pair.
// Called on purchase completion so the new license shows immediately.
func (s *AccessService) Invalidate(walletAddress string, contentID uuid.UUID) {
	key := cacheKey(utils.NormalizeAddress(walletAddress), contentID)
	s.cache.Remove(key)
	s.lastKnown.Remove(key)
}

func cacheKey(wallet string, contentID uuid.UUID) string {
	return wallet + ":" + contentID.String()
}
