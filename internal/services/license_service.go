// internal/services/license_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

var (
	ErrLicenseNotFound    = errors.New("license tier not found")
	ErrWalletRequired     = errors.New("a linked wallet is required to purchase a license")
	ErrOwnContent         = errors.New("cannot purchase a license for your own content")
	ErrAlreadyLicensed    = errors.New("an active license for this content already exists")
	ErrLicenseExhausted   = errors.New("license tier is sold out for this content")
)

// accessInvalidator lets the purchase flow drop stale cached access
// decisions without importing the access gate directly.
type accessInvalidator interface {
	Invalidate(walletAddress string, contentID uuid.UUID)
}

type LicenseService struct {
	db                  *gorm.DB
	config              *config.Config
	registry            RegistryAPI
	notificationService *NotificationService
	accessCache         accessInvalidator
}

type PurchaseLicenseRequest struct {
	ContentID uuid.UUID `json:"content_id" validate:"required"`
	LicenseID string    `json:"license_id" validate:"required"`
}

type PurchaseSearchParams struct {
	utils.PaginationParams
	ContentID *uuid.UUID             `json:"content_id,omitempty"`
	Status    *models.PurchaseStatus `json:"status,omitempty"`
	LicenseID string                 `json:"license_id,omitempty"`
}

func NewLicenseService(db *gorm.DB, cfg *config.Config, registry RegistryAPI, notificationService *NotificationService, accessCache accessInvalidator) *LicenseService {
	return &LicenseService{
		db:                  db,
		config:              cfg,
		registry:            registry,
		notificationService: notificationService,
		accessCache:         accessCache,
	}
}

func (s *LicenseService) GetCatalog() []models.License {
	return models.LicenseCatalog()
}

func (s *LicenseService) GetLicense(id string) (*models.License, error) {
	license := models.LicenseByID(id)
	if license == nil {
		return nil, ErrLicenseNotFound
	}
	return license, nil
}

// CalculateLicensePrice returns the buyer-facing price: base price plus
// the platform fee percentage.
func (s *LicenseService) CalculateLicensePrice(license *models.License) float64 {
	return license.BasePrice * (1 + s.config.Payment.PlatformFeePercent/100)
}

// PlatformFee is the fee portion of the buyer-facing price.
func (s *LicenseService) PlatformFee(license *models.License) float64 {
	return license.BasePrice * s.config.Payment.PlatformFeePercent / 100
}

// PurchaseLicense runs the whole flow: validate, create a pending
// ledger row, settle through the origin registry, complete the row.
// Settlement falls back to a simulated transaction when the registry
// is unreachable; hard rejections leave the row pending so a retry can
// pick it up.
func (s *LicenseService) PurchaseLicense(ctx context.Context, buyerID uuid.UUID, req *PurchaseLicenseRequest) (*models.LicensePurchase, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	license, err := s.GetLicense(req.LicenseID)
	if err != nil {
		return nil, err
	}

	var buyer models.User
	if err := s.db.First(&buyer, buyerID).Error; err != nil {
		return nil, fmt.Errorf("buyer not found: %w", err)
	}
	if buyer.Status != models.UserStatusActive {
		return nil, errors.New("buyer account is not active")
	}
	if buyer.WalletAddress == "" {
		return nil, ErrWalletRequired
	}

	var content models.ContentItem
	if err := s.db.First(&content, req.ContentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("content not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if content.Status != models.ContentStatusActive {
		return nil, errors.New("content is not available for licensing")
	}
	if content.CreatorID == buyerID {
		return nil, ErrOwnContent
	}

	// Reject a second active purchase of the same tier
	var existing models.LicensePurchase
	if err := s.db.Where("content_id = ? AND buyer_id = ? AND license_id = ? AND status = ?",
		req.ContentID, buyerID, req.LicenseID, models.PurchaseStatusCompleted).
		First(&existing).Error; err == nil {
		if !existing.IsExpired(time.Now()) {
			return nil, ErrAlreadyLicensed
		}
	}

	// Tiers with a usage cap, the exclusive tier in practice, are
	// counted across all completed purchases of the content
	if license.MaxUsage > 0 {
		var sold int64
		if err := s.db.Model(&models.LicensePurchase{}).
			Where("content_id = ? AND license_id = ? AND status = ?",
				req.ContentID, req.LicenseID, models.PurchaseStatusCompleted).
			Count(&sold).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if sold >= int64(license.MaxUsage) {
			return nil, ErrLicenseExhausted
		}
	}

	verificationCode, err := utils.GenerateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}

	purchase := &models.LicensePurchase{
		LicenseID:        license.ID,
		ContentID:        content.ID,
		BuyerID:          buyerID,
		BuyerAddress:     utils.NormalizeAddress(buyer.WalletAddress),
		SellerAddress:    utils.NormalizeAddress(content.AuthorAddress),
		PricePaid:        s.CalculateLicensePrice(license),
		PlatformFee:      s.PlatformFee(license),
		Status:           models.PurchaseStatusPending,
		VerificationCode: verificationCode,
	}
	if err := s.db.Create(purchase).Error; err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	if err := s.settle(ctx, purchase, license, &content); err != nil {
		return nil, err
	}

	// Side effects off the request path
	go func() {
		if err := s.notificationService.SendPurchaseConfirmation(purchase, &content); err != nil {
			logrus.WithError(err).Error("Failed to send purchase confirmation")
		}
		if err := s.notificationService.SendSaleNotification(purchase, &content); err != nil {
			logrus.WithError(err).Error("Failed to send sale notification")
		}
	}()

	return purchase, nil
}

// settle moves a pending purchase to completed. Registry settlement is
// retried once after a fixed delay on rate limiting; an unavailable
// registry downgrades to a simulated transaction rather than blocking
// the sale.
func (s *LicenseService) settle(ctx context.Context, purchase *models.LicensePurchase, license *models.License, content *models.ContentItem) error {
	method := models.PaymentMethodWallet
	var txHash string

	if content.IsRegistered() {
		tx, err := s.registry.BuyAccess(ctx, content.TokenID, purchase.BuyerAddress, 1)
		if errors.Is(err, ErrRegistryRateLimited) {
			select {
			case <-time.After(time.Duration(s.config.Registry.RetryDelay) * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			tx, err = s.registry.BuyAccess(ctx, content.TokenID, purchase.BuyerAddress, 1)
		}
		switch {
		case err == nil:
			txHash = tx.TxHash
		case errors.Is(err, ErrRegistryUnavailable) || errors.Is(err, ErrRegistryRateLimited):
			logrus.WithError(err).WithField("purchase_id", purchase.ID).
				Warn("Registry settlement unavailable, recording simulated transaction")
			method = models.PaymentMethodSimulated
			txHash = simulatedPurchaseTx(purchase)
		default:
			// Hard rejection, keep the row pending for a later retry
			return fmt.Errorf("registry settlement failed: %w", err)
		}
	} else {
		method = models.PaymentMethodSimulated
		txHash = simulatedPurchaseTx(purchase)
	}

	now := time.Now()
	var expiresAt *time.Time
	if !license.Perpetual() {
		t := now.AddDate(0, 0, license.DurationDays)
		expiresAt = &t
	}

	updates := map[string]interface{}{
		"status":         models.PurchaseStatusCompleted,
		"payment_method": method,
		"tx_hash":        txHash,
		"expires_at":     expiresAt,
		"completed_at":   now,
	}
	if err := s.db.Model(purchase).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to complete purchase: %w", err)
	}

	purchase.Status = models.PurchaseStatusCompleted
	purchase.PaymentMethod = method
	purchase.TxHash = txHash
	purchase.ExpiresAt = expiresAt
	purchase.CompletedAt = &now

	if s.accessCache != nil {
		s.accessCache.Invalidate(purchase.BuyerAddress, purchase.ContentID)
	}

	return nil
}

// RetrySettlement re-runs settlement for a purchase stuck in pending.
func (s *LicenseService) RetrySettlement(ctx context.Context, buyerID, purchaseID uuid.UUID) (*models.LicensePurchase, error) {
	var purchase models.LicensePurchase
	if err := s.db.Where("id = ? AND buyer_id = ?", purchaseID, buyerID).First(&purchase).Error; err != nil {
		return nil, fmt.Errorf("purchase not found: %w", err)
	}
	if purchase.Status != models.PurchaseStatusPending {
		return nil, errors.New("only pending purchases can be retried")
	}

	license, err := s.GetLicense(purchase.LicenseID)
	if err != nil {
		return nil, err
	}
	var content models.ContentItem
	if err := s.db.First(&content, purchase.ContentID).Error; err != nil {
		return nil, fmt.Errorf("content not found: %w", err)
	}

	if err := s.settle(ctx, &purchase, license, &content); err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (s *LicenseService) CancelPurchase(buyerID, purchaseID uuid.UUID) (*models.LicensePurchase, error) {
	var purchase models.LicensePurchase
	if err := s.db.Where("id = ? AND buyer_id = ?", purchaseID, buyerID).First(&purchase).Error; err != nil {
		return nil, fmt.Errorf("purchase not found: %w", err)
	}
	if purchase.Status != models.PurchaseStatusPending {
		return nil, errors.New("only pending purchases can be cancelled")
	}

	if err := s.db.Model(&purchase).Update("status", models.PurchaseStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel purchase: %w", err)
	}
	purchase.Status = models.PurchaseStatusCancelled
	return &purchase, nil
}

// GetPurchase loads one purchase, reporting expiry lazily.
func (s *LicenseService) GetPurchase(purchaseID uuid.UUID) (*models.LicensePurchase, error) {
	var purchase models.LicensePurchase
	if err := s.db.Preload("Content").First(&purchase, purchaseID).Error; err != nil {
		return nil, fmt.Errorf("purchase not found: %w", err)
	}
	s.markIfExpired(&purchase)
	return &purchase, nil
}

// GetPurchaseHistory lists a buyer's ledger rows, newest first.
func (s *LicenseService) GetPurchaseHistory(buyerID uuid.UUID, params *PurchaseSearchParams) ([]models.LicensePurchase, int64, error) {
	query := s.db.Model(&models.LicensePurchase{}).Where("buyer_id = ?", buyerID)

	if params.ContentID != nil {
		query = query.Where("content_id = ?", *params.ContentID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.LicenseID != "" {
		query = query.Where("license_id = ?", params.LicenseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	var purchases []models.LicensePurchase
	query = query.Preload("Content")
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "completed_at", "price_paid"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&purchases).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch purchases: %w", err)
	}

	for i := range purchases {
		s.markIfExpired(&purchases[i])
	}
	return purchases, total, nil
}

// GetContentSales lists settled purchases of one content item, the
// creator-facing sales view.
func (s *LicenseService) GetContentSales(creatorID, contentID uuid.UUID, params utils.PaginationParams) ([]models.LicensePurchase, int64, error) {
	var content models.ContentItem
	if err := s.db.First(&content, contentID).Error; err != nil {
		return nil, 0, fmt.Errorf("content not found: %w", err)
	}
	if content.CreatorID != creatorID {
		return nil, 0, errors.New("only the creator can view sales")
	}

	query := s.db.Model(&models.LicensePurchase{}).
		Where("content_id = ? AND status = ?", contentID, models.PurchaseStatusCompleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	var purchases []models.LicensePurchase
	query = query.Preload("Buyer").Order("completed_at DESC")
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&purchases).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales: %w", err)
	}
	return purchases, total, nil
}

// VerifyPurchaseByCode resolves a verification code to its purchase,
// the public proof-of-license lookup.
func (s *LicenseService) VerifyPurchaseByCode(code string) (*models.LicensePurchase, bool, error) {
	var purchase models.LicensePurchase
	if err := s.db.Preload("Content").Preload("Buyer").
		Where("verification_code = ?", code).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, errors.New("verification code not found")
		}
		return nil, false, fmt.Errorf("database error: %w", err)
	}

	s.markIfExpired(&purchase)
	return &purchase, purchase.Active(time.Now()), nil
}

// RecordUsage bumps the usage counter on an active purchase, called
// when a licensed remix is created.
func (s *LicenseService) RecordUsage(purchaseID uuid.UUID) error {
	result := s.db.Model(&models.LicensePurchase{}).
		Where("id = ? AND status = ?", purchaseID, models.PurchaseStatusCompleted).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to record usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("no active purchase to record usage against")
	}
	return nil
}

// markIfExpired flips a completed-but-stale row to expired. Reads do
// the bookkeeping, nothing sweeps.
func (s *LicenseService) markIfExpired(purchase *models.LicensePurchase) {
	if purchase.Status != models.PurchaseStatusCompleted || !purchase.IsExpired(time.Now()) {
		return
	}
	purchase.Status = models.PurchaseStatusExpired
	if err := s.db.Model(purchase).Update("status", models.PurchaseStatusExpired).Error; err != nil {
		logrus.WithError(err).WithField("purchase_id", purchase.ID).
			Warn("Failed to persist lazy expiry")
	}
}

// PurchaseLedger is the read-side view of the purchase table used by
// the access gate.
type PurchaseLedger struct {
	db *gorm.DB
}

func NewPurchaseLedger(db *gorm.DB) *PurchaseLedger {
	return &PurchaseLedger{db: db}
}

// ActivePurchase returns the buyer's unexpired completed purchase for
// a content item, or nil when there is none.
func (l *PurchaseLedger) ActivePurchase(buyerAddress string, contentID uuid.UUID, now time.Time) (*models.LicensePurchase, error) {
	var purchase models.LicensePurchase
	err := l.db.Where("buyer_address = ? AND content_id = ? AND status = ?",
		buyerAddress, contentID, models.PurchaseStatusCompleted).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Order("created_at DESC").
		First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ledger lookup failed: %w", err)
	}
	return &purchase, nil
}

func simulatedPurchaseTx(purchase *models.LicensePurchase) string {
	seed := fmt.Sprintf("purchase:%s:%s:%s", purchase.ID, purchase.BuyerAddress, purchase.LicenseID)
	return "0x" + utils.HashString(seed)
}
