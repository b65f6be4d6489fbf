// internal/services/content_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrAccessDenied    = errors.New("a license is required to remix this content")
	ErrParentNotFound  = errors.New("parent content not found")
)

type ContentService struct {
	db                  *gorm.DB
	registry            RegistryAPI
	storageService      *StorageService
	accessService       *AccessService
	notificationService *NotificationService
}

type CreateContentRequest struct {
	Title       string                 `json:"title" validate:"required,min=3,max=255"`
	Description string                 `json:"description,omitempty" validate:"omitempty,max=2000"`
	ContentType models.ContentType     `json:"content_type" validate:"required,oneof=text image audio video"`
	Body        string                 `json:"body,omitempty"`
	CID         string                 `json:"cid,omitempty"`
	FileURL     string                 `json:"file_url,omitempty"`
	LicenseID   string                 `json:"license_id,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	ParentID    *uuid.UUID             `json:"parent_id,omitempty"`
	Register    bool                   `json:"register,omitempty"`
}

type UpdateContentRequest struct {
	Title       string                 `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string                 `json:"description,omitempty" validate:"omitempty,max=2000"`
	Body        string                 `json:"body,omitempty"`
	Category    string                 `json:"category,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ContentSearchParams carries every filter the explore view exposes.
type ContentSearchParams struct {
	utils.PaginationParams
	CreatorID     *uuid.UUID          `json:"creator_id,omitempty"`
	ContentType   *models.ContentType `json:"content_type,omitempty"`
	LicenseID     string              `json:"license_id,omitempty"`
	Author        string              `json:"author,omitempty"`
	RemixesOnly   bool                `json:"remixes_only,omitempty"`
	OriginalsOnly bool                `json:"originals_only,omitempty"`
	MinRemixCount int64               `json:"min_remix_count,omitempty"`
	CreatedWithin string              `json:"created_within,omitempty"` // day, week, month
	Tags          []string            `json:"tags,omitempty"`
}

func NewContentService(db *gorm.DB, registry RegistryAPI, storageService *StorageService, accessService *AccessService, notificationService *NotificationService) *ContentService {
	return &ContentService{
		db:                  db,
		registry:            registry,
		storageService:      storageService,
		accessService:       accessService,
		notificationService: notificationService,
	}
}

// CreateContent records a new original or, when ParentID is set, a
// remix. Remixing registered content goes through the access gate
// first. On-chain registration runs off the request path.
func (s *ContentService) CreateContent(ctx context.Context, creatorID uuid.UUID, req *CreateContentRequest) (*models.ContentItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Body == "" && req.CID == "" && req.FileURL == "" {
		return nil, errors.New("content needs a body, a CID or a file URL")
	}
	if req.LicenseID != "" && models.LicenseByID(req.LicenseID) == nil {
		return nil, ErrLicenseNotFound
	}

	var creator models.User
	if err := s.db.First(&creator, creatorID).Error; err != nil {
		return nil, fmt.Errorf("creator not found: %w", err)
	}
	if creator.Status != models.UserStatusActive {
		return nil, errors.New("creator account is not active")
	}

	var parent *models.ContentItem
	if req.ParentID != nil {
		var err error
		parent, err = s.gateRemix(ctx, &creator, *req.ParentID)
		if err != nil {
			return nil, err
		}
	}

	content := &models.ContentItem{
		CreatorID:     creatorID,
		AuthorAddress: utils.NormalizeAddress(creator.WalletAddress),
		Title:         req.Title,
		Description:   req.Description,
		ContentType:   req.ContentType,
		Body:          req.Body,
		CID:           req.CID,
		FileURL:       req.FileURL,
		LicenseID:     req.LicenseID,
		Category:      req.Category,
		Tags:          pq.StringArray(req.Tags),
		Metadata:      models.JSONB(req.Metadata),
		ParentID:      req.ParentID,
		Status:        models.ContentStatusActive,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(content).Error; err != nil {
			return fmt.Errorf("failed to create content: %w", err)
		}
		if parent != nil {
			if err := tx.Model(&models.ContentItem{}).Where("id = ?", parent.ID).
				UpdateColumn("remix_count", gorm.Expr("remix_count + 1")).Error; err != nil {
				return fmt.Errorf("failed to increment remix count: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.db.Preload("Creator").First(content, content.ID)

	if req.Register {
		go s.registerContent(content, parent)
	}
	if parent != nil {
		go func() {
			if err := s.notificationService.SendRemixNotification(parent, content, &creator); err != nil {
				logrus.WithError(err).Error("Failed to send remix notification")
			}
		}()
	}

	return content, nil
}

// gateRemix loads the parent and runs the remixer through the access
// gate when the parent is registered and licensed.
func (s *ContentService) gateRemix(ctx context.Context, remixer *models.User, parentID uuid.UUID) (*models.ContentItem, error) {
	var parent models.ContentItem
	if err := s.db.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if parent.Status != models.ContentStatusActive {
		return nil, ErrParentNotFound
	}

	// Own content and unlicensed content remix freely
	if parent.CreatorID == remixer.ID || parent.LicenseID == "" || !parent.IsRegistered() {
		return &parent, nil
	}

	decision := s.accessService.CheckAccess(ctx, remixer.WalletAddress, &parent)
	if !decision.Granted {
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, decision.Reason)
	}
	return &parent, nil
}

// GetContent applies visibility rules and bumps the view counter off
// the request path.
func (s *ContentService) GetContent(id uuid.UUID, userID *uuid.UUID) (*models.ContentItem, error) {
	var content models.ContentItem
	if err := s.db.Preload("Creator").Preload("Parent").First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if content.Status != models.ContentStatusActive &&
		(userID == nil || *userID != content.CreatorID) {
		return nil, ErrContentNotFound
	}

	if userID == nil || *userID != content.CreatorID {
		go s.incrementViewCount(id)
	}

	return &content, nil
}

func (s *ContentService) UpdateContent(id, creatorID uuid.UUID, req *UpdateContentRequest) (*models.ContentItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var content models.ContentItem
	if err := s.db.First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if content.CreatorID != creatorID {
		return nil, errors.New("unauthorized to update this content")
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Body != "" {
		updates["body"] = req.Body
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.Metadata != nil {
		updates["metadata"] = models.JSONB(req.Metadata)
	}
	if len(updates) == 0 {
		return &content, nil
	}

	if err := s.db.Model(&content).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}

	s.db.Preload("Creator").First(&content, id)
	return &content, nil
}

// DeleteContent soft-deletes, refused while settled purchases still
// reference the item.
func (s *ContentService) DeleteContent(id, creatorID uuid.UUID) error {
	var content models.ContentItem
	if err := s.db.First(&content, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	if content.CreatorID != creatorID {
		return errors.New("unauthorized to delete this content")
	}

	var purchaseCount int64
	if err := s.db.Model(&models.LicensePurchase{}).
		Where("content_id = ? AND status = ?", id, models.PurchaseStatusCompleted).
		Count(&purchaseCount).Error; err != nil {
		return fmt.Errorf("failed to check purchases: %w", err)
	}
	if purchaseCount > 0 {
		return errors.New("cannot delete content with completed license purchases")
	}

	if err := s.db.Delete(&content).Error; err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	return nil
}

func (s *ContentService) SearchContent(params ContentSearchParams) ([]models.ContentItem, int64, error) {
	query := s.db.Model(&models.ContentItem{}).Preload("Creator").
		Where("status = ?", models.ContentStatusActive)

	if params.CreatorID != nil {
		query = query.Where("creator_id = ?", *params.CreatorID)
	}
	if params.ContentType != nil {
		query = query.Where("content_type = ?", *params.ContentType)
	}
	if params.LicenseID != "" {
		query = query.Where("license_id = ?", params.LicenseID)
	}
	if params.Author != "" {
		query = query.Where("author_address LIKE ?", "%"+strings.ToLower(params.Author)+"%")
	}
	if params.RemixesOnly {
		query = query.Where("parent_id IS NOT NULL")
	}
	if params.OriginalsOnly {
		query = query.Where("parent_id IS NULL")
	}
	if params.MinRemixCount > 0 {
		query = query.Where("remix_count >= ?", params.MinRemixCount)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if cutoff, ok := createdWithinCutoff(params.CreatedWithin, time.Now()); ok {
		query = query.Where("created_at >= ?", cutoff)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(body) LIKE ? OR author_address LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm)
	}
	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pq.StringArray(params.Tags))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count content: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "author_address", "remix_count", "view_count", "like_count"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var items []models.ContentItem
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch content: %w", err)
	}

	return items, total, nil
}

func (s *ContentService) GetCreatorContent(creatorID uuid.UUID, params utils.PaginationParams) ([]models.ContentItem, int64, error) {
	query := s.db.Model(&models.ContentItem{}).Where("creator_id = ?", creatorID)

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count creator content: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "remix_count"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var items []models.ContentItem
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch creator content: %w", err)
	}

	return items, total, nil
}

func (s *ContentService) GetTrendingContent(limit int) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := s.db.Where("status = ?", models.ContentStatusActive).
		Order("remix_count DESC, view_count DESC").
		Limit(limit).
		Preload("Creator").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch trending content: %w", err)
	}
	return items, nil
}

func (s *ContentService) LikeContent(id uuid.UUID) error {
	result := s.db.Model(&models.ContentItem{}).
		Where("id = ? AND status = ?", id, models.ContentStatusActive).
		UpdateColumn("like_count", gorm.Expr("like_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to like content: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContentNotFound
	}
	return nil
}

func (s *ContentService) GetContentStatistics(id, creatorID uuid.UUID) (map[string]interface{}, error) {
	var content models.ContentItem
	if err := s.db.First(&content, id).Error; err != nil {
		return nil, ErrContentNotFound
	}
	if content.CreatorID != creatorID {
		return nil, errors.New("unauthorized to view statistics")
	}

	var salesStats struct {
		TotalSales   int64   `json:"total_sales"`
		TotalRevenue float64 `json:"total_revenue"`
	}
	s.db.Model(&models.LicensePurchase{}).
		Where("content_id = ? AND status = ?", id, models.PurchaseStatusCompleted).
		Count(&salesStats.TotalSales)
	s.db.Model(&models.LicensePurchase{}).
		Where("content_id = ? AND status = ?", id, models.PurchaseStatusCompleted).
		Select("COALESCE(SUM(price_paid), 0)").
		Scan(&salesStats.TotalRevenue)

	return map[string]interface{}{
		"view_count":    content.ViewCount,
		"like_count":    content.LikeCount,
		"remix_count":   content.RemixCount,
		"total_sales":   salesStats.TotalSales,
		"total_revenue": salesStats.TotalRevenue,
		"registered":    content.IsRegistered(),
		"created_at":    content.CreatedAt,
		"updated_at":    content.UpdatedAt,
	}, nil
}

// Helper methods

func (s *ContentService) incrementViewCount(contentID uuid.UUID) {
	s.db.Model(&models.ContentItem{}).Where("id = ?", contentID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
}

// registerContent mints the item on the origin registry and stores the
// token id. Failures only log; the row stays usable unregistered.
func (s *ContentService) registerContent(content *models.ContentItem, parent *models.ContentItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	license := models.LicenseByID(content.LicenseID)
	req := &MintRequest{
		Title:         content.Title,
		CID:           content.CID,
		CreatorWallet: content.AuthorAddress,
	}
	if license != nil {
		req.Price = license.BasePrice
		req.DurationDays = license.DurationDays
		req.RoyaltyBps = int(license.RevenueSharePct * 100)
	}
	if parent != nil {
		req.ParentTokenID = parent.TokenID
	}

	result, err := s.registry.MintContent(ctx, req)
	if err != nil {
		logrus.WithError(err).WithField("content_id", content.ID).
			Error("Failed to register content on origin registry")
		return
	}

	if err := s.db.Model(content).Updates(map[string]interface{}{
		"token_id": result.TokenID,
		"metadata": mergeMetadata(content.Metadata, map[string]interface{}{"mint_tx": result.TxHash}),
	}).Error; err != nil {
		logrus.WithError(err).WithField("content_id", content.ID).
			Error("Failed to store registration result")
	}
}

func createdWithinCutoff(bucket string, now time.Time) (time.Time, bool) {
	switch bucket {
	case "day":
		return now.AddDate(0, 0, -1), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

func mergeMetadata(base models.JSONB, extra map[string]interface{}) models.JSONB {
	merged := make(models.JSONB, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
