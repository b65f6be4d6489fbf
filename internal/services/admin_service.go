// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

const (
	FlagResolutionDismiss = "dismiss"
	FlagResolutionRemove  = "remove"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers         int64   `json:"total_users"`
	ActiveUsers        int64   `json:"active_users"`
	NewUsersThisMonth  int64   `json:"new_users_this_month"`
	TotalContent       int64   `json:"total_content"`
	TotalRemixes       int64   `json:"total_remixes"`
	RegisteredContent  int64   `json:"registered_content"`
	TotalPurchases     int64   `json:"total_purchases"`
	CompletedPurchases int64   `json:"completed_purchases"`
	TotalRevenue       float64 `json:"total_revenue"`
	MonthlyRevenue     float64 `json:"monthly_revenue"`
	PendingFlags       int64   `json:"pending_flags"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	UserType      *models.UserType   `json:"user_type,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

type FlagQueueFilter struct {
	utils.PaginationParams
	Status *models.ReportStatus `json:"status,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.ContentItem{}).Where("status = ?", models.ContentStatusActive).Count(&stats.TotalContent)
	s.db.Model(&models.ContentItem{}).
		Where("status = ? AND parent_id IS NOT NULL", models.ContentStatusActive).
		Count(&stats.TotalRemixes)
	s.db.Model(&models.ContentItem{}).
		Where("status = ? AND token_id <> ''", models.ContentStatusActive).
		Count(&stats.RegisteredContent)

	s.db.Model(&models.LicensePurchase{}).Count(&stats.TotalPurchases)
	s.db.Model(&models.LicensePurchase{}).
		Where("status = ?", models.PurchaseStatusCompleted).
		Count(&stats.CompletedPurchases)
	s.db.Model(&models.LicensePurchase{}).
		Where("status = ?", models.PurchaseStatusCompleted).
		Select("COALESCE(SUM(platform_fee), 0)").
		Scan(&stats.TotalRevenue)
	s.db.Model(&models.LicensePurchase{}).
		Where("status = ? AND completed_at >= ?", models.PurchaseStatusCompleted, monthStart).
		Select("COALESCE(SUM(platform_fee), 0)").
		Scan(&stats.MonthlyRevenue)

	s.db.Model(&models.CommentFlag{}).
		Where("status = ?", models.ReportStatusPending).
		Count(&stats.PendingFlags)

	return stats, nil
}

func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.UserType != nil {
		query = query.Where("user_type = ?", *filter.UserType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ? OR wallet_address ILIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "username", "last_login_at"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID, adminID uuid.UUID, status models.UserStatus, reason string) error {
	if status != models.UserStatusActive && status != models.UserStatusSuspended && status != models.UserStatusBanned {
		return errors.New("invalid user status")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	if user.UserType == models.UserTypeAdmin && userID != adminID {
		return errors.New("cannot change another admin's status")
	}

	oldStatus := user.Status
	if oldStatus == status {
		return nil
	}

	if err := s.db.Model(&user).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	user.Status = status

	s.createAuditLog(adminID, "user_status_change", "user", &userID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": status,
		"reason":     reason,
	})

	go func() {
		if err := s.notificationService.SendUserStatusChangeNotification(&user, oldStatus, reason); err != nil {
			logrus.WithError(err).Error("Failed to send status change notification")
		}
	}()

	return nil
}

// GetFlagQueue lists comment flags for moderation, pending first by
// default.
func (s *AdminService) GetFlagQueue(filter FlagQueueFilter) ([]models.CommentFlag, int64, error) {
	query := s.db.Model(&models.CommentFlag{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	} else {
		query = query.Where("status = ?", models.ReportStatusPending)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count flags: %w", err)
	}

	var flags []models.CommentFlag
	query = query.Preload("Comment").Preload("Comment.Author").Preload("Flagger").
		Order("created_at ASC")
	query = utils.ApplyPagination(query, filter.PaginationParams)
	if err := query.Find(&flags).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch flags: %w", err)
	}
	return flags, total, nil
}

// ResolveFlag closes a moderation review. "remove" takes the comment
// down and closes every sibling flag on it; "dismiss" closes just this
// flag and clears the comment's flagged marker when no flags remain.
func (s *AdminService) ResolveFlag(flagID, adminID uuid.UUID, resolution, notes string) error {
	if resolution != FlagResolutionDismiss && resolution != FlagResolutionRemove {
		return errors.New("resolution must be dismiss or remove")
	}

	var flag models.CommentFlag
	if err := s.db.Preload("Comment").First(&flag, flagID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("flag not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	if flag.Status != models.ReportStatusPending {
		return errors.New("flag is already resolved")
	}

	now := time.Now()
	newStatus := models.ReportStatusDismissed
	if resolution == FlagResolutionRemove {
		newStatus = models.ReportStatusRemoved
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&flag).Updates(map[string]interface{}{
			"status":      newStatus,
			"admin_notes": notes,
			"resolved_by": adminID,
			"resolved_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to resolve flag: %w", err)
		}

		if resolution == FlagResolutionRemove {
			if err := tx.Delete(&models.Comment{}, flag.CommentID).Error; err != nil {
				return fmt.Errorf("failed to remove comment: %w", err)
			}
			// Removal settles every open flag on the comment
			if err := tx.Model(&models.CommentFlag{}).
				Where("comment_id = ? AND status = ?", flag.CommentID, models.ReportStatusPending).
				Updates(map[string]interface{}{
					"status":      models.ReportStatusRemoved,
					"resolved_by": adminID,
					"resolved_at": now,
				}).Error; err != nil {
				return fmt.Errorf("failed to close sibling flags: %w", err)
			}
			return nil
		}

		var pending int64
		if err := tx.Model(&models.CommentFlag{}).
			Where("comment_id = ? AND status = ?", flag.CommentID, models.ReportStatusPending).
			Count(&pending).Error; err != nil {
			return fmt.Errorf("failed to count remaining flags: %w", err)
		}
		if pending == 0 {
			if err := tx.Model(&models.Comment{}).Where("id = ?", flag.CommentID).
				Update("flagged", false).Error; err != nil {
				return fmt.Errorf("failed to clear flagged marker: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.createAuditLog(adminID, "flag_resolved", "comment_flag", &flagID, map[string]interface{}{
		"resolution": resolution,
		"comment_id": flag.CommentID.String(),
	})

	go func() {
		if err := s.notificationService.SendModerationNotification(&flag.Comment, string(newStatus)); err != nil {
			logrus.WithError(err).Error("Failed to send moderation notification")
		}
	}()

	return nil
}

func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	if params.Search != "" {
		query = query.Where("action ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []models.AuditLog
	query = query.Preload("User").Order("created_at DESC")
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return logs, total, nil
}

// UpdateContentStatus lets admins suspend or restore content outside
// the creator-only delete path.
func (s *AdminService) UpdateContentStatus(contentID, adminID uuid.UUID, status models.ContentStatus, reason string) error {
	if status != models.ContentStatusActive && status != models.ContentStatusSuspended && status != models.ContentStatusRemoved {
		return errors.New("invalid content status")
	}

	var content models.ContentItem
	if err := s.db.First(&content, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContentNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	oldStatus := content.Status
	if oldStatus == status {
		return nil
	}
	if err := s.db.Model(&content).Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update content status: %w", err)
	}

	s.createAuditLog(adminID, "content_status_change", "content", &contentID, map[string]interface{}{
		"old_status": oldStatus,
		"new_status": status,
		"reason":     reason,
	})
	return nil
}

func (s *AdminService) createAuditLog(adminID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, values map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NewValues:    models.JSONB(values),
	}
	if err := s.db.Create(auditLog).Error; err != nil {
		logrus.WithError(err).Error("Failed to create audit log")
	}
}
