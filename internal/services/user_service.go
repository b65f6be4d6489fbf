// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrNotFollowing  = errors.New("not following this user")
	ErrAlreadyFollow = errors.New("already following this user")
)

type UserService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type UpdateProfileRequest struct {
	Username    string                 `json:"username,omitempty" validate:"omitempty,username"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty"`
}

// PublicProfile is the subset of a user other users can see.
type PublicProfile struct {
	ID            uuid.UUID    `json:"id"`
	Username      string       `json:"username"`
	WalletAddress string       `json:"wallet_address,omitempty"`
	ProfileData   models.JSONB `json:"profile_data,omitempty"`
	ContentCount  int64        `json:"content_count"`
	RemixCount    int64        `json:"remix_count"`
	Followers     int64        `json:"followers"`
	Following     int64        `json:"following"`
}

func NewUserService(db *gorm.DB, notificationService *NotificationService) *UserService {
	return &UserService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *UserService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetPublicProfile(id uuid.UUID) (*PublicProfile, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	profile := &PublicProfile{
		ID:            user.ID,
		Username:      user.Username,
		WalletAddress: user.WalletAddress,
		ProfileData:   user.ProfileData,
	}

	s.db.Model(&models.ContentItem{}).
		Where("creator_id = ? AND status = ?", id, models.ContentStatusActive).
		Count(&profile.ContentCount)
	s.db.Model(&models.ContentItem{}).
		Where("creator_id = ? AND status = ? AND parent_id IS NOT NULL", id, models.ContentStatusActive).
		Count(&profile.RemixCount)
	s.db.Model(&models.Follow{}).Where("followee_id = ?", id).Count(&profile.Followers)
	s.db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&profile.Following)

	return profile, nil
}

func (s *UserService) UpdateProfile(id uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Username != "" && req.Username != user.Username {
		var taken models.User
		if err := s.db.Where("username = ? AND id <> ?", req.Username, id).First(&taken).Error; err == nil {
			return nil, errors.New("username already taken")
		}
		updates["username"] = req.Username
	}
	if req.ProfileData != nil {
		updates["profile_data"] = models.JSONB(req.ProfileData)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetUser(id)
}

func (s *UserService) Follow(followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}

	if _, err := s.GetUser(followeeID); err != nil {
		return err
	}

	var existing models.Follow
	if err := s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&existing).Error; err == nil {
		return ErrAlreadyFollow
	}

	follow := &models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	if err := s.db.Create(follow).Error; err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	go func() {
		var follower models.User
		if err := s.db.First(&follower, followerID).Error; err != nil {
			return
		}
		if err := s.notificationService.SendFollowNotification(&follower, followeeID); err != nil {
			logrus.WithError(err).Error("Failed to send follow notification")
		}
	}()

	return nil
}

func (s *UserService) Unfollow(followerID, followeeID uuid.UUID) error {
	result := s.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return fmt.Errorf("failed to unfollow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

func (s *UserService) IsFollowing(followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

func (s *UserService) GetFollowers(userID uuid.UUID, params utils.PaginationParams) ([]models.User, int64, error) {
	return s.followEdge(userID, params, "followee_id", "follower_id")
}

func (s *UserService) GetFollowing(userID uuid.UUID, params utils.PaginationParams) ([]models.User, int64, error) {
	return s.followEdge(userID, params, "follower_id", "followee_id")
}

func (s *UserService) followEdge(userID uuid.UUID, params utils.PaginationParams, whereCol, selectCol string) ([]models.User, int64, error) {
	base := s.db.Model(&models.Follow{}).Where(whereCol+" = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count follows: %w", err)
	}

	var ids []uuid.UUID
	if err := utils.ApplyPagination(base.Order("created_at DESC"), params).
		Pluck(selectCol, &ids).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch follows: %w", err)
	}
	if len(ids) == 0 {
		return []models.User{}, total, nil
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, total, nil
}

func (s *UserService) DeleteAccount(id uuid.UUID) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	// Content with settled sales keeps the account row alive
	var purchaseCount int64
	if err := s.db.Model(&models.LicensePurchase{}).
		Joins("JOIN content_items ON content_items.id = license_purchases.content_id").
		Where("content_items.creator_id = ? AND license_purchases.status = ?", id, models.PurchaseStatusCompleted).
		Count(&purchaseCount).Error; err != nil {
		return fmt.Errorf("failed to check sales: %w", err)
	}
	if purchaseCount > 0 {
		return errors.New("cannot delete an account whose content has completed sales")
	}

	if err := s.db.Delete(user).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
