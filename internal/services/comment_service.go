// internal/services/comment_service.go
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
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyFlagged  = errors.New("comment already flagged by this user")
	ErrSelfFlag        = errors.New("cannot flag your own comment")
)

type CommentService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateCommentRequest struct {
	ContentID uuid.UUID  `json:"content_id" validate:"required"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Body      string     `json:"body" validate:"required,min=1,max=2000"`
}

type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

type FlagCommentRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// CommentThread is a root comment with its replies in creation order.
type CommentThread struct {
	Comment models.Comment   `json:"comment"`
	Replies []models.Comment `json:"replies"`
}

func NewCommentService(db *gorm.DB, notificationService *NotificationService) *CommentService {
	return &CommentService{
		db:                  db,
		notificationService: notificationService,
	}
}

func (s *CommentService) CreateComment(authorID uuid.UUID, req *CreateCommentRequest) (*models.Comment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var author models.User
	if err := s.db.First(&author, authorID).Error; err != nil {
		return nil, fmt.Errorf("author not found: %w", err)
	}
	if author.Status != models.UserStatusActive {
		return nil, errors.New("author account is not active")
	}

	var content models.ContentItem
	if err := s.db.First(&content, req.ContentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if content.Status != models.ContentStatusActive {
		return nil, ErrContentNotFound
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := s.db.First(&parent, *req.ParentID).Error; err != nil {
			return nil, errors.New("parent comment not found")
		}
		if parent.ContentID != req.ContentID {
			return nil, errors.New("parent comment belongs to different content")
		}
		// One level of nesting; replies to replies attach to the root
		if parent.ParentID != nil {
			req.ParentID = parent.ParentID
		}
	}

	comment := &models.Comment{
		ContentID: req.ContentID,
		ParentID:  req.ParentID,
		AuthorID:  authorID,
		Body:      req.Body,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.db.Preload("Author").First(comment, comment.ID)

	go func() {
		if err := s.notificationService.SendCommentNotification(&content, comment, &author); err != nil {
			logrus.WithError(err).Error("Failed to send comment notification")
		}
	}()

	return comment, nil
}

func (s *CommentService) UpdateComment(id, authorID uuid.UUID, req *UpdateCommentRequest) (*models.Comment, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if comment.AuthorID != authorID {
		return nil, errors.New("unauthorized to edit this comment")
	}

	if err := s.db.Model(&comment).Update("body", req.Body).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	comment.Body = req.Body
	return &comment, nil
}

func (s *CommentService) DeleteComment(id, authorID uuid.UUID) error {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}
	if comment.AuthorID != authorID {
		return errors.New("unauthorized to delete this comment")
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// GetThreads returns root comments with nested replies, both in
// creation order.
func (s *CommentService) GetThreads(contentID uuid.UUID, params utils.PaginationParams) ([]CommentThread, int64, error) {
	rootQuery := s.db.Model(&models.Comment{}).
		Where("content_id = ? AND parent_id IS NULL", contentID)

	var total int64
	if err := rootQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	var roots []models.Comment
	if err := utils.ApplyPagination(rootQuery.Preload("Author").Order("created_at ASC"), params).
		Find(&roots).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch comments: %w", err)
	}
	if len(roots) == 0 {
		return []CommentThread{}, total, nil
	}

	rootIDs := make([]uuid.UUID, len(roots))
	for i, root := range roots {
		rootIDs[i] = root.ID
	}

	var replies []models.Comment
	if err := s.db.Preload("Author").
		Where("parent_id IN ?", rootIDs).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch replies: %w", err)
	}

	return AssembleThreads(roots, replies), total, nil
}

// AssembleThreads groups replies under their roots, preserving the
// given order. Replies with no loaded root are dropped.
func AssembleThreads(roots []models.Comment, replies []models.Comment) []CommentThread {
	byRoot := make(map[uuid.UUID][]models.Comment)
	for _, reply := range replies {
		if reply.ParentID == nil {
			continue
		}
		byRoot[*reply.ParentID] = append(byRoot[*reply.ParentID], reply)
	}

	threads := make([]CommentThread, len(roots))
	for i, root := range roots {
		threads[i] = CommentThread{
			Comment: root,
			Replies: byRoot[root.ID],
		}
	}
	return threads
}

func (s *CommentService) LikeComment(id uuid.UUID) error {
	result := s.db.Model(&models.Comment{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to like comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// FlagComment opens a moderation review. One flag per (user, comment),
// enforced both here and by the unique index; flags are permanent.
func (s *CommentService) FlagComment(flaggerID, commentID uuid.UUID, req *FlagCommentRequest) (*models.CommentFlag, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if comment.AuthorID == flaggerID {
		return nil, ErrSelfFlag
	}

	var existing models.CommentFlag
	if err := s.db.Where("comment_id = ? AND flagger_id = ?", commentID, flaggerID).
		First(&existing).Error; err == nil {
		return nil, ErrAlreadyFlagged
	}

	flag := &models.CommentFlag{
		CommentID: commentID,
		FlaggerID: flaggerID,
		Reason:    req.Reason,
		Status:    models.ReportStatusPending,
	}
	if err := s.db.Create(flag).Error; err != nil {
		return nil, fmt.Errorf("failed to flag comment: %w", err)
	}

	if err := s.db.Model(&comment).Update("flagged", true).Error; err != nil {
		logrus.WithError(err).WithField("comment_id", commentID).
			Warn("Failed to mark comment as flagged")
	}

	return flag, nil
}
