// internal/handlers/user.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/i18n"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type UserHandler struct {
	userService         *services.UserService
	contentService      *services.ContentService
	notificationService *services.NotificationService
}

func NewUserHandler(userService *services.UserService, contentService *services.ContentService, notificationService *services.NotificationService) *UserHandler {
	return &UserHandler{
		userService:         userService,
		contentService:      contentService,
		notificationService: notificationService,
	}
}

// GET /users/:id
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.userService.GetPublicProfile(id)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyUserNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"profile": profile,
	})
}

// GET /users/:id/content
func (h *UserHandler) GetUserContent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	items, total, err := h.contentService.GetCreatorContent(id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(items, total, params))
}

// PUT /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyUserNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserProfileUpdated),
		"user":    user,
	})
}

// POST /users/:id/follow
func (h *UserHandler) Follow(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	followeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Follow(userID, followeeID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyUserNotFound))
		case errors.Is(err, services.ErrSelfFollow), errors.Is(err, services.ErrAlreadyFollow):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserFollowed),
	})
}

// DELETE /users/:id/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	followeeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Unfollow(userID, followeeID); err != nil {
		if errors.Is(err, services.ErrNotFollowing) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserUnfollowed),
	})
}

// GET /users/:id/followers
func (h *UserHandler) GetFollowers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.GetFollowers(id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// GET /users/:id/following
func (h *UserHandler) GetFollowing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.GetFollowing(id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, params))
}

// DELETE /users/account
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyUserNotFound))
			return
		}
		utils.ConflictResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// GET /notifications
func (h *UserHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := h.notificationService.GetUserNotifications(userID, unreadOnly, params.Page, params.Limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(notifications, total, params))
}

// PUT /notifications/:id/read
func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(userID, id); err != nil {
		utils.NotFoundResponse(c, "Notification")
		return
	}

	utils.SuccessResponse(c, gin.H{})
}
