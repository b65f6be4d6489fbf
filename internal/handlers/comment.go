// internal/handlers/comment.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/i18n"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// POST /comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	comment, err := h.commentService.CreateComment(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCommentCreated),
		"comment": comment,
	})
}

// PUT /comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	comment, err := h.commentService.UpdateComment(id, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyCommentNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCommentUpdated),
		"comment": comment,
	})
}

// DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(id, userID); err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyCommentNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCommentDeleted),
	})
}

// GET /content/:id/comments
func (h *CommentHandler) GetThreads(c *gin.Context) {
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	threads, total, err := h.commentService.GetThreads(contentID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(threads, total, params))
}

// POST /comments/:id/like
func (h *CommentHandler) LikeComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.LikeComment(id); err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyCommentNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{})
}

// POST /comments/:id/flag
func (h *CommentHandler) FlagComment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.FlagCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	flag, err := h.commentService.FlagComment(userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyCommentNotFound))
		case errors.Is(err, services.ErrAlreadyFlagged), errors.Is(err, services.ErrSelfFlag):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCommentFlagged),
		"flag":    flag,
	})
}
