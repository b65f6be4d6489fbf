// internal/handlers/content.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/i18n"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type ContentHandler struct {
	contentService *services.ContentService
	lineageService *services.LineageService
	storageService *services.StorageService
}

func NewContentHandler(contentService *services.ContentService, lineageService *services.LineageService, storageService *services.StorageService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		lineageService: lineageService,
		storageService: storageService,
	}
}

// GET /content
func (h *ContentHandler) GetContent(c *gin.Context) {
	params := services.ContentSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if contentType := c.Query("content_type"); contentType != "" {
		ct := models.ContentType(contentType)
		params.ContentType = &ct
	}
	params.LicenseID = c.Query("license")
	params.Author = c.Query("author")
	params.RemixesOnly = c.Query("remixes") == "true"
	params.OriginalsOnly = c.Query("originals") == "true"
	params.CreatedWithin = c.Query("created_within")
	if minRemixes := c.Query("min_remixes"); minRemixes != "" {
		if n, err := strconv.ParseInt(minRemixes, 10, 64); err == nil {
			params.MinRemixCount = n
		}
	}
	if creatorID := c.Query("creator_id"); creatorID != "" {
		if id, err := uuid.Parse(creatorID); err == nil {
			params.CreatorID = &id
		}
	}
	params.Tags = c.QueryArray("tags")

	items, total, err := h.contentService.SearchContent(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(items, total, params.PaginationParams))
}

// GET /content/trending
func (h *ContentHandler) GetTrendingContent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	items, err := h.contentService.GetTrendingContent(limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"content": items,
	})
}

// GET /content/:id
func (h *ContentHandler) GetContentItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var userID *uuid.UUID
	if uid, ok := currentOptionalUserID(c); ok {
		userID = &uid
	}

	content, err := h.contentService.GetContent(id, userID)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"content": content,
	})
}

// POST /content
func (h *ContentHandler) CreateContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	content, err := h.contentService.CreateContent(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccessDenied):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAccessDenied))
		case errors.Is(err, services.ErrParentNotFound):
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	message := i18n.T(lang, i18n.KeyContentCreated)
	if content.IsRemix() {
		message = i18n.T(lang, i18n.KeyContentForked)
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
		"content": content,
	})
}

// POST /content/:id/fork
func (h *ContentHandler) ForkContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	parentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	req.ParentID = &parentID

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	content, err := h.contentService.CreateContent(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccessDenied):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAccessDenied))
		case errors.Is(err, services.ErrParentNotFound):
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContentForked),
		"content": content,
	})
}

// PUT /content/:id
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	content, err := h.contentService.UpdateContent(id, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContentUpdated),
		"content": content,
	})
}

// DELETE /content/:id
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteContent(id, userID); err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContentDeleted),
	})
}

// POST /content/:id/like
func (h *ContentHandler) LikeContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.LikeContent(id); err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{})
}

// GET /content/:id/remixes
func (h *ContentHandler) GetRemixes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	remixes, err := h.lineageService.DirectRemixes(id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"remixes": remixes,
	})
}

// GET /content/:id/lineage
func (h *ContentHandler) GetLineage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	chain, err := h.lineageService.DescendantChain(id)
	if err != nil && !errors.Is(err, services.ErrLineageCycle) {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
		return
	}

	response := gin.H{
		"chain": chain,
	}
	if errors.Is(err, services.ErrLineageCycle) {
		// Partial chain plus an explicit marker
		response["cycle_detected"] = true
	}

	utils.SuccessResponse(c, response)
}

// GET /content/:id/lineage/stats
func (h *ContentHandler) GetLineageStats(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.lineageService.LineageStats(id)
	if err != nil && !errors.Is(err, services.ErrLineageCycle) {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
		return
	}

	response := gin.H{
		"stats": stats,
	}
	if errors.Is(err, services.ErrLineageCycle) {
		response["cycle_detected"] = true
	}

	utils.SuccessResponse(c, response)
}

// GET /content/:id/statistics
func (h *ContentHandler) GetContentStatistics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.contentService.GetContentStatistics(id, userID)
	if err != nil {
		utils.ForbiddenResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"statistics": stats,
	})
}

// POST /content/upload
func (h *ContentHandler) UploadFile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if _, ok := currentUserID(c); !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "file"), nil)
		return
	}
	defer file.Close()

	options := h.storageService.GetDefaultUploadOptions("content")
	result, err := h.storageService.PinUpload(c.Request.Context(), file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"upload": result,
	})
}

// Shared parameter helpers

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// currentOptionalUserID reads the user id without failing the request,
// for endpoints behind OptionalAuth.
func currentOptionalUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
