// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/i18n"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type UpdateUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required"`
	Reason string            `json:"reason" validate:"omitempty,max=500"`
}

type UpdateContentStatusRequest struct {
	Status models.ContentStatus `json:"status" validate:"required"`
	Reason string               `json:"reason" validate:"omitempty,max=500"`
}

type ResolveFlagRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=dismiss remove"`
	Notes      string `json:"notes" validate:"omitempty,max=1000"`
}

// GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if userType := c.Query("user_type"); userType != "" {
		ut := models.UserType(userType)
		filter.UserType = &ut
	}
	if status := c.Query("status"); status != "" {
		st := models.UserStatus(status)
		filter.Status = &st
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, filter.PaginationParams))
}

// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.adminService.UpdateUserStatus(userID, adminID, req.Status, req.Reason); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// PUT /admin/content/:id/status
func (h *AdminHandler) UpdateContentStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateContentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.adminService.UpdateContentStatus(contentID, adminID, req.Status, req.Reason); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// GET /admin/flags
func (h *AdminHandler) GetFlagQueue(c *gin.Context) {
	filter := services.FlagQueueFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if status := c.Query("status"); status != "" {
		st := models.ReportStatus(status)
		filter.Status = &st
	}

	flags, total, err := h.adminService.GetFlagQueue(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(flags, total, filter.PaginationParams))
}

// POST /admin/flags/:id/resolve
func (h *AdminHandler) ResolveFlag(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	flagID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ResolveFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.adminService.ResolveFlag(flagID, adminID, req.Resolution, req.Notes); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.GetAuditLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}
