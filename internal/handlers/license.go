// internal/handlers/license.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/i18n"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
	accessService  *services.AccessService
	contentService *services.ContentService
	authService    *services.AuthService
}

func NewLicenseHandler(licenseService *services.LicenseService, accessService *services.AccessService, contentService *services.ContentService, authService *services.AuthService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
		accessService:  accessService,
		contentService: contentService,
		authService:    authService,
	}
}

// GET /licenses
func (h *LicenseHandler) GetCatalog(c *gin.Context) {
	catalog := h.licenseService.GetCatalog()

	quotes := make([]gin.H, 0, len(catalog))
	for i := range catalog {
		license := catalog[i]
		quotes = append(quotes, gin.H{
			"license":      license,
			"total_price":  h.licenseService.CalculateLicensePrice(&license),
			"platform_fee": h.licenseService.PlatformFee(&license),
		})
	}

	utils.SuccessResponse(c, gin.H{
		"licenses": quotes,
	})
}

// GET /licenses/:id
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	license, err := h.licenseService.GetLicense(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyLicenseNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"license":      license,
		"total_price":  h.licenseService.CalculateLicensePrice(license),
		"platform_fee": h.licenseService.PlatformFee(license),
	})
}

// POST /purchases
func (h *LicenseHandler) PurchaseLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.PurchaseLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	purchase, err := h.licenseService.PurchaseLicense(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLicenseNotFound):
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyLicenseNotFound))
		case errors.Is(err, services.ErrWalletRequired):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPurchaseWalletNeeded), nil)
		case errors.Is(err, services.ErrAlreadyLicensed), errors.Is(err, services.ErrLicenseExhausted):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrOwnContent):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	message := i18n.T(lang, i18n.KeyPurchaseCompleted)
	if purchase.PaymentMethod == models.PaymentMethodSimulated {
		message = i18n.T(lang, i18n.KeyPurchaseSimulated)
	}

	utils.CreatedResponse(c, gin.H{
		"message":  message,
		"purchase": purchase,
	})
}

// POST /purchases/:id/retry
func (h *LicenseHandler) RetrySettlement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	purchaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.licenseService.RetrySettlement(c.Request.Context(), userID, purchaseID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"purchase": purchase,
	})
}

// POST /purchases/:id/cancel
func (h *LicenseHandler) CancelPurchase(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	purchaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.licenseService.CancelPurchase(userID, purchaseID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyPurchaseCancelled),
		"purchase": purchase,
	})
}

// GET /purchases
func (h *LicenseHandler) GetPurchaseHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := services.PurchaseSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if contentID := c.Query("content_id"); contentID != "" {
		if id, err := uuid.Parse(contentID); err == nil {
			params.ContentID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		ps := models.PurchaseStatus(status)
		params.Status = &ps
	}
	params.LicenseID = c.Query("license")

	purchases, total, err := h.licenseService.GetPurchaseHistory(userID, &params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(purchases, total, params.PaginationParams))
}

// GET /purchases/:id
func (h *LicenseHandler) GetPurchase(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	purchaseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.licenseService.GetPurchase(purchaseID)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyPurchaseNotFound))
		return
	}
	// Buyers and the content creator can read a purchase
	if purchase.BuyerID != userID && purchase.Content.CreatorID != userID {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyPurchaseNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"purchase": purchase,
	})
}

// GET /content/:id/sales
func (h *LicenseHandler) GetContentSales(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sales, total, err := h.licenseService.GetContentSales(userID, contentID, utils.GetPaginationParams(c))
	if err != nil {
		utils.ForbiddenResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(sales, total, utils.GetPaginationParams(c)))
}

// GET /purchases/verify/:code
func (h *LicenseHandler) VerifyPurchase(c *gin.Context) {
	purchase, active, err := h.licenseService.VerifyPurchaseByCode(c.Param("code"))
	if err != nil {
		utils.NotFoundResponse(c, "Verification code")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"purchase": purchase,
		"active":   active,
	})
}

// GET /content/:id/access
func (h *LicenseHandler) CheckAccess(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyUserNotFound))
		return
	}

	content, err := h.contentService.GetContent(contentID, &userID)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyContentNotFound))
		return
	}

	decision := h.accessService.CheckAccess(c.Request.Context(), user.WalletAddress, content)

	message := i18n.T(lang, i18n.KeyAccessDenied)
	if decision.Granted {
		message = i18n.T(lang, i18n.KeyAccessGranted)
	}

	utils.SuccessResponse(c, gin.H{
		"message":  message,
		"decision": decision,
	})
}
