// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/i18n"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.Register(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyAuthRegisterSuccess),
		"user":          authResponse.User,
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
		"token_type":    authResponse.TokenType,
		"expires_in":    authResponse.ExpiresIn,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.Login(&req)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"user":          authResponse.User,
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
		"token_type":    authResponse.TokenType,
		"expires_in":    authResponse.ExpiresIn,
	})
}

// POST /auth/wallet/challenge
func (h *AuthHandler) WalletChallenge(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.WalletChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	message, err := h.authService.WalletChallenge(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": message,
	})
}

// POST /auth/wallet/login
func (h *AuthHandler) WalletLogin(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.WalletLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.WalletLogin(&req)
	if err != nil {
		if errors.Is(err, utils.ErrSignatureMismatch) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidSignature))
			return
		}
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyAuthLoginSuccess),
		"user":          authResponse.User,
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
		"token_type":    authResponse.TokenType,
		"expires_in":    authResponse.ExpiresIn,
	})
}

// POST /auth/wallet/link-challenge
func (h *AuthHandler) WalletLinkChallenge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	message, err := h.authService.WalletLinkChallenge(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": message,
	})
}

// POST /auth/wallet/link
func (h *AuthHandler) LinkWallet(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.WalletLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.authService.LinkWallet(userID, &req)
	if err != nil {
		if errors.Is(err, utils.ErrSignatureMismatch) {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidSignature))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAuthLogoutSuccess),
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	authResponse, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user":          authResponse.User,
		"token":         authResponse.AccessToken,
		"refresh_token": authResponse.RefreshToken,
		"token_type":    authResponse.TokenType,
		"expires_in":    authResponse.ExpiresIn,
	})
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyUserNotFound))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

// currentUserID pulls the authenticated user's id out of the context,
// answering 401 itself when it is missing or malformed.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}
