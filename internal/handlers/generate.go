// internal/handlers/generate.go
package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/i18n"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type GenerateHandler struct {
	inferenceService *services.InferenceService
	storageService   *services.StorageService
}

func NewGenerateHandler(inferenceService *services.InferenceService, storageService *services.StorageService) *GenerateHandler {
	return &GenerateHandler{
		inferenceService: inferenceService,
		storageService:   storageService,
	}
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required,min=3,max=1000"`
	Pin    bool   `json:"pin"`
}

type CategorizeRequest struct {
	Text   string   `json:"text" validate:"required,min=1,max=5000"`
	Labels []string `json:"labels" validate:"required,min=2,max=20,dive,required"`
}

// POST /generate/image
func (h *GenerateHandler) GenerateImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	data, mimeType, err := h.inferenceService.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, services.ErrInferenceUnavailable) {
			utils.InternalErrorResponse(c, "Generation service is unavailable, try again later")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	response := gin.H{
		"image":     base64.StdEncoding.EncodeToString(data),
		"mime_type": mimeType,
		"size":      len(data),
	}

	if req.Pin {
		filename := fmt.Sprintf("generated_%s_%d.png", userID.String()[:8], time.Now().Unix())
		result, err := h.storageService.PinBytes(c.Request.Context(), data, filename, mimeType, "generated")
		if err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
		response["upload"] = result
	}

	utils.SuccessResponse(c, response)
}

// POST /generate/categorize
func (h *GenerateHandler) Categorize(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if _, ok := currentUserID(c); !ok {
		return
	}

	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	scores, err := h.inferenceService.Categorize(c.Request.Context(), req.Text, req.Labels)
	if err != nil {
		if errors.Is(err, services.ErrInferenceUnavailable) {
			utils.InternalErrorResponse(c, "Generation service is unavailable, try again later")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": scores,
	})
}
