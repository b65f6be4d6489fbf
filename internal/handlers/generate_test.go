// internal/handlers/generate_test.go
package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
)

func generateTestRouter(t *testing.T, imageData []byte) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(imageData)
	}))
	t.Cleanup(backend.Close)

	cfg := &config.Config{}
	cfg.Inference.BaseURL = backend.URL
	cfg.Inference.APIToken = "test-token"
	cfg.Inference.ImageModel = "test-model"
	cfg.Inference.RequestTimeout = 5

	handler := NewGenerateHandler(services.NewInferenceService(cfg), nil)

	router := gin.New()
	router.POST("/generate/image", func(c *gin.Context) {
		c.Set("user_id", uuid.NewString())
		handler.GenerateImage(c)
	})
	return router
}

func TestGenerateImageReturnsImageBytes(t *testing.T) {
	imageData := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}
	router := generateTestRouter(t, imageData)

	body, _ := json.Marshal(gin.H{"prompt": "a fork in the road"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/image", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Image    string `json:"image"`
			MimeType string `json:"mime_type"`
			Size     int    `json:"size"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	decoded, err := base64.StdEncoding.DecodeString(resp.Data.Image)
	require.NoError(t, err)
	assert.Equal(t, imageData, decoded)
	assert.Equal(t, "image/png", resp.Data.MimeType)
	assert.Equal(t, len(imageData), resp.Data.Size)
}
