// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/private", AuthRequired(), func(c *gin.Context) {
		userID := c.GetString("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	r.GET("/public", OptionalAuth(), func(c *gin.Context) {
		_, authed := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authed": authed})
	})

	return r
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	r := authTestRouter()

	req, _ := http.NewRequest("GET", "/private", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	r := authTestRouter()

	req, _ := http.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := authTestRouter()

	token, err := utils.GenerateJWT(uuid.New(), "alice", "creator", "", 1)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequiredRejectsNonAdmins(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := authTestRouter()

	token, err := utils.GenerateJWT(uuid.New(), "alice", "creator", "", 1)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredAcceptsAdmins(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	r := authTestRouter()

	token, err := utils.GenerateJWT(uuid.New(), "root", "admin", "", 1)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthPassesThrough(t *testing.T) {
	r := authTestRouter()

	req, _ := http.NewRequest("GET", "/public", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":false`)
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	r := authTestRouter()

	req, _ := http.NewRequest("GET", "/public", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authed":false`)
}
