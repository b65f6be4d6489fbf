// internal/handlers/auth_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Covers the request validation layer; service-backed paths need a
// database and live in integration environments.
type AuthValidationTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *AuthValidationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	authHandler := NewAuthHandler(nil)

	auth := suite.router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/wallet/challenge", authHandler.WalletChallenge)
	}
}

func (suite *AuthValidationTestSuite) postJSON(path string, payload interface{}) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthValidationTestSuite) TestRegisterRejectsMalformedJSON() {
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthValidationTestSuite) TestRegisterRejectsMissingFields() {
	w := suite.postJSON("/auth/register", map[string]interface{}{
		"username": "alice",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *AuthValidationTestSuite) TestRegisterRejectsWeakPassword() {
	w := suite.postJSON("/auth/register", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *AuthValidationTestSuite) TestWalletChallengeRejectsBadAddress() {
	w := suite.postJSON("/auth/wallet/challenge", map[string]interface{}{
		"wallet_address": "not-an-address",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestAuthValidationSuite(t *testing.T) {
	suite.Run(t, new(AuthValidationTestSuite))
}
