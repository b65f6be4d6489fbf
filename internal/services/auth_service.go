// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

type AuthService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	notificationService *NotificationService

	// Challenges for wallets without an account yet. Rows are only
	// written once a signature verifies.
	pendingNonces *expirable.LRU[string, string]
}

type RegisterRequest struct {
	Username    string                 `json:"username" validate:"required,username"`
	Email       string                 `json:"email" validate:"required,email"`
	Password    string                 `json:"password" validate:"required,strong_password"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// WalletChallengeRequest starts a signature login: the server hands out
// a nonce the wallet must sign.
type WalletChallengeRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,eth_address"`
}

type WalletLoginRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,eth_address"`
	Signature     string `json:"signature" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *AuthService {
	return &AuthService{
		db:                  db,
		cfg:                 cfg,
		notificationService: notificationService,
		pendingNonces:       expirable.NewLRU[string, string](1024, nil, 5*time.Minute),
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existingUser models.User
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return nil, errors.New("user with this email already exists")
		}
		return nil, errors.New("username already taken")
	}

	user := &models.User{
		Username:    req.Username,
		Email:       req.Email,
		UserType:    models.UserTypeCreator,
		Status:      models.UserStatusActive,
		ProfileData: models.JSONB(req.ProfileData),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		if err := s.notificationService.SendWelcomeEmail(user); err != nil {
			logrus.WithError(err).Error("Failed to send welcome email")
		}
	}()

	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, errors.New("account is suspended")
	}
	if user.Status == models.UserStatusBanned {
		return nil, errors.New("account is banned")
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	s.recordLogin(&user)
	return s.issueTokens(&user)
}

// WalletChallenge returns the message a wallet must sign to log in.
// Unknown wallets get no database row yet; their nonce is held in
// memory until a signature proves ownership.
func (s *AuthService) WalletChallenge(req *WalletChallengeRequest) (string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	wallet := utils.NormalizeAddress(req.WalletAddress)

	nonce, err := utils.GenerateWalletNonce()
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	var user models.User
	err = s.db.Where("wallet_address = ?", wallet).First(&user).Error
	switch {
	case err == nil:
		if err := s.db.Model(&user).Update("wallet_nonce", nonce).Error; err != nil {
			return "", fmt.Errorf("failed to store nonce: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.pendingNonces.Add(wallet, nonce)
	default:
		return "", fmt.Errorf("database error: %w", err)
	}

	return s.challengeMessage(nonce), nil
}

// walletUsername derives a display name from an address. The short form
// can collide across wallets, so fall back to the full hex suffix, which
// is unique as long as the wallet itself is.
func (s *AuthService) walletUsername(wallet string) string {
	short := "user_" + wallet[2:10]
	var taken models.User
	if err := s.db.Where("username = ?", short).First(&taken).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return short
	}
	return "user_" + wallet[2:]
}

func (s *AuthService) WalletLogin(req *WalletLoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	wallet := utils.NormalizeAddress(req.WalletAddress)

	var user models.User
	err := s.db.Where("wallet_address = ?", wallet).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First login for this wallet. The account is created only
		// after the signature verifies.
		nonce, ok := s.pendingNonces.Get(wallet)
		if !ok {
			return nil, errors.New("no pending challenge for this wallet")
		}
		if err := utils.VerifyWalletSignature(wallet, s.challengeMessage(nonce), req.Signature); err != nil {
			return nil, err
		}
		s.pendingNonces.Remove(wallet)

		user = models.User{
			Username:      s.walletUsername(wallet),
			WalletAddress: wallet,
			UserType:      models.UserTypeCreator,
			Status:        models.UserStatusActive,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create wallet account: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	default:
		if user.WalletNonce == "" {
			return nil, errors.New("no pending challenge for this wallet")
		}
		if user.Status != models.UserStatusActive {
			return nil, errors.New("account is not active")
		}

		message := s.challengeMessage(user.WalletNonce)
		if err := utils.VerifyWalletSignature(wallet, message, req.Signature); err != nil {
			return nil, err
		}

		// Nonces are single use
		if err := s.db.Model(&user).Update("wallet_nonce", "").Error; err != nil {
			return nil, fmt.Errorf("failed to clear nonce: %w", err)
		}
	}

	s.recordLogin(&user)
	return s.issueTokens(&user)
}

// LinkWallet attaches a wallet to an existing password account after a
// signature proof.
func (s *AuthService) LinkWallet(userID uuid.UUID, req *WalletLoginRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	wallet := utils.NormalizeAddress(req.WalletAddress)

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if user.WalletNonce == "" {
		return nil, errors.New("request a challenge before linking a wallet")
	}

	var taken models.User
	if err := s.db.Where("wallet_address = ? AND id <> ?", wallet, userID).First(&taken).Error; err == nil {
		return nil, errors.New("wallet is already linked to another account")
	}

	message := s.challengeMessage(user.WalletNonce)
	if err := utils.VerifyWalletSignature(wallet, message, req.Signature); err != nil {
		return nil, err
	}

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"wallet_address": wallet,
		"wallet_nonce":   "",
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to link wallet: %w", err)
	}
	user.WalletAddress = wallet
	return &user, nil
}

// WalletLinkChallenge issues a nonce for an already-authenticated user
// who wants to link a wallet.
func (s *AuthService) WalletLinkChallenge(userID uuid.UUID) (string, error) {
	nonce, err := utils.GenerateWalletNonce()
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("wallet_nonce", nonce).Error; err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}
	return s.challengeMessage(nonce), nil
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, errors.New("account is not active")
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		user.ID,
		user.Username,
		string(user.UserType),
		user.WalletAddress,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}

func (s *AuthService) recordLogin(user *models.User) {
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Model(user).Update("last_login_at", now).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record login time")
	}
}

func (s *AuthService) challengeMessage(nonce string) string {
	return fmt.Sprintf("Sign this message to authenticate with ForkYouDaddy.\n\nNonce: %s", nonce)
}
