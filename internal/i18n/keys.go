// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthInvalidSignature   = "auth.invalid_signature"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// User
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserFollowed       = "user.followed"
	KeyUserUnfollowed     = "user.unfollowed"

	// Content
	KeyContentCreated  = "content.created"
	KeyContentUpdated  = "content.updated"
	KeyContentDeleted  = "content.deleted"
	KeyContentNotFound = "content.not_found"
	KeyContentForked   = "content.forked"

	// Licenses and purchases
	KeyLicenseNotFound      = "license.not_found"
	KeyLicenseExpired       = "license.expired"
	KeyPurchaseCompleted    = "purchase.completed"
	KeyPurchaseCancelled    = "purchase.cancelled"
	KeyPurchaseNotFound     = "purchase.not_found"
	KeyPurchaseSimulated    = "purchase.simulated_settlement"
	KeyPurchaseWalletNeeded = "purchase.wallet_required"

	// Access
	KeyAccessGranted = "access.granted"
	KeyAccessDenied  = "access.denied"

	// Comments
	KeyCommentCreated  = "comment.created"
	KeyCommentUpdated  = "comment.updated"
	KeyCommentDeleted  = "comment.deleted"
	KeyCommentNotFound = "comment.not_found"
	KeyCommentFlagged  = "comment.flagged"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
