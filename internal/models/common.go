// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the ID in code so rows do not depend on the
// database's uuid default.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeCreator UserType = "creator"
	UserTypeAdmin   UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeAudio ContentType = "audio"
	ContentTypeVideo ContentType = "video"
)

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusActive    ContentStatus = "active"
	ContentStatusRemoved   ContentStatus = "removed"
	ContentStatusSuspended ContentStatus = "suspended"
)

// UsageClass is the usage right a license tier grants.
type UsageClass string

const (
	UsageClassPersonal   UsageClass = "personal"
	UsageClassCommercial UsageClass = "commercial"
	UsageClassBoth       UsageClass = "both"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusExpired   PurchaseStatus = "expired"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// Payment methods recorded on purchases. Simulated settlements happen
// when the origin registry is unreachable and stay visible as such
// instead of being passed off as on-chain transactions.
const (
	PaymentMethodWallet    = "wallet"
	PaymentMethodSimulated = "simulated"
)

type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusDismissed ReportStatus = "dismissed"
	ReportStatusRemoved   ReportStatus = "removed"
)

// AccessSource says where an access decision came from, so "really
// allowed" can be told apart from "allowed because we could not check".
type AccessSource string

const (
	AccessSourcePolicy         AccessSource = "policy"
	AccessSourceLedger         AccessSource = "ledger"
	AccessSourceAuthority      AccessSource = "authority"
	AccessSourceCachedFallback AccessSource = "cached_fallback"
	AccessSourceOpenFallback   AccessSource = "open_fallback"
)

// AccessDecision is the access gate's answer for one (user, content)
// pair. Cached in memory, never persisted.
type AccessDecision struct {
	Granted   bool         `json:"granted"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Source    AccessSource `json:"source"`
	CheckedAt time.Time    `json:"checked_at"`
}
