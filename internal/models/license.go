// internal/models/license.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// License is a fixed catalog tier. The catalog lives in code and is
// immutable at runtime; purchases reference tiers by ID.
type License struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	BasePrice       float64    `json:"base_price"`
	DurationDays    int        `json:"duration_days"` // 0 = perpetual
	UsageClass      UsageClass `json:"usage_class"`
	Restrictions    []string   `json:"restrictions,omitempty"`
	Benefits        []string   `json:"benefits,omitempty"`
	RevenueSharePct float64    `json:"revenue_share_pct"`
	MaxUsage        int        `json:"max_usage,omitempty"` // 0 = unlimited
	Territory       string     `json:"territory,omitempty"`
}

// Perpetual reports whether the tier never expires.
func (l *License) Perpetual() bool {
	return l.DurationDays == 0
}

// LicensePurchase is one row in the purchase ledger. Created pending,
// moved to completed once settlement returns a transaction reference.
// Expiry is evaluated lazily at read time, nothing sweeps expired rows.
type LicensePurchase struct {
	BaseModel
	LicenseID        string         `json:"license_id" gorm:"size:50;not null;index"`
	ContentID        uuid.UUID      `json:"content_id" gorm:"type:uuid;not null;index"`
	BuyerID          uuid.UUID      `json:"buyer_id" gorm:"type:uuid;not null;index"`
	BuyerAddress     string         `json:"buyer_address" gorm:"size:42;not null;index"`
	SellerAddress    string         `json:"seller_address" gorm:"size:42;index"`
	PricePaid        float64        `json:"price_paid" gorm:"type:decimal(18,8);not null"`
	PlatformFee      float64        `json:"platform_fee" gorm:"type:decimal(18,8);not null"`
	Status           PurchaseStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod    string         `json:"payment_method" gorm:"size:20"`
	TxHash           string         `json:"tx_hash,omitempty" gorm:"size:66"`
	ExpiresAt        *time.Time     `json:"expires_at"`
	CompletedAt      *time.Time     `json:"completed_at"`
	UsageCount       int            `json:"usage_count" gorm:"default:0"`
	VerificationCode string         `json:"verification_code" gorm:"size:32;uniqueIndex"`

	// Relationships
	Content ContentItem `json:"content,omitempty" gorm:"foreignKey:ContentID"`
	Buyer   User        `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
}

// IsExpired reports lazy expiry: a purchase with no expiry date is
// never expired.
func (p *LicensePurchase) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Active reports whether the purchase currently grants access.
func (p *LicensePurchase) Active(now time.Time) bool {
	return p.Status == PurchaseStatusCompleted && !p.IsExpired(now)
}
