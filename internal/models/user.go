// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username      string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email         string     `json:"email,omitempty" gorm:"uniqueIndex;size:255"`
	PasswordHash  string     `json:"-" gorm:"size:255"`
	WalletAddress string     `json:"wallet_address,omitempty" gorm:"uniqueIndex;size:42"`
	WalletNonce   string     `json:"-" gorm:"size:64"`
	UserType      UserType   `json:"user_type" gorm:"type:varchar(20);not null;default:'creator'"`
	Status        UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ProfileData   JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	// Relationships
	ContentItems []ContentItem     `json:"content_items,omitempty" gorm:"foreignKey:CreatorID"`
	Purchases    []LicensePurchase `json:"purchases,omitempty" gorm:"foreignKey:BuyerID"`
	Comments     []Comment         `json:"comments,omitempty" gorm:"foreignKey:AuthorID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Follow is a directed follower edge between two users.
type Follow struct {
	BaseModel
	FollowerID uuid.UUID `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_once"`
	FolloweeID uuid.UUID `json:"followee_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_once"`

	// Relationships
	Follower User `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Followee User `json:"followee,omitempty" gorm:"foreignKey:FolloweeID"`
}
