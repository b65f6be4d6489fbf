// internal/models/content.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ContentItem is one unit of registered creative content. ParentID links
// a remix to the item it was forked from; the collection forms a forest.
type ContentItem struct {
	BaseModel
	CreatorID     uuid.UUID      `json:"creator_id" gorm:"type:uuid;not null;index"`
	AuthorAddress string         `json:"author_address" gorm:"size:42;index"`
	Title         string         `json:"title" gorm:"size:255;not null"`
	Description   string         `json:"description" gorm:"type:text"`
	ContentType   ContentType    `json:"content_type" gorm:"type:varchar(20);not null;index"`
	Body          string         `json:"body,omitempty" gorm:"type:text"`
	CID           string         `json:"cid,omitempty" gorm:"size:100;index"`
	FileURL       string         `json:"file_url,omitempty" gorm:"size:512"`
	LicenseID     string         `json:"license_id" gorm:"size:50;index"`
	Category      string         `json:"category" gorm:"size:100;index"`
	Tags          pq.StringArray `json:"tags" gorm:"type:text[]"`
	Metadata      JSONB          `json:"metadata" gorm:"type:jsonb"`
	ParentID      *uuid.UUID     `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	RemixCount    int64          `json:"remix_count" gorm:"default:0"`
	TokenID       string         `json:"token_id,omitempty" gorm:"size:78;index"`
	Status        ContentStatus  `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ViewCount     int64          `json:"view_count" gorm:"default:0"`
	LikeCount     int64          `json:"like_count" gorm:"default:0"`

	// Relationships
	Creator User          `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Parent  *ContentItem  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Remixes []ContentItem `json:"remixes,omitempty" gorm:"foreignKey:ParentID"`
}

// IsRemix reports whether the item was forked from another item.
func (c *ContentItem) IsRemix() bool {
	return c.ParentID != nil
}

// IsRegistered reports whether the item has an on-chain token.
func (c *ContentItem) IsRegistered() bool {
	return c.TokenID != ""
}
