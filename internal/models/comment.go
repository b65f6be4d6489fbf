// internal/models/comment.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment threads form a second forest, independent of content lineage.
type Comment struct {
	BaseModel
	ContentID uuid.UUID  `json:"content_id" gorm:"type:uuid;not null;index"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	AuthorID  uuid.UUID  `json:"author_id" gorm:"type:uuid;not null;index"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	LikeCount int64      `json:"like_count" gorm:"default:0"`
	Flagged   bool       `json:"flagged" gorm:"default:false;index"`

	// Relationships
	Content ContentItem `json:"content,omitempty" gorm:"foreignKey:ContentID"`
	Author  User        `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Parent  *Comment    `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Replies []Comment   `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

// CommentFlag records one user flagging one comment. There is no unflag;
// the unique index makes the action once-per-user. Resolution happens
// through the moderation queue.
type CommentFlag struct {
	BaseModel
	CommentID  uuid.UUID    `json:"comment_id" gorm:"type:uuid;not null;uniqueIndex:idx_comment_flag_once"`
	FlaggerID  uuid.UUID    `json:"flagger_id" gorm:"type:uuid;not null;uniqueIndex:idx_comment_flag_once"`
	Reason     string       `json:"reason" gorm:"size:500"`
	Status     ReportStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	AdminNotes string       `json:"admin_notes,omitempty" gorm:"type:text"`
	ResolvedBy *uuid.UUID   `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt *time.Time   `json:"resolved_at"`

	// Relationships
	Comment  Comment `json:"comment,omitempty" gorm:"foreignKey:CommentID"`
	Flagger  User    `json:"flagger,omitempty" gorm:"foreignKey:FlaggerID"`
	Resolver *User   `json:"resolver,omitempty" gorm:"foreignKey:ResolvedBy"`
}
