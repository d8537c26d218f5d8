package models

import (
	"time"
)

// Post is a user-authored text post with zero or more attached images.
//
// PubDate and UserID are write-once: both are set when the row is created and
// excluded from every update path (`<-:create`). The image set is owned by
// the post; updates replace it wholesale rather than merging (see
// PostRepository.Update).
type Post struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Text      string      `gorm:"type:text;not null" json:"text"`
	PubDate   time.Time   `gorm:"not null;index;<-:create" json:"pub_date"`
	UserID    uint        `gorm:"not null;index;<-:create" json:"-"`
	User      User        `gorm:"foreignKey:UserID" json:"-"`
	Images    []PostImage `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post_images"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}

// PostImage is an image attached to a post. It has no lifecycle of its own:
// rows are created alongside their post and deleted with it (or when an
// update replaces the post's image set).
type PostImage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"not null;index" json:"-"`
	FileName    string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	StoragePath string    `gorm:"size:512;not null" json:"-"`
	ContentType string    `gorm:"size:100" json:"-"`
	SizeBytes   int64     `json:"-"`
	CreatedAt   time.Time `json:"-"`
}
