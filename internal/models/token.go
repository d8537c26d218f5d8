package models

import (
	"time"
)

// AuthToken is an opaque API token exchanged for username+password. One token
// per user; the key is a 40-character hex string carried by clients in the
// "Authorization: Token <key>" header.
type AuthToken struct {
	Key       string    `gorm:"primaryKey;size:40" json:"token"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
}
