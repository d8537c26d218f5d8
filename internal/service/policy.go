package service

import "imageboard/internal/models"

// Ownership policy for posts. Reads are open to any authenticated principal;
// writes require the principal to be the post's author. The zero user ID
// means "not authenticated", which both checks reject, so callers that missed
// the auth middleware still fail closed.

// MayRead reports whether the principal may view posts.
func MayRead(userID uint) bool {
	return userID != 0
}

// MayWrite reports whether the principal may modify or delete the post.
func MayWrite(userID uint, post *models.Post) bool {
	return userID != 0 && post != nil && post.UserID == userID
}
