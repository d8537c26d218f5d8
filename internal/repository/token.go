package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"imageboard/internal/models"

	"gorm.io/gorm"
)

// TokenRepository manages opaque API tokens. Each user holds at most one
// token, minted on first request and returned unchanged afterwards.
type TokenRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error)
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	DeleteForUser(ctx context.Context, userID uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	key, err := generateTokenKey()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	token = models.AuthToken{Key: key, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		// Lost a race with a concurrent first login; the winner's token stands.
		if isUniqueConstraintError(err) {
			var existing models.AuthToken
			if lookupErr := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; lookupErr == nil {
				return &existing, nil
			}
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

// GetByKey resolves a token key to its row with the owning user preloaded.
// Returns (nil, nil) when the key is unknown.
func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Preload("User").Where("key = ?", key).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

func (r *tokenRepository) DeleteForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// generateTokenKey produces a 40-character hex key from 20 random bytes.
func generateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
