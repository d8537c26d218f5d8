package service

import (
	"context"
	"strings"
	"time"

	"imageboard/internal/cache"
	"imageboard/internal/models"
	"imageboard/internal/repository"
	"imageboard/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Principal identifies an authenticated caller. Cached under the token key so
// repeated requests skip the database lookup.
type Principal struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	tokenTTL  time.Duration
}

type SignupInput struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type IssueTokenInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo, tokenTTL: cache.TokenTTL}
}

// WithTokenTTL overrides how long resolved tokens stay cached.
func (s *AuthService) WithTokenTTL(ttl time.Duration) *AuthService {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

// Signup registers a new account with a bcrypt-hashed password.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken exchanges username+password for the user's opaque API token,
// minting one on first use. Missing fields are a validation error; wrong
// credentials are an authentication error, never revealing which half failed.
func (s *AuthService) IssueToken(ctx context.Context, in IssueTokenInput) (*models.AuthToken, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, models.NewValidationError("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}

	return s.tokenRepo.GetOrCreate(ctx, user.ID)
}

// ResolveToken maps a bearer token key to its principal, consulting the cache
// before the database. Unknown keys are an authentication error.
func (s *AuthService) ResolveToken(ctx context.Context, key string) (*Principal, error) {
	if key == "" {
		return nil, models.NewUnauthorizedError("Authentication credentials were not provided")
	}

	var principal Principal
	err := cache.Aside(ctx, cache.TokenKey(key), &principal, s.tokenTTL, func() error {
		token, err := s.tokenRepo.GetByKey(ctx, key)
		if err != nil {
			return err
		}
		if token == nil {
			return models.NewUnauthorizedError("Invalid token")
		}
		principal = Principal{UserID: token.UserID, Username: token.User.Username}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &principal, nil
}
