package service

import (
	"context"
	"testing"

	"imageboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

// tokenRepoStub is a stub for repository.TokenRepository.
type tokenRepoStub struct {
	getOrCreateFn   func(context.Context, uint) (*models.AuthToken, error)
	getByKeyFn      func(context.Context, string) (*models.AuthToken, error)
	deleteForUserFn func(context.Context, uint) error
}

func (s *tokenRepoStub) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error) {
	return s.getOrCreateFn(ctx, userID)
}
func (s *tokenRepoStub) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	return s.getByKeyFn(ctx, key)
}
func (s *tokenRepoStub) DeleteForUser(ctx context.Context, userID uint) error {
	return s.deleteForUserFn(ctx, userID)
}

func emptyUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
	}
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success hashes the password", func(t *testing.T) {
		var created *models.User
		users := emptyUserRepo()
		users.createFn = func(_ context.Context, user *models.User) error {
			user.ID = 1
			created = user
			return nil
		}
		svc := NewAuthService(users, &tokenRepoStub{})

		user, err := svc.Signup(ctx, SignupInput{
			Username: "new_user",
			Email:    "new@example.com",
			Password: "SecurePass12!@",
		})
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)

		require.NotNil(t, created)
		assert.NotEqual(t, "SecurePass12!@", created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("SecurePass12!@")))
	})

	t.Run("Invalid inputs rejected", func(t *testing.T) {
		svc := NewAuthService(emptyUserRepo(), &tokenRepoStub{})

		tests := []struct {
			name string
			in   SignupInput
		}{
			{"Bad username", SignupInput{Username: "a", Email: "a@example.com", Password: "SecurePass12!@"}},
			{"Bad email", SignupInput{Username: "gooduser", Email: "nope", Password: "SecurePass12!@"}},
			{"Weak password", SignupInput{Username: "gooduser", Email: "a@example.com", Password: "weak"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Signup(ctx, tt.in)
				assertErrorCode(t, err, models.CodeValidation)
			})
		}
	})

	t.Run("Taken username rejected", func(t *testing.T) {
		users := emptyUserRepo()
		users.getByUsernameFn = func(context.Context, string) (*models.User, error) {
			return &models.User{ID: 2, Username: "taken"}, nil
		}
		svc := NewAuthService(users, &tokenRepoStub{})

		_, err := svc.Signup(ctx, SignupInput{Username: "taken", Email: "x@example.com", Password: "SecurePass12!@"})
		assertErrorCode(t, err, models.CodeValidation)
	})
}

func TestAuthService_IssueToken(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass12!@"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: 4, Username: "alice", Password: string(hashed)}

	t.Run("Missing fields are a validation error", func(t *testing.T) {
		svc := NewAuthService(emptyUserRepo(), &tokenRepoStub{})
		_, err := svc.IssueToken(ctx, IssueTokenInput{Username: "alice"})
		assertErrorCode(t, err, models.CodeValidation)

		_, err = svc.IssueToken(ctx, IssueTokenInput{Password: "x"})
		assertErrorCode(t, err, models.CodeValidation)
	})

	t.Run("Unknown user is unauthorized", func(t *testing.T) {
		svc := NewAuthService(emptyUserRepo(), &tokenRepoStub{})
		_, err := svc.IssueToken(ctx, IssueTokenInput{Username: "ghost", Password: "whatever1!A"})
		assertErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("Wrong password is unauthorized", func(t *testing.T) {
		users := emptyUserRepo()
		users.getByUsernameFn = func(context.Context, string) (*models.User, error) { return account, nil }
		svc := NewAuthService(users, &tokenRepoStub{})

		_, err := svc.IssueToken(ctx, IssueTokenInput{Username: "alice", Password: "WrongPass12!@"})
		assertErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("Valid credentials return the token", func(t *testing.T) {
		users := emptyUserRepo()
		users.getByUsernameFn = func(context.Context, string) (*models.User, error) { return account, nil }
		tokens := &tokenRepoStub{
			getOrCreateFn: func(_ context.Context, userID uint) (*models.AuthToken, error) {
				assert.Equal(t, uint(4), userID)
				return &models.AuthToken{Key: "deadbeef", UserID: userID}, nil
			},
		}
		svc := NewAuthService(users, tokens)

		token, err := svc.IssueToken(ctx, IssueTokenInput{Username: "alice", Password: "SecurePass12!@"})
		require.NoError(t, err)
		assert.Equal(t, "deadbeef", token.Key)
	})
}

func TestAuthService_ResolveToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty key is unauthorized", func(t *testing.T) {
		svc := NewAuthService(emptyUserRepo(), &tokenRepoStub{})
		_, err := svc.ResolveToken(ctx, "")
		assertErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("Unknown key is unauthorized", func(t *testing.T) {
		tokens := &tokenRepoStub{
			getByKeyFn: func(context.Context, string) (*models.AuthToken, error) { return nil, nil },
		}
		svc := NewAuthService(emptyUserRepo(), tokens)

		_, err := svc.ResolveToken(ctx, "0000000000000000000000000000000000000000")
		assertErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("Known key resolves the principal", func(t *testing.T) {
		tokens := &tokenRepoStub{
			getByKeyFn: func(_ context.Context, key string) (*models.AuthToken, error) {
				return &models.AuthToken{
					Key:    key,
					UserID: 4,
					User:   models.User{ID: 4, Username: "alice"},
				}, nil
			},
		}
		svc := NewAuthService(emptyUserRepo(), tokens)

		principal, err := svc.ResolveToken(ctx, "cafebabe")
		require.NoError(t, err)
		assert.Equal(t, uint(4), principal.UserID)
		assert.Equal(t, "alice", principal.Username)
	})
}
