package service

import (
	"context"
	"database/sql"
	"net/http"
	"sentinel-api/common"
	"sentinel-api/model"
	"sentinel-api/repository"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetByResetToken(token string) (*model.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTokenService(repository.NewBlocklistRepository(client), "test-secret", time.Hour, 720*time.Hour)
}

func testUser(t *testing.T, password string) *model.User {
	t.Helper()
	user := &model.User{ID: "user-1", Username: "alice", Email: "a@x.com"}
	require.NoError(t, user.SetPassword(password))
	return user
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success issues fresh access and refresh tokens", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		tokens := newTestTokenService(t)
		user := testUser(t, "secret1")
		mockRepo.On("GetByEmail", "a@x.com").Return(user, nil).Once()

		authService := NewAuthService(mockRepo, tokens)
		pair, loggedIn, appErr := authService.Login("a@x.com", "secret1")

		require.Nil(t, appErr)
		assert.Equal(t, user.ID, loggedIn.ID)

		ctx := context.Background()
		accessClaims, verifyErr := tokens.Verify(ctx, pair.AccessToken, false, false)
		require.Nil(t, verifyErr)
		assert.True(t, accessClaims.Fresh)
		assert.Equal(t, model.TokenTypeAccess, accessClaims.TokenType)

		refreshClaims, verifyErr := tokens.Verify(ctx, pair.RefreshToken, true, false)
		require.Nil(t, verifyErr)
		assert.False(t, refreshClaims.Fresh)

		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		user := testUser(t, "secret1")
		mockRepo.On("GetByEmail", "a@x.com").Return(user, nil).Once()

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		_, _, appErr := authService.Login("a@x.com", "wrong")

		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
		assert.Equal(t, common.ReasonInvalidCredentials, appErr.Reason)
	})

	t.Run("unknown email answers identically to wrong password", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetByEmail", "ghost@x.com").Return(nil, sql.ErrNoRows).Once()

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		_, _, appErr := authService.Login("ghost@x.com", "whatever")

		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.Code)
		assert.Equal(t, common.ReasonInvalidCredentials, appErr.Reason)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	t.Run("generates and persists a token", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		user := testUser(t, "secret1")
		mockRepo.On("GetByEmail", "a@x.com").Return(user, nil).Once()
		mockRepo.On("Update", mock.MatchedBy(func(u *model.User) bool {
			return u.ID == user.ID && u.ResetToken != ""
		})).Return(nil).Once()

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		token, appErr := authService.RequestPasswordReset("a@x.com")

		require.Nil(t, appErr)
		assert.NotEmpty(t, token)
		assert.Equal(t, token, user.ResetToken, "returned token matches the persisted one")
		mockRepo.AssertExpectations(t)
	})

	t.Run("overwrites a previous token", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		user := testUser(t, "secret1")
		user.ResetToken = "old-token"
		mockRepo.On("GetByEmail", "a@x.com").Return(user, nil).Once()
		mockRepo.On("Update", mock.Anything).Return(nil).Once()

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		token, appErr := authService.RequestPasswordReset("a@x.com")

		require.Nil(t, appErr)
		assert.NotEqual(t, "old-token", token)
		assert.Equal(t, token, user.ResetToken)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetByEmail", "ghost@x.com").Return(nil, sql.ErrNoRows).Once()

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		_, appErr := authService.RequestPasswordReset("ghost@x.com")

		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
		assert.Equal(t, common.ReasonNotFound, appErr.Reason)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("consumes the token and rehashes", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		user := testUser(t, "oldPassword")
		user.ResetToken = "tok-1"
		mockRepo.On("GetByResetToken", "tok-1").Return(user, nil).Once()
		mockRepo.On("Update", mock.MatchedBy(func(u *model.User) bool {
			return u.ResetToken == "" && u.VerifyPassword("newPassword")
		})).Return(nil).Once()

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		appErr := authService.ResetPassword("tok-1", "newPassword", "newPassword")

		require.Nil(t, appErr)
		assert.False(t, user.VerifyPassword("oldPassword"), "old password no longer verifies")
		mockRepo.AssertExpectations(t)
	})

	t.Run("consumed token fails", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetByResetToken", "tok-1").Return(nil, sql.ErrNoRows).Once()

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		appErr := authService.ResetPassword("tok-1", "newPassword", "newPassword")

		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, common.ReasonInvalidToken, appErr.Reason)
		assert.Equal(t, "Invalid or expired token", appErr.Message)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		mockRepo := new(mockUserRepo)

		authService := NewAuthService(mockRepo, newTestTokenService(t))
		appErr := authService.ResetPassword("tok-1", "newPassword", "different")

		require.NotNil(t, appErr)
		assert.Equal(t, common.ReasonValidationError, appErr.Reason)
		mockRepo.AssertNotCalled(t, "GetByResetToken")
	})
}
