package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sentinel-api/common"
	"sentinel-api/logger"
	"sentinel-api/model"
	"sentinel-api/repository"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const profileCacheTTL = 5 * time.Minute

// UserService handles registration and profile lifecycle. Profile reads go
// through a cache-aside Redis layer; the cache client is separate from the
// token blocklist and is strictly best-effort.
type UserService struct {
	users repository.IUserRepository
	cache *redis.Client
}

func NewUserService(users repository.IUserRepository, cache *redis.Client) *UserService {
	return &UserService{users: users, cache: cache}
}

func profileCacheKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

// Register creates a new user after uniqueness checks on email and username.
func (s *UserService) Register(req *model.RegisterRequest) (*model.User, *common.AppError) {
	emailTaken, err := s.users.ExistsByEmail(req.Email)
	if err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to register user", err)
	}
	if emailTaken {
		return nil, common.NewAppError(http.StatusBadRequest, common.ReasonValidationError, "Email already registered", nil)
	}

	usernameTaken, err := s.users.ExistsByUsername(req.Username)
	if err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to register user", err)
	}
	if usernameTaken {
		return nil, common.NewAppError(http.StatusBadRequest, common.ReasonValidationError, "Username already exists", nil)
	}

	user := &model.User{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to register user", err)
	}

	if err := s.users.Create(user); err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to register user", err)
	}

	logger.Log.WithField("username", user.Username).Info("New user registered")
	return user, nil
}

// GetProfile returns the user's profile, serving from cache when possible.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.User, *common.AppError) {
	cacheKey := profileCacheKey(userID)

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var user model.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewAppError(http.StatusNotFound, common.ReasonNotFound, "User not found", nil)
		}
		return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to load profile", err)
	}

	if data, err := json.Marshal(user); err == nil {
		s.cache.Set(ctx, cacheKey, data, profileCacheTTL)
	}

	return user, nil
}

// UpdateProfile changes the username after a uniqueness check and drops the
// cached profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID, username string) (*model.User, *common.AppError) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewAppError(http.StatusNotFound, common.ReasonNotFound, "User not found", nil)
		}
		return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to update profile", err)
	}

	if username != user.Username {
		taken, err := s.users.ExistsByUsername(username)
		if err != nil {
			return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to update profile", err)
		}
		if taken {
			return nil, common.NewAppError(http.StatusBadRequest, common.ReasonValidationError, "Username already taken", nil)
		}
	}

	user.Username = username
	if err := s.users.Update(user); err != nil {
		return nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to update profile", err)
	}

	s.cache.Del(ctx, profileCacheKey(userID))
	return user, nil
}

// ChangePassword verifies the current password and re-derives the hash.
// Transport-level freshness gating is the caller's responsibility.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, confirmPassword string) *common.AppError {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, common.ReasonNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to change password", err)
	}

	if !user.VerifyPassword(currentPassword) {
		return common.NewAppError(http.StatusBadRequest, common.ReasonValidationError, "Current password is incorrect", nil)
	}

	if newPassword != confirmPassword {
		return common.NewAppError(http.StatusBadRequest, common.ReasonValidationError, "New passwords do not match", nil)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to change password", err)
	}

	if err := s.users.Update(user); err != nil {
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to change password", err)
	}

	s.cache.Del(ctx, profileCacheKey(userID))
	logger.Log.WithField("user_id", userID).Info("User changed their password")
	return nil
}

// DeleteAccount removes the user row. Only the account owner may delete it.
func (s *UserService) DeleteAccount(ctx context.Context, currentUserID, targetID string) *common.AppError {
	if currentUserID != targetID {
		return common.NewAppError(http.StatusForbidden, common.ReasonForbidden, "Unauthorized to delete this user", nil)
	}

	if err := s.users.Delete(targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusNotFound, common.ReasonNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to delete user", err)
	}

	s.cache.Del(ctx, profileCacheKey(targetID))
	logger.Log.WithField("user_id", targetID).Info("User deleted their account")
	return nil
}
