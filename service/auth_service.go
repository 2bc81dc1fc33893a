package service

import (
	"database/sql"
	"errors"
	"net/http"
	"sentinel-api/common"
	"sentinel-api/logger"
	"sentinel-api/model"
	"sentinel-api/repository"

	"github.com/google/uuid"
)

// AuthService owns the credential-facing flows: login and the password
// reset round-trip.
type AuthService struct {
	users  repository.IUserRepository
	tokens *TokenService
}

func NewAuthService(users repository.IUserRepository, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the credentials and issues a fresh access token plus a
// refresh token. Unknown email and wrong password answer identically so
// the response does not reveal whether an account exists.
func (s *AuthService) Login(email, password string) (*TokenPair, *model.User, *common.AppError) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidCredentials, "Invalid email or password", nil)
		}
		return nil, nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to log in", err)
	}

	if !user.VerifyPassword(password) {
		return nil, nil, common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidCredentials, "Invalid email or password", nil)
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, true)
	if err != nil {
		return nil, nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to issue tokens", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, nil, common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to issue tokens", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in successfully")
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, user, nil
}

// RequestPasswordReset generates a single-use reset token and stores it on
// the user row, overwriting any previous one. Unknown emails answer 404,
// which discloses account existence; kept for compatibility with the
// existing API contract.
func (s *AuthService) RequestPasswordReset(email string) (string, *common.AppError) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("email", email).Warn("Password reset requested for unknown email")
			return "", common.NewAppError(http.StatusNotFound, common.ReasonNotFound, "User not found", nil)
		}
		return "", common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to generate reset token", err)
	}

	resetToken := uuid.NewString()
	user.ResetToken = resetToken

	if err := s.users.Update(user); err != nil {
		return "", common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to generate reset token", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("Password reset token generated")
	return resetToken, nil
}

// ResetPassword consumes a reset token: it re-hashes the password and nulls
// the token, making a second confirm with the same token fail.
func (s *AuthService) ResetPassword(token, newPassword, confirmPassword string) *common.AppError {
	if newPassword != confirmPassword {
		return common.NewAppError(http.StatusBadRequest, common.ReasonValidationError, "Passwords do not match", nil)
	}

	user, err := s.users.GetByResetToken(token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewAppError(http.StatusBadRequest, common.ReasonInvalidToken, "Invalid or expired token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to reset password", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to update password", err)
	}
	user.ResetToken = ""

	if err := s.users.Update(user); err != nil {
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to update password", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User successfully reset their password")
	return nil
}
