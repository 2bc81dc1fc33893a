package handler

import (
	"net/http"
	"sentinel-api/common"
	"sentinel-api/model"
	"sentinel-api/service"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
	users  *service.UserService
}

func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, users: users}
}

// Register godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  common.AppError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	user, appErr := h.users.Register(&req)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
		"userId":  user.ID,
	})
	return nil
}

// Login godoc
// @Summary      Authenticate and receive a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Credentials"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	pair, user, appErr := h.auth.Login(req.Email, req.Password)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Login successful",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user": map[string]string{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
	return nil
}

// Refresh godoc
// @Summary      Exchange a refresh token for a new access token
// @Description  The new access token is never fresh.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Router       /auth/token/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	accessToken, err := h.tokens.IssueAccessToken(claims.UserID, false)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, common.ReasonInternalError, "Failed to issue access token", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
	return nil
}

// Logout godoc
// @Summary      Revoke the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		return common.NewAppError(http.StatusServiceUnavailable, common.ReasonStoreUnavailable, "Failed to revoke token", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
	return nil
}

// VerifyToken godoc
// @Summary      Verify the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Router       /auth/verify-token [get]
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	// The subject may have deleted their account with a still-live token.
	if _, appErr := h.users.GetProfile(r.Context(), claims.UserID); appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":      true,
		"user_id":    claims.UserID,
		"token_type": claims.TokenType,
		"fresh":      claims.Fresh,
		"jti":        claims.ID,
	})
	return nil
}

// TokenStatus godoc
// @Summary      Detailed status of the current token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  common.AppError
// @Router       /auth/token-status [get]
func (h *AuthHandler) TokenStatus(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	blacklisted, err := h.tokens.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return common.NewAppError(http.StatusServiceUnavailable, common.ReasonStoreUnavailable, "Authentication temporarily unavailable", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":        claims.UserID,
		"token_type":     claims.TokenType,
		"fresh":          claims.Fresh,
		"jti":            claims.ID,
		"is_blacklisted": blacklisted,
		"issued_at":      claims.IssuedAt.Unix(),
		"expires_at":     claims.ExpiresAt.Unix(),
	})
	return nil
}

// RequestPasswordReset godoc
// @Summary      Request a password reset token
// @Description  The token is returned in the response body rather than
// @Description  delivered out-of-band; a known limitation of this API.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.ResetPasswordRequest true "Account email"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError
// @Router       /auth/reset-password [post]
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ResetPasswordRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	resetToken, appErr := h.auth.RequestPasswordReset(req.Email)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "Password reset token generated",
		"reset_token": resetToken,
	})
	return nil
}

// ConfirmPasswordReset godoc
// @Summary      Reset the password using a reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.ConfirmResetRequest true "Reset payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError
// @Router       /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ConfirmResetRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	if appErr := h.auth.ResetPassword(req.Token, req.NewPassword, req.ConfirmPassword); appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
	return nil
}
