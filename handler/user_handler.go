package handler

import (
	"fmt"
	"net/http"
	"sentinel-api/common"
	"sentinel-api/model"
	"sentinel-api/service"
)

type UserHandler struct {
	users  *service.UserService
	tokens *service.TokenService
}

func NewUserHandler(users *service.UserService, tokens *service.TokenService) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// GetProfile godoc
// @Summary      Get the authenticated user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      404  {object}  common.AppError
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	user, appErr := h.users.GetProfile(r.Context(), claims.UserID)
	if appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

// UpdateProfile godoc
// @Summary      Update the authenticated user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.UpdateProfileRequest true "Profile payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	var req model.UpdateProfileRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	if _, appErr := h.users.UpdateProfile(r.Context(), claims.UserID, req.Username); appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated successfully"})
	return nil
}

// ChangePassword godoc
// @Summary      Change the authenticated user's password
// @Description  Requires a fresh token; tokens minted via refresh are rejected.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.ChangePasswordRequest true "Password payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError
// @Router       /users/me/password [put]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	var req model.ChangePasswordRequest
	if appErr := common.DecodeAndValidate(r, &req); appErr != nil {
		return appErr
	}

	if appErr := h.users.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user account
// @Description  Requires a fresh token. Only the account owner may delete
// @Description  it; the current token is revoked before the row is removed.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  common.AppError
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.ReasonInvalidToken, "Invalid token", nil)
	}

	targetID := r.PathValue("id")
	if claims.UserID != targetID {
		return common.NewAppError(http.StatusForbidden, common.ReasonForbidden, "Unauthorized to delete this user", nil)
	}

	// Revoke before deleting so the session dies even if the delete fails
	// halfway.
	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		return common.NewAppError(http.StatusServiceUnavailable, common.ReasonStoreUnavailable, "Failed to revoke token", err)
	}

	if appErr := h.users.DeleteAccount(r.Context(), claims.UserID, targetID); appErr != nil {
		return appErr
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("User %s deleted successfully", targetID)})
	return nil
}
