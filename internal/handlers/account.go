package handlers

import (
	"net/http"

	"bucketlist/internal/service"

	"github.com/gin-gonic/gin"
)

type renameRequest struct {
	NewUsername string `json:"new_username" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

type avatarRequest struct {
	URL string `json:"url" binding:"required"`
}

// @Summary      Current account
// @Tags         account
// @Produce      json
// @Success      200  {object}  models.SessionUser
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/account [get]
// @Security     BearerAuth
func (h *Handler) currentAccount(c *gin.Context) {
	u, ok := h.services.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrSessionRequired.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      Rename account
// @Description  Re-verifies the password, renames the account and re-points all owned list items. Returns a fresh token; the old one carries the retired username.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body   renameRequest  true  "New username and current password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/account/username [put]
// @Security     BearerAuth
func (h *Handler) renameAccount(c *gin.Context) {
	var input renameRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	username := c.GetString(usernameKey)
	ctx := c.Request.Context()
	if err := h.services.Rename(ctx, username, input.NewUsername, input.Password); err != nil {
		h.respondServiceError(c, "account_rename_failed", err, "username", username)
		return
	}

	// The caller's token still names the old account; hand back one for the
	// new name so the client keeps working without a re-login.
	token, err := h.services.GenerateToken(ctx, input.NewUsername, input.Password)
	if err != nil {
		h.respondServiceError(c, "account_rename_token_failed", err, "username", input.NewUsername)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "username updated successfully", "token": token})
}

// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body   changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/account/password [put]
// @Security     BearerAuth
func (h *Handler) changePassword(c *gin.Context) {
	var input changePasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrPasswordMismatch.Error()})
		return
	}
	username := c.GetString(usernameKey)
	if err := h.services.ChangePassword(c.Request.Context(), username, input.CurrentPassword, input.NewPassword); err != nil {
		h.respondServiceError(c, "account_change_password_failed", err, "username", username)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated successfully"})
}

// @Summary      Delete account
// @Description  Re-verifies the password, deletes the account and clears the session. Owned list items are left behind.
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body   deleteAccountRequest  true  "Current password"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/account [delete]
// @Security     BearerAuth
func (h *Handler) deleteAccount(c *gin.Context) {
	var input deleteAccountRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	username := c.GetString(usernameKey)
	if err := h.services.Accounts.Delete(c.Request.Context(), username, input.Password); err != nil {
		h.respondServiceError(c, "account_delete_failed", err, "username", username)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted successfully"})
}

// @Summary      Set avatar
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body   avatarRequest  true  "Avatar URL"
// @Success      200   {object}  map[string]string
// @Router       /api/v1/account/avatar [put]
// @Security     BearerAuth
func (h *Handler) updateAvatar(c *gin.Context) {
	var input avatarRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := h.services.UpdateAvatar(c.Request.Context(), input.URL); err != nil {
		h.respondServiceError(c, "account_update_avatar_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Remove avatar
// @Tags         account
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/v1/account/avatar [delete]
// @Security     BearerAuth
func (h *Handler) removeAvatar(c *gin.Context) {
	if err := h.services.RemoveAvatar(c.Request.Context()); err != nil {
		h.respondServiceError(c, "account_remove_avatar_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
