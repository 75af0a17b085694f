package handlers

import (
	"errors"
	"net/http"

	"bucketlist/internal/service"

	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type signInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   signUpRequest  true  "Credentials"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if input.Password != input.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrPasswordMismatch.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Register(ctx, input.Username, input.Password); err != nil {
		h.respondServiceError(c, "auth_sign_up_failed", err, "username", input.Username)
		return
	}

	token, err := h.services.GenerateToken(ctx, input.Username, input.Password)
	if err != nil {
		h.respondServiceError(c, "auth_sign_up_token_failed", err, "username", input.Username)
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": input.Username, "token": token})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body   signInRequest  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			if h.log != nil {
				h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
			}
			// Never reveal which field was wrong.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		// Store failures are not credential failures; surface them as-is.
		h.respondServiceError(c, "auth_sign_in_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Log out
// @Description  Clears the server-side session unconditionally
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	h.services.Logout()
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
