package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type setThemeRequest struct {
	Theme string `json:"theme" binding:"required"` // light | dark
}

// @Summary      Theme tokens
// @Description  Color tokens derived from the session's stored preference
// @Tags         theme
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/theme [get]
// @Security     BearerAuth
func (h *Handler) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"is_dark": h.services.IsDark(),
		"tokens":  h.services.Tokens(),
	})
}

// @Summary      Set theme preference
// @Tags         theme
// @Accept       json
// @Produce      json
// @Param        body  body   setThemeRequest  true  "Theme"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/theme [put]
// @Security     BearerAuth
func (h *Handler) setTheme(c *gin.Context) {
	var input setThemeRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if err := h.services.UpdateTheme(c.Request.Context(), input.Theme); err != nil {
		h.respondServiceError(c, "theme_set_failed", err, "theme", input.Theme)
		return
	}
	h.respondTheme(c)
}

// @Summary      Toggle theme
// @Description  Flips light/dark and writes through the account store
// @Tags         theme
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/theme/toggle [post]
// @Security     BearerAuth
func (h *Handler) toggleTheme(c *gin.Context) {
	if err := h.services.Toggle(c.Request.Context()); err != nil {
		h.respondServiceError(c, "theme_toggle_failed", err)
		return
	}
	h.respondTheme(c)
}

func (h *Handler) respondTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"is_dark": h.services.IsDark(),
		"tokens":  h.services.Tokens(),
	})
}
