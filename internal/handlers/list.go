package handlers

import (
	"net/http"
	"strconv"

	"bucketlist/internal/models"

	"github.com/gin-gonic/gin"
)

type createListItemRequest struct {
	Title string `json:"title" binding:"required"`
}

type setDoneRequest struct {
	Done *bool `json:"done" binding:"required"`
}

type updateListItemRequest struct {
	Title *string `json:"title,omitempty"`
	Done  *bool   `json:"done,omitempty"`
}

// @Summary      List items
// @Description  Items owned by the authenticated user, optionally filtered by done state
// @Tags         list
// @Produce      json
// @Param        done  query  bool  false  "Filter by completion"
// @Success      200   {array}   models.ListItem
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/list [get]
// @Security     BearerAuth
func (h *Handler) getListItems(c *gin.Context) {
	var done *bool
	if raw := c.Query("done"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "done must be true or false"})
			return
		}
		done = &v
	}

	items, err := h.services.ListItems(c.Request.Context(), c.GetString(usernameKey), done)
	if err != nil {
		h.respondServiceError(c, "list_fetch_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      Create item
// @Tags         list
// @Accept       json
// @Produce      json
// @Param        body  body   createListItemRequest  true  "Item title"
// @Success      200   {object}  models.ListItem
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/list [post]
// @Security     BearerAuth
func (h *Handler) createListItem(c *gin.Context) {
	var input createListItemRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	item, err := h.services.Lists.Create(c.Request.Context(), input.Title)
	if err != nil {
		h.respondServiceError(c, "list_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// @Summary      Set done flag
// @Tags         list
// @Accept       json
// @Produce      json
// @Param        id    path   string          true  "Item id"
// @Param        body  body   setDoneRequest  true  "Done flag"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/list/{id}/done [patch]
// @Security     BearerAuth
func (h *Handler) setListItemDone(c *gin.Context) {
	var input setDoneRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	id := c.Param("id")
	if err := h.services.SetDone(c.Request.Context(), id, *input.Done); err != nil {
		h.respondServiceError(c, "list_set_done_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Update item
// @Description  Targeted field update plus an updated-at stamp
// @Tags         list
// @Accept       json
// @Produce      json
// @Param        id    path   string                 true  "Item id"
// @Param        body  body   updateListItemRequest  true  "Fields"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/list/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateListItem(c *gin.Context) {
	var input updateListItemRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	if input.Title == nil && input.Done == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}
	id := c.Param("id")
	upd := models.ListItemUpdate{Title: input.Title, Done: input.Done}
	if err := h.services.Lists.Update(c.Request.Context(), id, upd); err != nil {
		h.respondServiceError(c, "list_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      Delete item
// @Tags         list
// @Produce      json
// @Param        id  path  string  true  "Item id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/list/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteListItem(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Remove(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, "list_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
