package handlers

import (
	"errors"
	"net/http"

	"bucketlist/internal/logger"
	"bucketlist/internal/repository"
	"bucketlist/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live list stream (HTTP upgrade) — same port
	router.GET("/ws", h.wsListStream)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/logout", h.logout)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.usernameMiddleware)
	{
		h.registerAccountRoutes(api)
		h.registerThemeRoutes(api)
		h.registerListRoutes(api)
	}
}

func (h *Handler) registerAccountRoutes(api *gin.RouterGroup) {
	account := api.Group("/account")
	{
		account.GET("", h.currentAccount)
		account.PUT("/username", h.renameAccount)
		account.PUT("/password", h.changePassword)
		account.PUT("/avatar", h.updateAvatar)
		account.DELETE("/avatar", h.removeAvatar)
		account.DELETE("", h.deleteAccount)
	}
}

func (h *Handler) registerThemeRoutes(api *gin.RouterGroup) {
	theme := api.Group("/theme")
	{
		theme.GET("", h.getTheme)
		theme.PUT("", h.setTheme)
		theme.POST("/toggle", h.toggleTheme)
	}
}

func (h *Handler) registerListRoutes(api *gin.RouterGroup) {
	list := api.Group("/list")
	{
		list.GET("", h.getListItems)
		list.POST("", h.createListItem)
		list.PATCH("/:id/done", h.setListItemDone)
		list.PUT("/:id", h.updateListItem)
		list.DELETE("/:id", h.deleteListItem)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

const statusOK = "ok"

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondServiceError maps domain errors to status codes; anything unknown is
// treated as the remote store being unavailable and surfaced as-is.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Infow(logKey, fields...)
	}
	switch {
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrIncorrectPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrInvalidTheme):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
