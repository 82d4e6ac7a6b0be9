package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"vaultconnect/internal/auth"
	"vaultconnect/internal/feeds"
	"vaultconnect/internal/metrics"
	"vaultconnect/internal/repository"
	"vaultconnect/internal/service"
)

const (
	appName    = "VaultConnect"
	appVersion = "1.0.0"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	widgets  service.WidgetService
	calendar service.CalendarService
	files    service.FileService
	feeds    *feeds.Service
	tokens   *auth.TokenManager

	allowedOrigin string
	limiter       *RateLimiter
	collector     *metrics.Collector
	registry      *prometheus.Registry
	logger        *logrus.Logger
}

// Options collects the handler's dependencies.
type Options struct {
	Users    service.UserService
	Widgets  service.WidgetService
	Calendar service.CalendarService
	Files    service.FileService
	Feeds    *feeds.Service
	Tokens   *auth.TokenManager

	AllowedOrigin string
	Limiter       *RateLimiter
	Registry      *prometheus.Registry
	Logger        *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	h := &Handler{
		users:         opts.Users,
		widgets:       opts.Widgets,
		calendar:      opts.Calendar,
		files:         opts.Files,
		feeds:         opts.Feeds,
		tokens:        opts.Tokens,
		allowedOrigin: opts.AllowedOrigin,
		limiter:       opts.Limiter,
		registry:      opts.Registry,
		logger:        opts.Logger,
	}
	if h.logger == nil {
		h.logger = logrus.New()
	}
	if h.registry != nil {
		h.collector = metrics.NewCollector(h.registry)
	}
	return h
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.allowedOrigin))
	if h.collector != nil {
		router.Use(h.metricsMiddleware())
	}

	if h.registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	if h.limiter != nil {
		api.Use(h.limiter.Middleware())
	}

	app := api.Group("/app")
	{
		app.GET("/health", h.health)
		app.GET("/info", h.info)
	}

	users := api.Group("/users")
	{
		users.POST("/signup", h.signUp)
		users.POST("/signin", h.signIn)
		users.POST("/signout", h.requireAuth, h.signOut)
		users.GET("/profile", h.requireAuth, h.getProfile)
		users.PUT("/profile", h.requireAuth, h.updateProfile)
		users.DELETE("/account", h.requireAuth, h.deleteAccount)
	}

	widgets := api.Group("/widgets", h.requireAuth)
	{
		widgets.GET("", h.listWidgets)
		widgets.POST("", h.createWidget)
		widgets.GET("/rss/preview", h.previewRSS)
		widgets.GET("/:id", h.getWidget)
		widgets.PUT("/:id", h.updateWidget)
		widgets.DELETE("/:id", h.deleteWidget)
	}

	calendar := api.Group("/calendar", h.requireAuth)
	{
		calendar.GET("", h.listEvents)
		calendar.POST("", h.createEvent)
		calendar.GET("/:id", h.getEvent)
		calendar.PUT("/:id", h.updateEvent)
		calendar.DELETE("/:id", h.deleteEvent)
	}

	files := api.Group("/files", h.requireAuth)
	{
		files.POST("/upload", h.uploadFile)
		files.GET("", h.listFiles)
		files.GET("/:id", h.getFile)
		files.DELETE("/:id", h.deleteFile)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"name": appName, "version": appVersion})
}

func (h *Handler) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.collector.RecordRequest(route, c.Writer.Status(), time.Since(start))
	}
}

// respondError maps service and repository errors onto the API's status
// taxonomy. Anything unrecognized becomes a logged 500 with a generic body.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, feeds.ErrBadURL):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, feeds.ErrFetchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch feed"})
	default:
		h.logger.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
