package apiHttp

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vibe-gaming/enrollment/docs"
	"github.com/vibe-gaming/enrollment/pkg/auth"
	"github.com/vibe-gaming/enrollment/pkg/limiter"
	"github.com/vibe-gaming/enrollment/pkg/logger"
	"github.com/vibe-gaming/enrollment/pkg/validator"

	internalV1 "github.com/vibe-gaming/enrollment/internal/api/http/internal/v1"
	"github.com/vibe-gaming/enrollment/internal/api/http/kioskpage"
	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	config       *config.Config
	gatherer     prometheus.Gatherer
}

func NewHandlers(
	services *service.Services,
	tokenManager auth.TokenManager,
	cfg *config.Config,
	gatherer prometheus.Gatherer,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		config:       cfg,
		gatherer:     gatherer,
	}
}

func (h *Handler) Init(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if err := validator.RegisterGinValidator(); err != nil {
		logger.Error("register gin validator failed", zap.Error(err))
	}

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
		corsMiddleware(cfg.HttpServer.AllowedOrigins),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	if cfg.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.NewHandler(), ginSwagger.InstanceName("internal")))
	}

	router.GET("/healthz", h.healthz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	kioskpage.NewHandler(h.services.Registrations, cfg.Registration.BaseURL, cfg.Registration.CountdownSeconds).Init(router)

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	internalHandlersV1 := internalV1.NewHandler(h.services, h.tokenManager, h.config)
	api := router.Group("/api")
	internalHandlersV1.Init(api)
}

func (h *Handler) healthz(c *gin.Context) {
	if err := h.services.Registrations.Ping(c.Request.Context()); err != nil {
		logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
