package v1

import (
	"time"

	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/kiosk"
	"github.com/vibe-gaming/enrollment/internal/service"
	"github.com/vibe-gaming/enrollment/pkg/auth"

	"github.com/gin-gonic/gin"
)

// @title Enrollment API
// @version 1.0
// @description Kiosk registration handoff between kiosk browsers and enrollment devices

// @BasePath /api/v1

// @securityDefinitions.apikey DeviceAuth
// @in header
// @name Authorization

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	config       *config.Config
	newTicker    func(time.Duration) kiosk.Ticker
}

func NewHandler(
	services *service.Services,
	tokenManager auth.TokenManager,
	config *config.Config,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		config:       config,
		newTicker:    kiosk.NewTicker,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initRegistrationsRoutes(v1)
	h.initDeviceRoutes(v1)
}
