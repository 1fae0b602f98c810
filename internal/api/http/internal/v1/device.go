package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibe-gaming/enrollment/internal/domain"
	"github.com/vibe-gaming/enrollment/internal/service"
	"github.com/vibe-gaming/enrollment/pkg/logger"
)

func (h *Handler) initDeviceRoutes(api *gin.RouterGroup) {
	device := api.Group("/device", h.deviceIdentityMiddleware)

	device.GET("/registrations", h.listPendingRegistrations)
	device.POST("/registrations/:session_id/attach", h.attachRegistration)
}

type pendingRegistrationsResponse struct {
	Registrations []domain.Registration `json:"registrations"`
}

// @Summary List pending registrations
// @Tags Device
// @Description Records an enrollment device may still attach to
// @ModuleID listPendingRegistrations
// @Produce  json
// @Param status query string false "pending or waiting_for_external_attachment"
// @Param limit query int false "max records"
// @Success 200 {object} pendingRegistrationsResponse
// @Failure 400 {object} ErrorStruct
// @Failure 401
// @Failure 501 {object} ErrorStruct
// @Security DeviceAuth
// @Router /device/registrations [get]
func (h *Handler) listPendingRegistrations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			errorResponse(c, http.StatusBadRequest, InvalidRequestBodyCode)
			return
		}
	}

	status := domain.RegistrationStatus(c.Query("status"))
	registrations, err := h.services.Registrations.ListPending(c.Request.Context(), status, limit)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if registrations == nil {
		registrations = []domain.Registration{}
	}

	c.JSON(http.StatusOK, pendingRegistrationsResponse{Registrations: registrations})
}

type sessionURI struct {
	SessionID string `json:"session_id" uri:"session_id" binding:"required,sessionid"`
}

type attachRequest struct {
	ExternalRef string `json:"external_ref" binding:"required,max=255"`
}

// @Summary Attach registration
// @Tags Device
// @Description Complete a registration with the reference produced by the enrollment device
// @ModuleID attachRegistration
// @Accept  json
// @Produce  json
// @Param session_id path string true "session id"
// @Param input body attachRequest true "device reference"
// @Success 200 {object} domain.Registration
// @Failure 400 {object} ValidationErrorStruct
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Security DeviceAuth
// @Router /device/registrations/{session_id}/attach [post]
func (h *Handler) attachRegistration(c *gin.Context) {
	deviceID, err := getDeviceID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var uri sessionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		bindErrorResponse(c, err)
		return
	}

	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErrorResponse(c, err)
		return
	}

	registration, err := h.services.Registrations.Attach(c.Request.Context(), service.AttachInput{
		SessionID:   uri.SessionID,
		ExternalRef: req.ExternalRef,
		DeviceID:    deviceID,
	})
	if err != nil {
		logger.Warn("attach registration failed",
			zap.Error(err),
			zap.String("device_id", deviceID),
			zap.String("session_id", c.Param("session_id")),
		)
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}
