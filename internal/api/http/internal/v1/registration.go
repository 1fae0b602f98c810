package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vibe-gaming/enrollment/internal/kiosk"
	"github.com/vibe-gaming/enrollment/internal/service"
)

func (h *Handler) initRegistrationsRoutes(api *gin.RouterGroup) {
	registrations := api.Group("/registrations")

	registrations.POST("/sessions", h.newSession)
	registrations.POST("/registrations", h.submitRegistration)
	registrations.GET("/registrations/:session_id", h.getRegistration)
	registrations.GET("/registrations/:session_id/countdown", h.registrationCountdown)
}

// @Summary New session
// @Tags Registrations
// @Description Mint a session id and the QR url handed to the enrollment device
// @ModuleID newSession
// @Produce  json
// @Success 201 {object} service.Session
// @Failure 500 {object} ErrorStruct
// @Router /registrations/sessions [post]
func (h *Handler) newSession(c *gin.Context) {
	session, err := h.services.Registrations.NewSession(c.Request.Context())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// @Summary Submit registration
// @Tags Registrations
// @Description Validate the kiosk form and store one registration record
// @ModuleID submitRegistration
// @Accept  json
// @Produce  json
// @Param input body service.SubmitInput true "registration form"
// @Success 201 {object} service.Session
// @Failure 400 {object} ValidationErrorStruct
// @Failure 409 {object} ErrorStruct
// @Failure 422 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Router /registrations/registrations [post]
func (h *Handler) submitRegistration(c *gin.Context) {
	var input service.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, InvalidRequestBodyCode)
		return
	}

	session, err := h.services.Registrations.Submit(c.Request.Context(), input)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// @Summary Get registration
// @Tags Registrations
// @Description Current record of a session, polled by the kiosk while it waits for the device
// @ModuleID getRegistration
// @Produce  json
// @Param session_id path string true "session id"
// @Success 200 {object} domain.Registration
// @Failure 404 {object} ErrorStruct
// @Failure 503 {object} ErrorStruct
// @Router /registrations/registrations/{session_id} [get]
func (h *Handler) getRegistration(c *gin.Context) {
	registration, err := h.services.Registrations.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}

// @Summary Registration countdown
// @Tags Registrations
// @Description Server-sent tick events counting down the success screen, then an end event
// @ModuleID registrationCountdown
// @Produce  text/event-stream
// @Param session_id path string true "session id"
// @Success 200
// @Failure 404 {object} ErrorStruct
// @Router /registrations/registrations/{session_id}/countdown [get]
func (h *Handler) registrationCountdown(c *gin.Context) {
	registration, err := h.services.Registrations.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	from := h.config.Registration.CountdownSeconds
	ticks := kiosk.Countdown(c.Request.Context(), from, h.newTicker(h.config.Registration.CountdownTick))

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("tick", strconv.Itoa(from))
	c.Writer.Flush()

	for remaining := range ticks {
		c.SSEvent("tick", strconv.Itoa(remaining))
		c.Writer.Flush()
	}

	// the client went away before the end, nothing left to tell it
	if c.Request.Context().Err() != nil {
		return
	}

	c.SSEvent("end", registration.SessionID)
	c.Writer.Flush()
}
