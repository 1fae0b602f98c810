// Package kioskpage serves the browser kiosk: welcome, form, processing
// result and the success countdown, rendered on the server from kiosk.State.
package kioskpage

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibe-gaming/enrollment/internal/kiosk"
	"github.com/vibe-gaming/enrollment/internal/service"
	"github.com/vibe-gaming/enrollment/pkg/logger"
	"github.com/vibe-gaming/enrollment/pkg/qrlink"
	"github.com/vibe-gaming/enrollment/pkg/sessionid"
)

//go:embed *.html
var pageFiles embed.FS

var pages = template.Must(template.ParseFS(pageFiles, "*.html"))

type Registrations interface {
	kiosk.Submitter
	NewSession(ctx context.Context) (*service.Session, error)
}

type Handler struct {
	registrations Registrations
	flow          *kiosk.Flow
	baseURL       string
	countdown     int
}

func NewHandler(registrations Registrations, baseURL string, countdown int) *Handler {
	return &Handler{
		registrations: registrations,
		flow:          kiosk.NewFlow(registrations),
		baseURL:       baseURL,
		countdown:     countdown,
	}
}

func (h *Handler) Init(router gin.IRouter) {
	page := router.Group("/kiosk")

	page.GET("", h.welcome)
	page.GET("/register", h.registrationForm)
	page.POST("/register", h.submit)
	page.GET("/ended", h.ended)
}

type pageData struct {
	State     kiosk.State
	QRURL     string
	Countdown int
	// Retry offers the form again under the same session id.
	Retry bool
}

// welcome opens a kiosk session. A scanned handoff url carries the session
// id; a bare visit mints a new one.
func (h *Handler) welcome(c *gin.Context) {
	id, fromQR := h.sessionFromURL(c)
	if !fromQR {
		session, err := h.registrations.NewSession(c.Request.Context())
		if err != nil {
			logger.Error("kiosk new session failed", zap.Error(err))
			h.render(c, http.StatusInternalServerError, pageData{State: kiosk.Welcome("", false).Failed(err)})
			return
		}
		id = session.ID
	}

	h.render(c, http.StatusOK, h.withQR(kiosk.Welcome(id, fromQR)))
}

func (h *Handler) registrationForm(c *gin.Context) {
	id, ok := h.sessionFromURL(c)
	if !ok {
		c.Redirect(http.StatusFound, "/kiosk")
		return
	}

	h.render(c, http.StatusOK, h.withQR(kiosk.Welcome(id, true).StartRegistration()))
}

func (h *Handler) submit(c *gin.Context) {
	state := kiosk.Welcome(c.PostForm("session"), true).StartRegistration()

	state = h.flow.Submit(c.Request.Context(), state, service.SubmitInput{
		Name:      c.PostForm("name"),
		Email:     c.PostForm("email"),
		Phone:     c.PostForm("phone"),
		SessionID: c.PostForm("session"),
	})

	status := http.StatusOK
	if state.Screen != kiosk.ScreenSuccess {
		status = http.StatusUnprocessableEntity
	}

	h.render(c, status, h.withQR(state))
}

func (h *Handler) ended(c *gin.Context) {
	id, _ := h.sessionFromURL(c)

	h.render(c, http.StatusOK, pageData{State: kiosk.Welcome(id, false).Ended()})
}

func (h *Handler) sessionFromURL(c *gin.Context) (string, bool) {
	id, err := qrlink.Extract(c.Request.URL.String())
	if err != nil {
		if !errors.Is(err, qrlink.ErrNoSession) {
			logger.Debug("kiosk url has no readable session", zap.Error(err))
		}
		return "", false
	}

	return id, sessionid.Valid(id)
}

func (h *Handler) withQR(state kiosk.State) pageData {
	data := pageData{
		State:     state,
		Countdown: h.countdown,
		Retry:     state.SessionID != "" && state.Message != kiosk.MessageSessionTaken,
	}
	if state.SessionID == "" {
		return data
	}

	qrURL, err := qrlink.Encode(h.baseURL, state.SessionID)
	if err != nil {
		logger.Error("kiosk qr url failed", zap.Error(err))
		return data
	}
	data.QRURL = qrURL

	return data
}

func (h *Handler) render(c *gin.Context, status int, data pageData) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "kiosk.html", data); err != nil {
		logger.Error("failed to render kiosk page", zap.Error(err), zap.String("screen", string(data.State.Screen)))
		c.String(http.StatusInternalServerError, "Failed to render kiosk page")
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
