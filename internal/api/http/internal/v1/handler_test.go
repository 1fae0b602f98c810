package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/kiosk"
	"github.com/vibe-gaming/enrollment/internal/service"
	mock_service "github.com/vibe-gaming/enrollment/internal/service/mock"
	"github.com/vibe-gaming/enrollment/pkg/auth"
	"github.com/vibe-gaming/enrollment/pkg/validator"
)

var closedTicks = func() chan time.Time {
	ch := make(chan time.Time)
	close(ch)
	return ch
}()

// instantTicker fires on every receive so countdowns finish immediately.
type instantTicker struct{}

func (instantTicker) C() <-chan time.Time { return closedTicks }
func (instantTicker) Stop()               {}

type testAPI struct {
	router        *gin.Engine
	registrations *mock_service.Registrations
	tokens        *auth.Manager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterGinValidator())

	cfg := &config.Config{
		Auth: config.AuthConfig{Device: config.DeviceAuthConfig{
			SigningKey: "device-secret",
			Issuer:     "enrollment",
			TokenTTL:   time.Hour,
		}},
		Registration: config.Registration{
			CountdownSeconds: 3,
			CountdownTick:    time.Millisecond,
		},
	}

	tokens, err := auth.NewManager(cfg.Auth.Device)
	require.NoError(t, err)

	registrations := new(mock_service.Registrations)
	h := NewHandler(&service.Services{Registrations: registrations}, tokens, cfg)
	h.newTicker = func(time.Duration) kiosk.Ticker { return instantTicker{} }

	router := gin.New()
	h.Init(router.Group("/api"))

	t.Cleanup(func() { registrations.AssertExpectations(t) })

	return &testAPI{router: router, registrations: registrations, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

func (a *testAPI) deviceHeader(t *testing.T, deviceID string) http.Header {
	t.Helper()

	token, _, err := a.tokens.NewDeviceToken(deviceID)
	require.NoError(t, err)

	return http.Header{"Authorization": {"Bearer " + token}}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorStruct {
	t.Helper()

	var out ErrorStruct
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
