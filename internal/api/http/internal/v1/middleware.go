package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/vibe-gaming/enrollment/pkg/logger"
)

const (
	authorizationHeader = "Authorization"
	deviceCtx           = "deviceId"
)

var errNoDevice = errors.New("device id not found")

func (h *Handler) deviceIdentityMiddleware(c *gin.Context) {
	id, err := h.parseAuthHeader(c)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			logger.Warn("parse device auth header failed", zap.Error(err), zap.String("ip", c.ClientIP()))
		}
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(deviceCtx, id)
}

func (h *Handler) parseAuthHeader(c *gin.Context) (string, error) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		return "", errors.New("empty auth header")
	}

	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return "", errors.New("invalid auth header")
	}

	if len(headerParts[1]) == 0 {
		return "", errors.New("token is empty")
	}

	return h.tokenManager.Parse(headerParts[1])
}

func getDeviceID(c *gin.Context) (string, error) {
	id, ok := c.Get(deviceCtx)
	if !ok {
		return "", errNoDevice
	}

	deviceID, ok := id.(string)
	if !ok || deviceID == "" {
		return "", errNoDevice
	}

	return deviceID, nil
}
