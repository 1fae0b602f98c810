package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/vibe-gaming/enrollment/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// DeviceAudience is the only audience accepted on device tokens, so a token
// minted for another surface cannot be replayed against the device API.
const DeviceAudience = "enrollment-device"

var ErrInvalidAudience = errors.New("token audience is not a device")

// TokenManager issues and parses the credentials held by enrollment devices.
type TokenManager interface {
	NewDeviceToken(deviceID string) (string, time.Duration, error)
	Parse(token string) (string, error)
}

type Manager struct {
	signingKey string
	issuer     string
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewManager(cfg config.DeviceAuthConfig) (*Manager, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("empty signing key")
	}

	if cfg.TokenTTL == 0 {
		return nil, errors.New("empty device token ttl")
	}

	return &Manager{
		signingKey: cfg.SigningKey,
		issuer:     cfg.Issuer,
		tokenTTL:   cfg.TokenTTL,
		now:        time.Now,
	}, nil
}

func (m *Manager) NewDeviceToken(deviceID string) (string, time.Duration, error) {
	if deviceID == "" {
		return "", 0, errors.New("empty device id")
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   deviceID,
		Audience:  jwt.ClaimStrings{DeviceAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
	})

	signed, err := token.SignedString([]byte(m.signingKey))
	if err != nil {
		return "", 0, errors.New("sign jwt failed")
	}

	return signed, m.tokenTTL, nil
}

// Parse verifies token and returns the device id it was issued to.
func (m *Manager) Parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(m.signingKey), nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	audienceOK := false
	for _, aud := range claims.Audience {
		if aud == DeviceAudience {
			audienceOK = true
			break
		}
	}
	if !audienceOK {
		return "", ErrInvalidAudience
	}

	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}

	return claims.Subject, nil
}
