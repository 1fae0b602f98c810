package qrlink

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	SessionParam       = "session"
	LegacySessionParam = "id"
)

var (
	ErrInvalidBaseURL = errors.New("invalid base url")
	ErrNoSession      = errors.New("no session in url")
)

// Encode returns baseURL with the session id set as the session query parameter.
// Other query parameters of baseURL are preserved.
func Encode(baseURL string, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	q := u.Query()
	q.Del(LegacySessionParam)
	q.Set(SessionParam, sessionID)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Extract reads the session id from a scanned url, accepting the legacy id parameter.
func Extract(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url failed: %w", err)
	}

	q := u.Query()
	if id := q.Get(SessionParam); id != "" {
		return id, nil
	}
	if id := q.Get(LegacySessionParam); id != "" {
		return id, nil
	}

	return "", ErrNoSession
}
