package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vibe-gaming/enrollment/internal/domain"
)

const (
	deviceRegisterPath = "/api/register"
	deviceStatusPath   = "/api/status"

	deviceDefaultTimeout = 10 * time.Second
)

// DeviceRejectedError is returned when the enrollment device answers a write
// with success=false. Reason is the device's own message.
type DeviceRejectedError struct {
	Reason string
}

func (e *DeviceRejectedError) Error() string {
	return "device rejected registration: " + e.Reason
}

type deviceRecord struct {
	SessionID      string  `json:"session_id"`
	RegistrationID string  `json:"registrationId,omitempty"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Timestamp      int64   `json:"timestamp"`
	Status         string  `json:"status"`
	ExternalRef    *string `json:"external_ref,omitempty"`
}

type deviceResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// registrationDeviceRepository forwards records to the kiosk's local HTTP
// enrollment device. The device attaches references itself, so it only
// supports create and lookup.
type registrationDeviceRepository struct {
	client  *http.Client
	baseURL string
}

func newRegistrationDeviceRepository(client *http.Client, baseURL string) *registrationDeviceRepository {
	if client == nil {
		client = &http.Client{Timeout: deviceDefaultTimeout}
	}

	return &registrationDeviceRepository{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (r *registrationDeviceRepository) Create(ctx context.Context, registration *domain.Registration) error {
	const op = "repository.registration.device.Create"

	body, err := json.Marshal(deviceRecord{
		SessionID:      registration.SessionID,
		RegistrationID: registration.SessionID,
		Name:           registration.Name,
		Email:          registration.Email,
		Phone:          registration.Phone,
		Timestamp:      registration.Timestamp(),
		Status:         string(registration.Status),
	})
	if err != nil {
		return fmt.Errorf("%s: marshal record failed: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+deviceRegisterPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request failed: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return domain.ErrDuplicateEntry
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %w: status %d", op, domain.ErrStoreUnavailable, resp.StatusCode)
	}

	var result deviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%s: %w: decode response failed: %w", op, domain.ErrStoreUnavailable, err)
	}
	if !result.Success {
		reason := result.Message
		if reason == "" {
			reason = "Registration failed. Please try again."
		}
		return &DeviceRejectedError{Reason: reason}
	}

	return nil
}

func (r *registrationDeviceRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Registration, error) {
	const op = "repository.registration.device.GetBySessionID"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.baseURL+deviceStatusPath+"?"+url.Values{"id": {sessionID}}.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request failed: %w", op, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s: %w: status %d: %s", op, domain.ErrStoreUnavailable, resp.StatusCode, b)
	}

	var record deviceRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("%s: %w: decode record failed: %w", op, domain.ErrStoreUnavailable, err)
	}

	if record.SessionID == "" {
		record.SessionID = record.RegistrationID
	}
	registration := &domain.Registration{
		SessionID:   record.SessionID,
		Name:        record.Name,
		Email:       record.Email,
		Phone:       record.Phone,
		Status:      domain.RegistrationStatus(record.Status),
		ExternalRef: record.ExternalRef,
		CreatedAt:   time.UnixMilli(record.Timestamp).UTC(),
	}
	if !registration.Status.IsValid() {
		return nil, fmt.Errorf("%s: device returned invalid status %q", op, record.Status)
	}

	return registration, nil
}

func (r *registrationDeviceRepository) ListByStatus(context.Context, domain.RegistrationStatus, int) ([]domain.Registration, error) {
	return nil, domain.ErrUnsupported
}

func (r *registrationDeviceRepository) Attach(context.Context, string, string, string, time.Time) error {
	return domain.ErrUnsupported
}

func (r *registrationDeviceRepository) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+deviceStatusPath, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("device unhealthy: status %d", resp.StatusCode)
	}

	return nil
}
