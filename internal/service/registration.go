package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/domain"
	"github.com/vibe-gaming/enrollment/internal/metrics"
	"github.com/vibe-gaming/enrollment/internal/repository"
	"github.com/vibe-gaming/enrollment/pkg/logger"
	"github.com/vibe-gaming/enrollment/pkg/qrlink"
	"github.com/vibe-gaming/enrollment/pkg/sessionid"
	"github.com/vibe-gaming/enrollment/pkg/validator"
)

type Session struct {
	ID     string                    `json:"session_id"`
	QRURL  string                    `json:"qr_url"`
	Status domain.RegistrationStatus `json:"status,omitempty"`
}

type SubmitInput struct {
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,max=255,kioskemail"`
	Phone     string `json:"phone" validate:"phonenumber"`
	SessionID string `json:"session_id" validate:"sessionid"`
}

type AttachInput struct {
	SessionID   string `json:"session_id" validate:"required,sessionid"`
	ExternalRef string `json:"external_ref" validate:"required,max=255"`
	DeviceID    string `json:"device_id" validate:"required,max=128"`
}

type registrationService struct {
	repo          repository.Registrations
	idGenerator   sessionid.Generator
	notifier      CompletionNotifier
	metrics       *metrics.Metrics
	baseURL       string
	initialStatus domain.RegistrationStatus
	storeTimeout  time.Duration
	listLimit     int
	now           func() time.Time
}

func newRegistrationService(
	repo repository.Registrations,
	idGenerator sessionid.Generator,
	notifier CompletionNotifier,
	m *metrics.Metrics,
	cfg *config.Config,
) (*registrationService, error) {
	initialStatus := domain.RegistrationStatus(cfg.Registration.InitialStatus)
	if !initialStatus.IsInitial() {
		return nil, fmt.Errorf("registration initial status %q is not pending or waiting", initialStatus)
	}

	if _, err := qrlink.Encode(cfg.Registration.BaseURL, "check"); err != nil {
		return nil, fmt.Errorf("registration base url: %w", err)
	}

	return &registrationService{
		repo:          repo,
		idGenerator:   idGenerator,
		notifier:      notifier,
		metrics:       m,
		baseURL:       cfg.Registration.BaseURL,
		initialStatus: initialStatus,
		storeTimeout:  cfg.Store.Timeout,
		listLimit:     cfg.Registration.ListLimit,
		now:           time.Now,
	}, nil
}

func (s *registrationService) NewSession(_ context.Context) (*Session, error) {
	id, err := s.idGenerator.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate session id failed: %w", err)
	}

	return s.session(id, "")
}

func (s *registrationService) session(id string, status domain.RegistrationStatus) (*Session, error) {
	qrURL, err := qrlink.Encode(s.baseURL, id)
	if err != nil {
		return nil, fmt.Errorf("encode qr url failed: %w", err)
	}

	return &Session{ID: id, QRURL: qrURL, Status: status}, nil
}

// Submit validates the form and writes one record for it. Nothing is written
// when validation fails, and a failed write is never retried.
func (s *registrationService) Submit(ctx context.Context, input SubmitInput) (*Session, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = validator.StripSpaces(input.Phone)
	input.SessionID = strings.TrimSpace(input.SessionID)

	if err := validator.Struct(input); err != nil {
		s.metrics.IncSubmission(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	id := input.SessionID
	if id == "" {
		var err error
		if id, err = s.idGenerator.Generate(); err != nil {
			return nil, fmt.Errorf("generate session id failed: %w", err)
		}
	}

	registration := &domain.Registration{
		SessionID: id,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Status:    s.initialStatus,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.Create(storeCtx, registration)
	s.metrics.ObserveStore("create", start)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			s.metrics.IncSubmission(metrics.ResultSessionTaken)
			return nil, ErrSessionTaken
		}

		err = classifyStoreError(err)
		if errors.Is(err, ErrNetworkUnavailable) {
			s.metrics.IncSubmission(metrics.ResultNetwork)
		} else {
			s.metrics.IncSubmission(metrics.ResultRejected)
		}
		logger.Error("registration store write failed", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	s.metrics.IncSubmission(metrics.ResultOK)
	logger.Info("registration submitted", zap.String("session_id", id), zap.String("status", string(registration.Status)))

	return s.session(id, registration.Status)
}

func (s *registrationService) Get(ctx context.Context, sessionID string) (*domain.Registration, error) {
	if !sessionid.Valid(sessionID) {
		return nil, ErrRegistrationNotFound
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	start := time.Now()
	registration, err := s.repo.GetBySessionID(storeCtx, sessionID)
	s.metrics.ObserveStore("get", start)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, classifyStoreError(err)
	}

	return registration, nil
}

// ListPending returns records an enrollment device may still attach to.
// An empty status means waiting_for_external_attachment.
func (s *registrationService) ListPending(ctx context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error) {
	if status == "" {
		status = domain.StatusWaitingForExternalAttachment
	}
	if !status.IsInitial() {
		return nil, ErrInvalidStatus
	}
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	start := time.Now()
	registrations, err := s.repo.ListByStatus(storeCtx, status, limit)
	s.metrics.ObserveStore("list", start)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupported) {
			return nil, ErrUnsupported
		}
		return nil, classifyStoreError(err)
	}

	return registrations, nil
}

// Attach completes a registration on behalf of an enrollment device. A second
// attach to the same session is rejected and leaves the record untouched.
func (s *registrationService) Attach(ctx context.Context, input AttachInput) (*domain.Registration, error) {
	input.ExternalRef = strings.TrimSpace(input.ExternalRef)

	if err := validator.Struct(input); err != nil {
		s.metrics.IncAttachment(metrics.ResultInvalid)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.Attach(storeCtx, input.SessionID, input.ExternalRef, input.DeviceID, s.now().UTC().Truncate(time.Millisecond))
	s.metrics.ObserveStore("attach", start)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.metrics.IncAttachment(metrics.ResultNotFound)
			return nil, ErrRegistrationNotFound
		case errors.Is(err, domain.ErrAlreadyAttached):
			s.metrics.IncAttachment(metrics.ResultAlreadyDone)
			return nil, ErrAlreadyAttached
		case errors.Is(err, domain.ErrUnsupported):
			return nil, ErrUnsupported
		}

		err = classifyStoreError(err)
		if errors.Is(err, ErrNetworkUnavailable) {
			s.metrics.IncAttachment(metrics.ResultNetwork)
		} else {
			s.metrics.IncAttachment(metrics.ResultRejected)
		}
		return nil, err
	}
	s.metrics.IncAttachment(metrics.ResultOK)

	logger.Info("registration attached",
		zap.String("session_id", input.SessionID),
		zap.String("device_id", input.DeviceID),
	)

	registration, err := s.repo.GetBySessionID(storeCtx, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("read attached registration failed: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.RegistrationCompleted(ctx, registration); err != nil {
			logger.Warn("notify registration completed failed", zap.String("session_id", input.SessionID), zap.Error(err))
		}
	}

	return registration, nil
}

func (s *registrationService) Ping(ctx context.Context) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.repo.Ping(storeCtx)
}

// classifyStoreError maps a store failure to what the kiosk may show. Only a
// store's own rejection message is passed through; other failures keep their
// detail in the log and reach the user as a rejection without a reason.
func classifyStoreError(err error) error {
	var rejected *repository.DeviceRejectedError
	if errors.As(err, &rejected) {
		return &StoreRejectedError{Reason: rejected.Reason}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, domain.ErrStoreUnavailable) ||
		errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", ErrNetworkUnavailable, err)
	}

	logger.Error("unexpected store error", zap.Error(err))

	return &StoreRejectedError{}
}
