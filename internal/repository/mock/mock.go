package mock_repository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vibe-gaming/enrollment/internal/domain"
)

type Registrations struct {
	mock.Mock
}

func (m *Registrations) Create(ctx context.Context, r *domain.Registration) error {
	args := m.Called(ctx, r)

	return args.Error(0)
}

func (m *Registrations) GetBySessionID(ctx context.Context, sessionID string) (*domain.Registration, error) {
	args := m.Called(ctx, sessionID)

	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *Registrations) ListByStatus(ctx context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error) {
	args := m.Called(ctx, status, limit)

	list, _ := args.Get(0).([]domain.Registration)
	return list, args.Error(1)
}

func (m *Registrations) Attach(ctx context.Context, sessionID string, externalRef string, deviceID string, at time.Time) error {
	args := m.Called(ctx, sessionID, externalRef, deviceID, at)

	return args.Error(0)
}

func (m *Registrations) Ping(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

type CompletionNotifier struct {
	mock.Mock
}

func (m *CompletionNotifier) RegistrationCompleted(ctx context.Context, r *domain.Registration) error {
	args := m.Called(ctx, r)

	return args.Error(0)
}
