package mock_service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vibe-gaming/enrollment/internal/domain"
	"github.com/vibe-gaming/enrollment/internal/service"
)

type Registrations struct {
	mock.Mock
}

func (m *Registrations) NewSession(ctx context.Context) (*service.Session, error) {
	args := m.Called(ctx)

	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *Registrations) Submit(ctx context.Context, input service.SubmitInput) (*service.Session, error) {
	args := m.Called(ctx, input)

	session, _ := args.Get(0).(*service.Session)
	return session, args.Error(1)
}

func (m *Registrations) Get(ctx context.Context, sessionID string) (*domain.Registration, error) {
	args := m.Called(ctx, sessionID)

	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *Registrations) ListPending(ctx context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error) {
	args := m.Called(ctx, status, limit)

	regs, _ := args.Get(0).([]domain.Registration)
	return regs, args.Error(1)
}

func (m *Registrations) Attach(ctx context.Context, input service.AttachInput) (*domain.Registration, error) {
	args := m.Called(ctx, input)

	reg, _ := args.Get(0).(*domain.Registration)
	return reg, args.Error(1)
}

func (m *Registrations) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
