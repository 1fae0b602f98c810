package service

import (
	"context"

	"github.com/vibe-gaming/enrollment/internal/config"
	"github.com/vibe-gaming/enrollment/internal/domain"
	"github.com/vibe-gaming/enrollment/internal/metrics"
	"github.com/vibe-gaming/enrollment/internal/repository"
	"github.com/vibe-gaming/enrollment/pkg/sessionid"
)

type Services struct {
	Registrations Registrations
}

type Deps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	IDGenerator sessionid.Generator
	Metrics     *metrics.Metrics
	Notifier    CompletionNotifier
}

func NewServices(deps Deps) (*Services, error) {
	registrations, err := newRegistrationService(
		deps.Repos.Registrations,
		deps.IDGenerator,
		deps.Notifier,
		deps.Metrics,
		deps.Config,
	)
	if err != nil {
		return nil, err
	}

	return &Services{
		Registrations: registrations,
	}, nil
}

// Registrations is the session handoff between a kiosk and an enrollment device.
type Registrations interface {
	NewSession(ctx context.Context) (*Session, error)
	Submit(ctx context.Context, input SubmitInput) (*Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Registration, error)
	ListPending(ctx context.Context, status domain.RegistrationStatus, limit int) ([]domain.Registration, error)
	Attach(ctx context.Context, input AttachInput) (*domain.Registration, error)
	Ping(ctx context.Context) error
}

// CompletionNotifier is told about every registration that became active.
type CompletionNotifier interface {
	RegistrationCompleted(ctx context.Context, registration *domain.Registration) error
}
