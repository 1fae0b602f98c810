package worker

import (
	"context"

	"github.com/vibe-gaming/enrollment/internal/config"
	emailProvider "github.com/vibe-gaming/enrollment/pkg/email"
)

type Workers struct {
	EmailSender EmailSender
}

type Deps struct {
	EmailProvider emailProvider.Sender
	Config        *config.Config
}

type EmailSender interface {
	SendRegistrationCompleteEmail(ctx context.Context, email string, name string, sessionID string) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.EmailProvider, deps.Config.Email),
	}
}
