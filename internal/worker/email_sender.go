package worker

import (
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/vibe-gaming/enrollment/internal/config"
	emailProvider "github.com/vibe-gaming/enrollment/pkg/email"
	"github.com/vibe-gaming/enrollment/pkg/logger"

	"go.uber.org/zap"
)

const registrationCompleteTemplate = "registration_complete.html"

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

type emailSender struct {
	sender emailProvider.Sender
	config config.EmailConfig
}

func newEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
) *emailSender {
	return &emailSender{
		sender: sender,
		config: config,
	}
}

type registrationCompleteInput struct {
	Name      string
	SessionID string
}

func (s *emailSender) SendRegistrationCompleteEmail(_ context.Context, email string, name string, sessionID string) error {
	if !s.config.Enabled {
		logger.Debug("email disabled, skipping registration complete email", zap.String("session_id", sessionID))
		return nil
	}

	subject := "Registration complete"

	templateInput := registrationCompleteInput{Name: name, SessionID: sessionID}
	sendInput := emailProvider.SendEmailInput{Subject: subject, To: email}

	if err := sendInput.GenerateBodyFromTemplate(templates, registrationCompleteTemplate, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
