package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/vibe-gaming/enrollment/pkg/validator"
)

type SendEmailInput struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(input SendEmailInput) error
}

// GenerateBodyFromTemplate renders the named template of t into the email body.
func (e *SendEmailInput) GenerateBodyFromTemplate(t *template.Template, name string, data interface{}) error {
	buf := new(bytes.Buffer)
	if err := t.ExecuteTemplate(buf, name, data); err != nil {
		return fmt.Errorf("email data injection failed: %w", err)
	}

	e.Body = buf.String()

	return nil
}

func (e *SendEmailInput) Validate() error {
	if e.To == "" {
		return errors.New("empty to")
	}

	if e.Subject == "" || e.Body == "" {
		return errors.New("empty subject/body")
	}

	if !validator.IsEmail(e.To) {
		return errors.New("invalid to email")
	}

	return nil
}
