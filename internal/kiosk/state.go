// Package kiosk models the browser kiosk flow as immutable values. Each
// transition returns a new State; nothing here holds process-wide state.
package kiosk

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/vibe-gaming/enrollment/internal/service"
)

type Screen string

const (
	ScreenWelcome      Screen = "welcome"
	ScreenRegistration Screen = "registration"
	ScreenProcessing   Screen = "processing"
	ScreenSuccess      Screen = "success"
	ScreenError        Screen = "error"
	ScreenEnded        Screen = "ended"
)

// Status is the short label of the kiosk status bar.
type Status string

const (
	StatusReady        Status = "Ready"
	StatusRegistration Status = "Registration Mode"
	StatusProcessing   Status = "Processing"
	StatusSuccess      Status = "Success"
	StatusError        Status = "Error"
)

const (
	MessageRequiredFields = "Please fill in all required fields."
	MessageInvalidEmail   = "Please enter a valid email address."
	MessageInvalidPhone   = "Please enter a valid phone number."
	MessageInvalidSession = "This registration link is not valid. Please start again."
	MessageNetwork        = "Network error. Please check your connection and try again."
	MessageRejected       = "Registration failed. Please try again."
	MessageSessionTaken   = "This registration session was already used. Please start again."
	MessageUnexpected     = "An unexpected error occurred. Please try again."
)

// Form field keys, matching the submit input's json names.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldSessionID = "session_id"
)

type State struct {
	Screen    Screen
	Status    Status
	SessionID string
	Name      string
	Email     string
	Phone     string
	Message   string
	// FieldErrors holds the inline message of each rejected form field.
	FieldErrors map[string]string
}

// Welcome is the first state of a kiosk session. fromQR marks entry through a
// scanned handoff url.
func Welcome(sessionID string, fromQR bool) State {
	status := StatusReady
	if fromQR {
		status = StatusRegistration
	}

	return State{Screen: ScreenWelcome, Status: status, SessionID: sessionID}
}

func (s State) StartRegistration() State {
	s.Screen = ScreenRegistration
	s.Status = StatusRegistration
	s.Message = ""
	s.FieldErrors = nil
	return s
}

func (s State) Submitting(name, email, phone string) State {
	s.Screen = ScreenProcessing
	s.Status = StatusProcessing
	s.Name = name
	s.Email = email
	s.Phone = phone
	s.Message = ""
	s.FieldErrors = nil
	return s
}

// Invalid returns to the form with the entered values kept and a message per
// rejected field.
func (s State) Invalid(err error) State {
	s.Screen = ScreenRegistration
	s.Status = StatusRegistration
	s.Message = ErrorMessage(err)
	s.FieldErrors = FieldMessages(err)
	return s
}

// Succeeded adopts the id the store accepted, which may differ from the one
// minted at welcome when none was supplied.
func (s State) Succeeded(sessionID string) State {
	s.Screen = ScreenSuccess
	s.Status = StatusSuccess
	s.SessionID = sessionID
	s.Message = ""
	return s
}

func (s State) Failed(err error) State {
	s.Screen = ScreenError
	s.Status = StatusError
	s.Message = ErrorMessage(err)
	return s
}

func (s State) Ended() State {
	s.Screen = ScreenEnded
	return s
}

// Apply runs the outcome of a submission against a processing state.
// Validation failures go back to the form; other failures end on the error screen.
func (s State) Apply(session *service.Session, err error) State {
	switch {
	case errors.Is(err, service.ErrValidation):
		return s.Invalid(err)
	case err != nil:
		return s.Failed(err)
	}
	return s.Succeeded(session.ID)
}

// FieldMessages maps each field rejected by validation to its inline message.
func FieldMessages(err error) map[string]string {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return nil
	}

	out := make(map[string]string, len(verr))
	for _, ferr := range verr {
		if _, ok := out[ferr.Field()]; ok {
			continue
		}
		out[ferr.Field()] = fieldMessage(ferr)
	}

	return out
}

func fieldMessage(ferr validator.FieldError) string {
	if ferr.Tag() == "required" {
		return MessageRequiredFields
	}

	switch ferr.Field() {
	case FieldEmail:
		return MessageInvalidEmail
	case FieldPhone:
		return MessageInvalidPhone
	case FieldSessionID:
		return MessageInvalidSession
	}
	return MessageRequiredFields
}

// validationMessage picks the single banner message of a validation failure:
// missing fields first, then the email, then the phone.
func validationMessage(err error) string {
	fields := FieldMessages(err)
	if len(fields) == 0 {
		return MessageRequiredFields
	}

	for _, msg := range fields {
		if msg == MessageRequiredFields {
			return MessageRequiredFields
		}
	}
	for _, field := range []string{FieldEmail, FieldPhone, FieldSessionID, FieldName} {
		if msg, ok := fields[field]; ok {
			return msg
		}
	}
	return MessageRequiredFields
}

// ErrorMessage turns a submission error into the text shown on the error screen.
func ErrorMessage(err error) string {
	var rejected *service.StoreRejectedError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, service.ErrNetworkUnavailable):
		return MessageNetwork
	case errors.Is(err, service.ErrSessionTaken):
		return MessageSessionTaken
	case errors.As(err, &rejected):
		if rejected.Reason == "" {
			return MessageRejected
		}
		return rejected.Reason
	default:
		return MessageUnexpected
	}
}
