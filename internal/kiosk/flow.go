package kiosk

import (
	"context"

	"github.com/vibe-gaming/enrollment/internal/service"
)

type Submitter interface {
	Submit(ctx context.Context, input service.SubmitInput) (*service.Session, error)
}

// Flow drives one form submission through the kiosk screens.
type Flow struct {
	registrations Submitter
}

func NewFlow(registrations Submitter) *Flow {
	return &Flow{registrations: registrations}
}

// Submit moves s through processing to success, back to the form on invalid
// input, or to the error screen. The session id of s is reused for the record
// when set.
func (f *Flow) Submit(ctx context.Context, s State, input service.SubmitInput) State {
	s = s.Submitting(input.Name, input.Email, input.Phone)
	if input.SessionID == "" {
		input.SessionID = s.SessionID
	}

	session, err := f.registrations.Submit(ctx, input)

	return s.Apply(session, err)
}
