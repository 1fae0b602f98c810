package domain

import (
	"encoding/json"
	"time"
)

type RegistrationStatus string

const (
	StatusPending                      RegistrationStatus = "pending"
	StatusWaitingForExternalAttachment RegistrationStatus = "waiting_for_external_attachment"
	StatusActive                       RegistrationStatus = "active"
	StatusError                        RegistrationStatus = "error"
)

// AttachableStatuses are the states an enrollment device may complete.
var AttachableStatuses = []RegistrationStatus{StatusPending, StatusWaitingForExternalAttachment}

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusWaitingForExternalAttachment, StatusActive, StatusError:
		return true
	}
	return false
}

// IsInitial reports whether a kiosk may create a record in this status.
func (s RegistrationStatus) IsInitial() bool {
	return s == StatusPending || s == StatusWaitingForExternalAttachment
}

func (s RegistrationStatus) CanAttach() bool {
	return s.IsInitial()
}

// Registration is keyed by SessionID for its whole life. The kiosk writes the
// contact fields once at creation; ExternalRef, DeviceID and AttachedAt are
// written once by the enrollment device.
type Registration struct {
	SessionID   string             `json:"session_id" db:"session_id"`
	Name        string             `json:"name" db:"name"`
	Email       string             `json:"email" db:"email"`
	Phone       string             `json:"phone" db:"phone"`
	Status      RegistrationStatus `json:"status" db:"status"`
	ExternalRef *string            `json:"external_ref,omitempty" db:"external_ref"`
	DeviceID    *string            `json:"device_id,omitempty" db:"device_id"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at"`
	AttachedAt  *time.Time         `json:"attached_at,omitempty" db:"attached_at"`
}

// Timestamp is the creation time in unix milliseconds, as carried on the wire.
func (r *Registration) Timestamp() int64 {
	return r.CreatedAt.UnixMilli()
}

// MarshalJSON adds the wire timestamp next to the stored fields.
func (r Registration) MarshalJSON() ([]byte, error) {
	type registration Registration

	return json.Marshal(struct {
		registration
		Timestamp int64 `json:"timestamp"`
	}{
		registration: registration(r),
		Timestamp:    r.Timestamp(),
	})
}
