package service

import (
	"errors"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrNetworkUnavailable   = errors.New("backing store unreachable")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrAlreadyAttached      = errors.New("registration already attached")
	ErrSessionTaken         = errors.New("session id already used")
	ErrInvalidStatus        = errors.New("status cannot be listed for attachment")
	ErrUnsupported          = errors.New("operation not supported by the configured store")
)

// StoreRejectedError means the backing store refused the write, e.g. for
// permissions or quota. Reason is shown to the user as is.
type StoreRejectedError struct {
	Reason string
}

func (e *StoreRejectedError) Error() string {
	return "store rejected: " + e.Reason
}
