package domain

import "errors"

var (
	ErrDuplicateEntry  = errors.New("duplicate entry")
	ErrNotFound        = errors.New("not found")
	ErrNoRowsAffected  = errors.New("no rows affected")
	ErrAlreadyAttached = errors.New("external reference already attached")
	ErrUnsupported     = errors.New("operation not supported by store")
	// ErrStoreUnavailable marks a store that answered with a non-success response.
	ErrStoreUnavailable = errors.New("store returned a non-success response")
)
