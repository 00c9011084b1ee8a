package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrRegistrySealed is returned by Register once the registration phase is over.
	ErrRegistrySealed = errors.New("registry is sealed")

	// ErrSessionNotInitialized is returned for list/call before the handshake.
	ErrSessionNotInitialized = errors.New("session not initialized")

	// ErrSessionClosed is returned for any operation on a closed session.
	ErrSessionClosed = errors.New("session closed")
)

// NotFoundError is returned when a tool name is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool '%s' not found", e.Name)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// DuplicateNameError is returned when a descriptor's exposed name is already
// taken. It is fatal during startup.
type DuplicateNameError struct {
	Name     string
	Existing Kind
	Incoming Kind
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate tool name %q: %s adapter collides with already registered %s adapter", e.Name, e.Incoming, e.Existing)
}

// IsDuplicateName reports whether err is or wraps a DuplicateNameError.
func IsDuplicateName(err error) bool {
	var dup *DuplicateNameError
	return errors.As(err, &dup)
}

// RegistrationError records a candidate that could not be turned into a
// descriptor. The candidate is skipped; registration continues.
type RegistrationError struct {
	Name string
	Err  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %s: %v", e.Name, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
