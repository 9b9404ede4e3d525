package configure

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfigurationName is the sentinel matched by every NameError.
	ErrInvalidConfigurationName = errors.New("invalid configuration name")

	// ErrEmptyProxyInterfaceSet is returned when a proxy descriptor is
	// constructed without interfaces.
	ErrEmptyProxyInterfaceSet = errors.New("proxy descriptor requires at least one interface")
)

// NameError reports a string that is not a legal qualified type name.
type NameError struct {
	// Name is the offending value, exactly as supplied
	Name string
	// Index is the position of Name in a proxy interface list, or -1
	Index int
	// Reason is a short description of the grammar violation
	Reason string
}

// Error implements the error interface
func (e *NameError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s %q at interface index %d: %s", ErrInvalidConfigurationName, e.Name, e.Index, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", ErrInvalidConfigurationName, e.Name, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidConfigurationName) hold.
func (e *NameError) Unwrap() error {
	return ErrInvalidConfigurationName
}

// InvalidName returns the offending value carried by err, if err is (or
// wraps) a *NameError.
func InvalidName(err error) (string, bool) {
	var nameErr *NameError
	if errors.As(err, &nameErr) {
		return nameErr.Name, true
	}
	return "", false
}
