package brane

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("invalid steering configuration")
	// ErrInput is matched by every *InputError via errors.Is.
	ErrInput = errors.New("invalid input")
)

// ConfigurationError is returned when a SteeringProfile violates one of
// its cross-field invariants. It is never recovered internally.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "steering: " + e.Reason
	}
	return fmt.Sprintf("steering: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InputError reports an image or displacement grid that cannot be used.
type InputError struct {
	Op     string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	msg := e.Op + ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InputError) Is(target error) bool { return target == ErrInput }

func (e *InputError) Unwrap() error { return e.Err }

func inputErr(op, format string, args ...interface{}) error {
	return &InputError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
