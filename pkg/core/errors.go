package core

import "fmt"

// Error is the base error type of the package. Both ConfigurationError and
// RuntimeConfigurationError wrap it, so errors.As(err, &*Error) matches either.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

// ConfigurationError reports malformed user input: duplicate names or
// aliases, unknown DSN schemes, unsupported values, exclusive flags combined.
type ConfigurationError struct {
	Err *Error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Err.Msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// RuntimeConfigurationError reports a problem only discoverable once the
// server is running, e.g. the in-package stub used where the real server
// entry point is expected.
type RuntimeConfigurationError struct {
	Err *Error
}

func (e *RuntimeConfigurationError) Error() string {
	return "runtime configuration error: " + e.Err.Msg
}

func (e *RuntimeConfigurationError) Unwrap() error {
	return e.Err
}

// Errorf returns a *ConfigurationError with a formatted message.
func Errorf(format string, args ...interface{}) error {
	return &ConfigurationError{Err: &Error{Msg: fmt.Sprintf(format, args...)}}
}

// RuntimeErrorf returns a *RuntimeConfigurationError with a formatted message.
func RuntimeErrorf(format string, args ...interface{}) error {
	return &RuntimeConfigurationError{Err: &Error{Msg: fmt.Sprintf(format, args...)}}
}
