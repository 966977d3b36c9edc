// Package errs defines the error taxonomy shared by the resolver, the
// command synthesizer and the public API.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotCallable is returned when a nil callback is bound to a command.
var ErrNotCallable = errors.New("callback must be callable")

// ConfigurationError reports a problem with the configuration source: a
// missing or unreadable input, a syntax error, an unknown tag, a malformed
// !obj reference or an invalid parameter declaration.
type ConfigurationError struct {
	// Source names the file or input the error came from (may be empty)
	Source string

	// Reason explains what is wrong
	Reason string

	// Cause is the underlying error, if any
	Cause error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Source != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Source)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Configf builds a ConfigurationError without a cause.
func Configf(source, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Source: source, Reason: fmt.Sprintf(format, args...)}
}

// ConfigWrap builds a ConfigurationError around cause. A nil cause yields nil.
func ConfigWrap(cause error, source, reason string) error {
	if cause == nil {
		return nil
	}
	return &ConfigurationError{Source: source, Reason: reason, Cause: cause}
}

// NotFoundError reports a lookup of a name that does not exist.
type NotFoundError struct {
	// Resource is the kind of thing looked up (e.g. "command", "type")
	Resource string

	// ID is the name that was not found
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// MissingValueError is returned when a declared parameter has no entry in
// the values handed to a command at invocation time.
type MissingValueError struct {
	Command string
	Key     string
}

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("command %s: no value for parameter %q", e.Command, e.Key)
}

// Wrap adds context to err. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to err. If err is nil, returns nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsConfiguration reports whether err contains a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsNotFound reports whether err contains a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
