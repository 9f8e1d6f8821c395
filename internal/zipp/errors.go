package zipp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/zipp/internal/hub"
)

// Error types for session operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeValidation indicates a caller-supplied value outside the protocol range
	ErrTypeValidation ErrorType = iota
	// ErrTypeTransport indicates the packet could not be sent
	ErrTypeTransport
	// ErrTypeNotReady indicates the session lacks data the command depends on
	ErrTypeNotReady
	// ErrTypeClosed indicates the session has been closed
	ErrTypeClosed
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeNotReady:
		return "Not Ready"
	case ErrTypeClosed:
		return "Session Closed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// CommandError is returned by session commands. No packet has been sent
// unless Type is ErrTypeTransport.
type CommandError struct {
	Type    ErrorType // Category of error
	Op      string    // Command name, e.g. "set volume"
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Op, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *CommandError) Unwrap() error {
	return e.Err
}

func newValidationError(op, format string, args ...any) *CommandError {
	return &CommandError{Type: ErrTypeValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

func newNotReadyError(op, message string) *CommandError {
	return &CommandError{Type: ErrTypeNotReady, Op: op, Message: message}
}

func newTransportError(op string, err error) *CommandError {
	return &CommandError{Type: ErrTypeTransport, Op: op, Message: "send failed", Err: err}
}

func newClosedError(op string) *CommandError {
	return &CommandError{Type: ErrTypeClosed, Op: op, Message: "session is closed"}
}

func isType(err error, t ErrorType) bool {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrTypeValidation)
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	return isType(err, ErrTypeTransport)
}

// IsNotReadyError checks if an error is a not-ready error
func IsNotReadyError(err error) bool {
	return isType(err, ErrTypeNotReady)
}

// IsClosedError checks if an error is a closed-session error
func IsClosedError(err error) bool {
	return isType(err, ErrTypeClosed)
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var ce *CommandError
	if !errors.As(err, &ce) {
		return "An unexpected error occurred. Please try again."
	}

	switch ce.Type {
	case ErrTypeTransport:
		hint := []string{
			"The command could not be sent.",
			"Troubleshooting:",
			"  • Check that this machine is on the same network as the speaker",
		}
		var te *hub.TransportError
		if errors.As(err, &te) && te.Op == "resolve" {
			hint = append(hint, "  • Use the speaker's IP address instead of its hostname")
		}
		return strings.Join(hint, "\n")

	case ErrTypeNotReady:
		return strings.Join([]string{
			"The speaker has not reported the data this command needs yet.",
			"Troubleshooting:",
			"  • Wait a few seconds for the speaker to answer and retry",
			"  • Run 'zipp info' to check the speaker is awake",
		}, "\n")

	case ErrTypeValidation:
		return "The value is outside the range the speaker accepts. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var ce *CommandError
	if !errors.As(err, &ce) {
		return err.Error()
	}

	switch ce.Type {
	case ErrTypeTransport:
		return "Could not reach speaker - check network connection"
	case ErrTypeClosed:
		return "Session closed"
	default:
		return ce.Message
	}
}
