// Package domainerrors defines the closed set of error codes the domain and
// service layers use to classify failures. Handlers map codes to HTTP status;
// callers branch with HasCode instead of string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeValidation marks malformed or out-of-range input to a value
	// object: empty or overlong text, bad date ranges, malformed placa or
	// numero de cuenta, disallowed characters, unsafe content.
	CodeValidation Code = "validation"

	// CodePrecondition marks a command attempted from an illegal state:
	// wrong estado, active process present, inactive account, anterior
	// process forbids the transition.
	CodePrecondition Code = "precondition"

	// CodeInvariantViolation marks an internal coherence failure detected
	// while rehydrating an entity. It signals corrupt persisted data or a
	// bug, never a user mistake.
	CodeInvariantViolation Code = "invariant_violation"

	CodeNotFound Code = "not_found"
	CodeConflict Code = "conflict"
	CodeTimeout  Code = "timeout"
	CodeInternal Code = "internal"
)

// Error carries a code plus a human-readable, user-facing reason. The reason
// is meaningful on its own: calling UIs surface it verbatim to guide the
// user, so it must distinguish the specific cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with a fixed message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is/As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is delegates to errors.Is; kept so call sites depending on this package
// don't also need to import errors.
func Is(err, target error) bool { return errors.Is(err, target) }
