package aggregates

import (
	"errors"
	"strings"
)

// ErrorCode classifies an aggregate failure. Transports map codes to their own
// status vocabulary.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeForbidden          ErrorCode = "forbidden"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error carries a code plus the operation that failed. Reason narrows a
// code for clients, e.g. "lesson_locked" under CodeForbidden.
type Error struct {
	Code    ErrorCode
	Reason  string
	Op      string
	Message string
	Cause   error
}

// Error renders "op: message (code)", dropping whichever parts are empty.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	head := make([]string, 0, 2)
	if op := strings.TrimSpace(e.Op); op != "" {
		head = append(head, op)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		head = append(head, msg)
	}
	if len(head) == 0 {
		return string(e.Code)
	}
	return strings.Join(head, ": ") + " (" + string(e.Code) + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// NewForbidden builds a CodeForbidden error with a machine-readable reason.
func NewForbidden(op, reason, message string) error {
	e := NewError(CodeForbidden, op, message, nil).(*Error)
	e.Reason = strings.TrimSpace(reason)
	return e
}

// Wrap gives err a code, keeping it as the cause.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// AsError finds the first aggregate error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code && code != ""
}

// CodeOf returns err's aggregate code, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// ReasonOf returns the reason on err, falling back to its code.
func ReasonOf(err error) string {
	e, ok := AsError(err)
	if !ok {
		return ""
	}
	if r := strings.TrimSpace(e.Reason); r != "" {
		return r
	}
	return string(e.Code)
}
