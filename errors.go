package upipe

import (
	"errors"
	"fmt"
)

// Code is a closed set of error categories returned by pipe operations.
// Every error a pipe or manager returns across the input/control/manager-
// control surface maps to exactly one Code.
type Code int

const (
	// CodeNone indicates success; Err with CodeNone is never returned.
	CodeNone Code = iota

	// CodeUnknown is an unclassified internal error.
	CodeUnknown

	// CodeAllocation means a umem, udict or ubuf allocation failed.
	CodeAllocation

	// CodeUpump means the pump scheduler could not arm or service a pump.
	CodeUpump

	// CodeExternal wraps an error surfaced by the OS (a syscall, fd, or
	// network error).
	CodeExternal

	// CodeInvalid means an argument (often a flow-def) was malformed or
	// incompatible with the pipe's current configuration.
	CodeInvalid

	// CodeBusy means the operation would have blocked: a ubuf map-write on
	// shared payload, or a sink queue at capacity.
	CodeBusy

	// CodeUnhandled means no pipe or manager in the chain recognized the
	// control command.
	CodeUnhandled
)

// String renders the Code the way log lines and Error.Error render it.
func (c Code) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeUnknown:
		return "unknown"
	case CodeAllocation:
		return "allocation"
	case CodeUpump:
		return "upump"
	case CodeExternal:
		return "external"
	case CodeInvalid:
		return "invalid"
	case CodeBusy:
		return "busy"
	case CodeUnhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// Error is the structured error type returned from pipe, manager and
// helper operations. It carries enough context for a probe's log adapter
// to print a useful line without the caller needing to re-derive it.
type Error struct {
	// Op is the operation that failed, e.g. "input", "control.SET-FLOW-DEF".
	Op string

	// Code is the closed error category this failure maps to.
	Code Code

	// Signature identifies the pipe or manager that raised the error, if
	// known. Zero means unset.
	Signature uint32

	// Msg is a human-readable description.
	Msg string

	// Inner is the wrapped cause, if any.
	Inner error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Op == "" {
		return fmt.Sprintf("upipe: %s", msg)
	}
	return fmt.Sprintf("upipe: %s: %s", e.Op, msg)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is reports whether target is an *Error with the same Code, so callers
// can write errors.Is(err, &upipe.Error{Code: upipe.CodeBusy}).
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok || te == nil {
		return false
	}
	return e.Code == te.Code
}

// NewError builds an *Error for a given operation and code.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// WrapError attaches an operation name and code to an existing error,
// preserving it as Inner for errors.Unwrap.
func WrapError(op string, code Code, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ue, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: code, Signature: ue.Signature, Msg: ue.Msg, Inner: ue}
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is (or wraps) an *Error with the given Code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

var (
	// ErrPipeClosed is returned by pipe-adjacent io operations once a
	// pipe's context has been cancelled.
	ErrPipeClosed = NewError("pipe", CodeExternal, "pipe is closed")

	// ErrFlowFormatMismatch is returned when a ubuf's flow definition does
	// not match the uref carrying it, violating the core invariant that a
	// uref's payload must be compatible with its own flow-def.
	ErrFlowFormatMismatch = NewError("uref", CodeInvalid, "ubuf incompatible with flow definition")
)
