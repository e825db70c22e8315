// Package errcode defines the errno-family result codes that cross the
// wire and the public API of this module, and the fault barrier that
// converts panics into one of them.
package errcode

import (
	"fmt"
	"syscall"
)

// Code is an errno-family result code. Zero means success. Non-zero
// values are the numeric syscall.Errno values for the corresponding
// condition, so the integer that crosses the wire agrees with what a
// POSIX errno-based peer would produce for the same condition.
type Code int32

const (
	OK Code = 0

	InvalidArgument             = Code(syscall.EINVAL)
	NotConnected                = Code(syscall.ENOTCONN)
	TimedOut                    = Code(syscall.ETIMEDOUT)
	OperationNotSupported       = Code(syscall.EOPNOTSUPP)
	ConnectionAlreadyInProgress = Code(syscall.EALREADY)
	BadMessage                  = Code(syscall.EBADMSG)
	ResultOutOfRange            = Code(syscall.ERANGE)
	OperationNotPermitted       = Code(syscall.EPERM)
	StateNotRecoverable         = Code(syscall.ENOTRECOVERABLE)
)

var codeText = map[Code]string{
	OK:                          "ok",
	InvalidArgument:             "invalid argument",
	NotConnected:                "not connected",
	TimedOut:                    "timed out",
	OperationNotSupported:       "operation not supported",
	ConnectionAlreadyInProgress: "connection already in progress",
	BadMessage:                  "bad message",
	ResultOutOfRange:            "result out of range",
	OperationNotPermitted:       "operation not permitted",
	StateNotRecoverable:         "state not recoverable",
}

// Text returns a short description of the code, or "" if unknown.
func (c Code) Text() string {
	return codeText[c]
}

// Error pairs a Code with a message and satisfies the error interface,
// so a Code can travel wherever an error is expected, matching the
// "leading error code" wire convention.
type Error struct {
	Code Code
	Msg  string
}

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.Text()
	}
	return fmt.Sprintf("%s: %s", e.Code.Text(), e.Msg)
}

// CodeOf extracts the Code carried by err, defaulting to
// StateNotRecoverable for any error not produced by this package and
// to OK for a nil error.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return StateNotRecoverable
}

// ProtectedCall runs fn, recovering any panic and reporting it as
// StateNotRecoverable instead of letting it cross the caller's API
// boundary. This is the fault barrier every public client operation
// and every server task invocation is wrapped in.
func ProtectedCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = New(StateNotRecoverable, fmt.Sprintf("panic: %v", r))
		}
	}()
	return fn()
}
