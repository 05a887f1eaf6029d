// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-vsock.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrAddressFamilyMismatch = fmt.Errorf("address family mismatch")
	ErrResourceExhausted     = fmt.Errorf("resource exhausted")
	ErrConnectionRefused     = fmt.Errorf("connection refused")
	ErrNoRoute               = fmt.Errorf("no route to peer")
	ErrTimeout               = fmt.Errorf("operation timeout")
	ErrAddressInUse          = fmt.Errorf("address in use")
	ErrNotConnected          = fmt.Errorf("not connected")
	ErrConnectionReset       = fmt.Errorf("connection reset by peer")
	ErrBrokenPipe            = fmt.Errorf("broken pipe")
	ErrWouldBlock            = fmt.Errorf("operation would block")
	ErrProtocolViolation     = fmt.Errorf("protocol violation")
	ErrNotSupported          = fmt.Errorf("operation not supported")
	ErrInvalidArgument       = fmt.Errorf("invalid argument")
	ErrInvalidState          = fmt.Errorf("invalid handle state")
	ErrTransportClosed       = fmt.Errorf("transport is closed")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeAddressFamilyMismatch
	ErrCodeResourceExhausted
	ErrCodeConnectionRefused
	ErrCodeNoRoute
	ErrCodeTimeout
	ErrCodeAddressInUse
	ErrCodeNotConnected
	ErrCodeConnectionReset
	ErrCodeBrokenPipe
	ErrCodeWouldBlock
	ErrCodeProtocolViolation
	ErrCodeNotSupported
	ErrCodeInvalidArgument
	ErrCodeInvalidState
	ErrCodeTransportClosed
	ErrCodeInternal
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeAddressFamilyMismatch: ErrAddressFamilyMismatch,
	ErrCodeResourceExhausted:     ErrResourceExhausted,
	ErrCodeConnectionRefused:     ErrConnectionRefused,
	ErrCodeNoRoute:               ErrNoRoute,
	ErrCodeTimeout:               ErrTimeout,
	ErrCodeAddressInUse:          ErrAddressInUse,
	ErrCodeNotConnected:          ErrNotConnected,
	ErrCodeConnectionReset:       ErrConnectionReset,
	ErrCodeBrokenPipe:            ErrBrokenPipe,
	ErrCodeWouldBlock:            ErrWouldBlock,
	ErrCodeProtocolViolation:     ErrProtocolViolation,
	ErrCodeNotSupported:          ErrNotSupported,
	ErrCodeInvalidArgument:       ErrInvalidArgument,
	ErrCodeInvalidState:          ErrInvalidState,
	ErrCodeTransportClosed:       ErrTransportClosed,
}

// Sentinel returns the sentinel error for code, or nil for ErrCodeOK and
// ErrCodeInternal.
func (c ErrorCode) Sentinel() error {
	return codeSentinels[c]
}

// String returns the sentinel message for the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInternal:
		return "internal error"
	}
	if s := codeSentinels[c]; s != nil {
		return s.Error()
	}
	return fmt.Sprintf("error code %d", int(c))
}

// CodeOf classifies err by walking its wrap chain. Unknown errors map to
// ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	for code, sentinel := range codeSentinels {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrCodeInternal
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if s := e.Code.Sentinel(); s != nil && msg != s.Error() {
		msg = s.Error() + ": " + msg
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Is lets errors.Is match a structured error against its sentinel.
func (e *Error) Is(target error) bool {
	s := e.Code.Sentinel()
	return s != nil && s == target
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
