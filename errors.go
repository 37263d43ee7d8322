// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the package.
var (
	ErrTransportRead    = errors.New("transport read failed")
	ErrTransportWrite   = errors.New("transport write failed")
	ErrReadTimeout      = errors.New("read timeout")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrDeviceNotReady   = errors.New("device not ready")
	ErrTransportClosed  = errors.New("transport closed")
)

// ErrorType categorizes a transport error for the retry policy.
type ErrorType int

const (
	// ErrorTypeTransient marks errors worth retrying: timeouts, short
	// reads, bus glitches.
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent marks errors retrying cannot fix: closed
	// handles, invalid parameters.
	ErrorTypePermanent
)

// TransportError wraps a transport-level failure with the operation that
// caused it and its retry classification.
type TransportError struct {
	Err  error
	Op   string
	Type ErrorType
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err as a TransportError for operation op.
func NewTransportError(op string, err error, errType ErrorType) *TransportError {
	return &TransportError{Op: op, Err: err, Type: errType}
}

// NewTimeoutError returns a transient TransportError for a timed-out
// operation.
func NewTimeoutError(op string) *TransportError {
	return &TransportError{Op: op, Err: ErrReadTimeout, Type: ErrorTypeTransient}
}

// IsRetryable reports whether err is worth retrying at the exchange level.
// Unclassified errors are treated as transient; the DS620A link recovers
// from most glitches on a clean resend.
func IsRetryable(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeTransient
	}
	if errors.Is(err, ErrTransportClosed) || errors.Is(err, ErrInvalidParameter) {
		return false
	}
	return true
}

// TransferError reports a command exchange that failed after exhausting
// its retry budget.
type TransferError struct {
	Err      error
	Command  string
	Attempts int
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed: %q after %d attempts: %v",
		e.Command, e.Attempts, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// DeviceRejectedError reports an explicit NAK/ERROR/FAIL response. The
// printer refused the command; it is never retried automatically.
type DeviceRejectedError struct {
	Command string
	Status  Status
}

func (e *DeviceRejectedError) Error() string {
	return fmt.Sprintf("device rejected %q: %s", e.Command, e.Status)
}

// PollTimeoutError reports that a status poll never reached a terminal
// state before its deadline.
type PollTimeoutError struct {
	Command    string
	LastStatus Status
	Elapsed    string
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("poll %q timed out after %s, last status %s",
		e.Command, e.Elapsed, e.LastStatus)
}
