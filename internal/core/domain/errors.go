// Package domain defines the core domain models for LiveWatch.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a business domain error with a structured error code.
// Error codes follow the format defined in specs/governance/error-codes.md.
//
// @req RQ-0104
// @design DS-0104
type DomainError struct {
	Code    string // Error code (e.g., "LW-NET-1001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
//
// @design DS-0104
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
//
// @design DS-0104
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
//
// @design DS-0104
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNetworkError reports whether err carries a network-family code.
// Network errors are retryable per the connection state machine.
func IsNetworkError(err error) bool {
	return strings.HasPrefix(GetErrorCode(err), "LW-NET-")
}

// IsParseError reports whether err carries a protocol-family code.
// Parse errors drop the offending unit and never abort ingestion.
func IsParseError(err error) bool {
	return strings.HasPrefix(GetErrorCode(err), "LW-PROTO-")
}

// IsSignatureError reports whether err carries a signature-family code.
// Signature errors fail the current connection attempt fast; during the
// initial connection they abort without consuming a retry slot.
func IsSignatureError(err error) bool {
	return strings.HasPrefix(GetErrorCode(err), "LW-SIGN-")
}

// ============================================================================
// Network Errors (NET)
// Reference: specs/governance/error-codes.md Section 3.1
// ============================================================================

var (
	// ErrConnectFailed indicates the socket could not be opened.
	ErrConnectFailed = NewDomainError("LW-NET-1001", "socket connect failed")

	// ErrSocketClosed indicates the socket closed while a session was running.
	ErrSocketClosed = NewDomainError("LW-NET-1002", "socket closed")

	// ErrSendFailed indicates a socket write failed.
	ErrSendFailed = NewDomainError("LW-NET-1003", "socket send failed")

	// ErrConnectExhausted indicates the bounded initial retries ran out.
	ErrConnectExhausted = NewDomainError("LW-NET-1004", "initial connection attempts exhausted")
)

// ============================================================================
// Protocol Errors (PROTO)
// Reference: specs/governance/error-codes.md Section 3.2
// ============================================================================

var (
	// ErrFrameDecode indicates the outer envelope could not be decoded.
	ErrFrameDecode = NewDomainError("LW-PROTO-2001", "frame decode failed")

	// ErrPayloadDecompress indicates the envelope payload failed to decompress.
	ErrPayloadDecompress = NewDomainError("LW-PROTO-2002", "payload decompress failed")

	// ErrBatchDecode indicates the event batch could not be decoded.
	ErrBatchDecode = NewDomainError("LW-PROTO-2003", "batch decode failed")

	// ErrEventDecode indicates an individual event payload could not be decoded.
	ErrEventDecode = NewDomainError("LW-PROTO-2004", "event decode failed")
)

// ============================================================================
// Signature Errors (SIGN)
// Reference: specs/governance/error-codes.md Section 3.3
// ============================================================================

var (
	// ErrSignatureScript indicates the signature script is missing or broken.
	ErrSignatureScript = NewDomainError("LW-SIGN-3001", "signature script unavailable")

	// ErrSignatureEval indicates the signature computation itself failed.
	ErrSignatureEval = NewDomainError("LW-SIGN-3002", "signature evaluation failed")
)

// ============================================================================
// Room Errors (ROOM)
// Reference: specs/governance/error-codes.md Section 3.4
// ============================================================================

var (
	// ErrRoomResolve indicates room resolution failed; callers fall back to
	// the degraded identity (room id = live id) rather than failing.
	ErrRoomResolve = NewDomainError("LW-ROOM-4001", "room resolution failed")

	// ErrTokenFetch indicates the auth token could not be obtained.
	ErrTokenFetch = NewDomainError("LW-ROOM-4002", "auth token fetch failed")
)

// ============================================================================
// Snapshot Errors (SNAP)
// Reference: specs/governance/error-codes.md Section 3.5
// ============================================================================

var (
	// ErrSnapshotEncode indicates the snapshot document failed to marshal.
	ErrSnapshotEncode = NewDomainError("LW-SNAP-5001", "snapshot encode failed")

	// ErrSnapshotWrite indicates the snapshot file could not be written.
	ErrSnapshotWrite = NewDomainError("LW-SNAP-5002", "snapshot write failed")

	// ErrSnapshotRead indicates a persisted snapshot could not be read back.
	ErrSnapshotRead = NewDomainError("LW-SNAP-5003", "snapshot read failed")
)

// ============================================================================
// Config Errors (CONF)
// Reference: specs/governance/error-codes.md Section 3.6
// ============================================================================

var (
	// ErrConfigLoad indicates the configuration could not be loaded.
	ErrConfigLoad = NewDomainError("LW-CONF-6001", "config load failed")

	// ErrConfigInvalid indicates the configuration failed verification.
	ErrConfigInvalid = NewDomainError("LW-CONF-6002", "invalid configuration")
)

// ============================================================================
// Session Errors (SESS)
// Reference: specs/governance/error-codes.md Section 3.7
// ============================================================================

var (
	// ErrSessionValidation indicates session field validation failed.
	ErrSessionValidation = NewDomainError("LW-SESS-7001", "session validation failed")

	// ErrSessionStopped indicates an operation on an already-stopped session.
	ErrSessionStopped = NewDomainError("LW-SESS-7002", "session already stopped")
)

// ============================================================================
// System Errors (SYS)
// Reference: specs/governance/error-codes.md Section 3.8
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewDomainError("LW-SYS-9000", "internal error")
)
