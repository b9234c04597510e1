package sigma

import (
	"errors"
	"fmt"
)

// ErrVerification is the sentinel a caller checks with errors.Is to
// distinguish an expected proof failure (bad witness, tampered transcript,
// challenge-sum mismatch, binding mismatch, ...) from a programming error.
var ErrVerification = errors.New("sigma: verification failed")

// ErrConfiguration is the sentinel for a malformed statement or an
// incomplete witness map: these are caller bugs, raised at construction or
// at GetProver/GetVerifier time, never mid-session.
var ErrConfiguration = errors.New("sigma: invalid configuration")

// ErrProtocolState is the sentinel for an out-of-order session call, e.g.
// Respond before Commit, or a second Verify on an already-verified session.
var ErrProtocolState = errors.New("sigma: protocol called out of order")

// VerificationError wraps ErrVerification with the specific reason a proof
// or transcript failed to check out.
type VerificationError struct {
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("sigma: verification failed: %s", e.Reason)
}
func (e *VerificationError) Unwrap() error { return ErrVerification }

// NewVerificationError builds a *VerificationError with a formatted reason.
func NewVerificationError(format string, args ...interface{}) error {
	return &VerificationError{Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError wraps ErrConfiguration with the specific statement
// defect: missing witness, empty expression, lhs/expression group mismatch,
// a nil DLRNE witness secret, and so on.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("sigma: invalid configuration: %s", e.Reason)
}
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfigurationError builds a *ConfigurationError with a formatted reason.
func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ProtocolStateError wraps ErrProtocolState with the call sequence that was
// violated.
type ProtocolStateError struct {
	Reason string
}

func (e *ProtocolStateError) Error() string {
	return fmt.Sprintf("sigma: protocol called out of order: %s", e.Reason)
}
func (e *ProtocolStateError) Unwrap() error { return ErrProtocolState }

// NewProtocolStateError builds a *ProtocolStateError with a formatted reason.
func NewProtocolStateError(format string, args ...interface{}) error {
	return &ProtocolStateError{Reason: fmt.Sprintf(format, args...)}
}
