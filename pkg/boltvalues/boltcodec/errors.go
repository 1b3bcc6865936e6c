package boltcodec

import "fmt"

// ProtocolViolationError reports a malformed frame, a wrong struct field
// count, or an unknown/disallowed signature.
type ProtocolViolationError struct {
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	return fmt.Sprintf("boltcodec: protocol violation: %s", e.Reason)
}

func violation(format string, args ...any) error {
	return &ProtocolViolationError{Reason: fmt.Sprintf(format, args...)}
}
