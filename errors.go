package tyrant

import (
	"errors"
	"fmt"
)

// ProtocolError carries a non-zero status byte verbatim from the server.
// Any command whose reply begins with a status byte other than 0x00 fails
// with this error and consumes no further reply bytes for that command.
type ProtocolError struct {
	Code byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("tyrant: protocol error, status %d", e.Code)
}

// ConnectionLost means the socket closed or became unreachable. Every
// pending command fails with it, and so does every command issued after it.
type ConnectionLost struct {
	Cause error
}

func (e *ConnectionLost) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tyrant: connection lost: %v", e.Cause)
	}
	return "tyrant: connection lost"
}

func (e *ConnectionLost) Unwrap() error { return e.Cause }

// DecodeError means a reply could not be parsed: malformed UTF-8 in a
// length-prefixed string or a non-literal GET value, or a table record with
// an odd number of NUL-separated tokens. A reply cut short by the connection
// closing surfaces as ConnectionLost, not DecodeError. When a reply decoder
// returns DecodeError, byte alignment on the socket cannot be recovered, so
// the Transport closes the connection.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tyrant: decode error: %s", e.Reason)
}

// IterEnd signals that ITERNEXT returned a non-zero status. It is not a
// user-visible failure; it terminates a key iteration cleanly.
var IterEnd = errors.New("tyrant: iteration ended")

// KeyMissing is the Dictionary façade's translation of a ProtocolError
// returned by OUT/GET/VSIZ on a key that does not exist.
type KeyMissing struct {
	Key string
}

func (e *KeyMissing) Error() string {
	return fmt.Sprintf("tyrant: key missing: %q", e.Key)
}

// KeyExists is the Dictionary façade's translation of a PUTKEEP failure.
type KeyExists struct {
	Key string
}

func (e *KeyExists) Error() string {
	return fmt.Sprintf("tyrant: key exists: %q", e.Key)
}

// InvalidRange means a Query window was requested with a negative bound.
type InvalidRange struct {
	Detail string
}

func (e *InvalidRange) Error() string {
	return fmt.Sprintf("tyrant: invalid range: %s", e.Detail)
}

// UnsupportedCombination means two Q conditions were OR-combined but do not
// share an op family with an "_or" variant.
type UnsupportedCombination struct {
	Detail string
}

func (e *UnsupportedCombination) Error() string {
	return fmt.Sprintf("tyrant: unsupported OR combination: %s", e.Detail)
}

// SeparatorRequired means the Dictionary façade was asked to store or split
// a list-valued record without a configured separator.
type SeparatorRequired struct{}

func (e *SeparatorRequired) Error() string {
	return "tyrant: separator required for list-valued record"
}
