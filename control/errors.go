package control

import (
	"errors"
	"fmt"
)

// GetInfoKeyError is implemented by the three local key-validation error
// kinds. Callers can type-switch or errors.As into the
// specific kind to decide how to react.
type GetInfoKeyError interface {
	error
	getInfoKey() string
}

// ErrUnsupportedKey is returned when a GETINFO key is recognized but
// explicitly marked not supported by this client.
type ErrUnsupportedKey struct{ Key string }

func (e *ErrUnsupportedKey) Error() string  { return fmt.Sprintf("getinfo: unsupported key %q", e.Key) }
func (e *ErrUnsupportedKey) getInfoKey() string { return e.Key }

// ErrDeprecatedKey is returned when a GETINFO key maps to a deprecated
// entry in the capability table.
type ErrDeprecatedKey struct{ Key string }

func (e *ErrDeprecatedKey) Error() string  { return fmt.Sprintf("getinfo: deprecated key %q", e.Key) }
func (e *ErrDeprecatedKey) getInfoKey() string { return e.Key }

// ErrUnknownKey is returned when a GETINFO key has no entry (exact or
// longest-prefix) in the capability table at all.
type ErrUnknownKey struct{ Key string }

func (e *ErrUnknownKey) Error() string  { return fmt.Sprintf("getinfo: unknown key %q", e.Key) }
func (e *ErrUnknownKey) getInfoKey() string { return e.Key }

var (
	_ GetInfoKeyError = (*ErrUnsupportedKey)(nil)
	_ GetInfoKeyError = (*ErrDeprecatedKey)(nil)
	_ GetInfoKeyError = (*ErrUnknownKey)(nil)
)

// ProtocolError represents a 4xx/5xx reply to a submitted command, or a
// reply that failed to tokenize per the GETINFO grammar (reported with
// Code 0).
type ProtocolError struct {
	Code  int
	Lines []string
}

func (e *ProtocolError) Error() string {
	if len(e.Lines) == 0 {
		return fmt.Sprintf("control: protocol error (code %d)", e.Code)
	}
	return fmt.Sprintf("control: protocol error (code %d): %s", e.Code, e.Lines[0])
}

// ErrConnectionLost is the error every pending command's reply carries
// when the connection is closed or the transport fails, and the error a
// command submitted after that point receives. Use
// errors.Is(err, ErrConnectionLost) to detect it. The process-level error
// sink receives the transport error itself, not this sentinel.
var ErrConnectionLost = errors.New("control: connection lost")

// ErrClosed reports a closed connection. No function in this package
// returns it: commands submitted after Close fail with ErrConnectionLost.
var ErrClosed = errors.New("control: connection closed")
