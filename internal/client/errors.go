package client

import (
	"errors"
	"fmt"
)

// ErrNotRunning is returned by Invoke before Start or after Shutdown.
var ErrNotRunning = errors.New("worker is not running")

// HandshakeError means the worker never produced a valid readiness line.
// Fatal to Start.
type HandshakeError struct {
	Line string
	Err  error
}

func (e *HandshakeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("worker handshake failed: %v", e.Err)
	}
	return fmt.Sprintf("unexpected worker handshake: %q", e.Line)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// ProtocolError means the worker broke the framing contract: no line, an
// empty line, or unparseable JSON. The session may continue with a new
// Invoke.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// CorrelationError means a well-formed response arrived with the wrong id.
type CorrelationError struct {
	Sent string
	Got  string
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("response id %q does not match request id %q", e.Got, e.Sent)
}

// RemoteError carries the worker's error message verbatim.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }
