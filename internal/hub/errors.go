package hub

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("hub is closed")

// TransportError reports a datagram that could not be sent, even after the
// outbound socket was re-created.
type TransportError struct {
	Host string
	Op   string // "send", "reopen", "resolve"
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s to %s failed: %v", e.Op, e.Host, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
