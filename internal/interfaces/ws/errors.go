package ws

import "errors"

var (
	// ErrNotConnected is returned when calling the client while no
	// connection is open.
	ErrNotConnected = errors.New("wallet client not connected")
	// ErrDisconnected is returned for the calls still pending when the
	// connection drops.
	ErrDisconnected = errors.New("wallet client disconnected")
	// ErrBridgeClosed ...
	ErrBridgeClosed = errors.New("bridge closed")
)

// RemoteError is an error returned by the wallet client for a call.
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return e.Method + ": " + e.Message
}
