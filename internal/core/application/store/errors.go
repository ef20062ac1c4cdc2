package store

import "errors"

var (
	// ErrUnknownEvent is returned when parsing a message with an unknown tag
	ErrUnknownEvent = errors.New("unknown event")
	// ErrMalformedPayload is returned when a message payload cannot be
	// decoded into its event
	ErrMalformedPayload = errors.New("malformed event payload")
	// ErrUnknownSyncStatus ...
	ErrUnknownSyncStatus = errors.New("unknown transactions sync status")
)
