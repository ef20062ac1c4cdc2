package dbbadger

import "errors"

var (
	// ErrRepositoryClosed ...
	ErrRepositoryClosed = errors.New("state repository is closed")
)
