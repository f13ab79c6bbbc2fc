package client

import "errors"

var (
	// ErrDaemonNotRunning is returned when nothing listens on the socket.
	ErrDaemonNotRunning = errors.New("battpanel server not running")

	// ErrPermissionDenied is returned when the user may not open the socket.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when the server answers 404.
	ErrNotFound = errors.New("404 not found")
)
