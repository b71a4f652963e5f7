package client

import "errors"

var (
	// ErrDaemonNotRunning means nothing is listening on the socket.
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied means the socket exists but we may not connect to it.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound means the daemon does not know the requested path.
	ErrNotFound = errors.New("404 not found")
)
