package pushclient

import "errors"

var (
	// ErrUnsupported: the platform lacks worker or notification support.
	// Terminal, nothing to retry.
	ErrUnsupported = errors.New("push unsupported")
	// ErrPermissionDenied: terminal until the user resets the permission
	// outside this system.
	ErrPermissionDenied = errors.New("notification permission denied")
	// ErrRegistration: the worker script failed to register.
	ErrRegistration = errors.New("worker registration failed")
	// ErrServer: the subscription endpoint was unreachable or returned a
	// non-success status. The caller may re-run the whole flow.
	ErrServer = errors.New("subscription server error")
)
