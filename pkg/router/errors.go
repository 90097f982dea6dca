package router

import (
	vperrors "github.com/vango-dev/vpbrowse/internal/errors"
)

// Sentinel errors. Match them with errors.Is; returned errors carry the
// same code plus detail about the failing path or pattern.
var (
	// ErrUnroutable is reported when no route accepts a logical path.
	ErrUnroutable = vperrors.New("E101")

	// ErrInvalidPattern is returned by Pattern for a regexp that does not compile.
	ErrInvalidPattern = vperrors.New("E102")

	// ErrAlreadyStarted is returned by Start on a router that is running.
	ErrAlreadyStarted = vperrors.New("E103")

	// ErrHistory is returned by NavigateTo when the history entry could not
	// be pushed.
	ErrHistory = vperrors.New("E104")
)
