// Package store implements persistence and the claim workflow transitions
// over a SQLite database.
package store

import "errors"

// Sentinel errors returned by store operations. Handlers map these to HTTP
// statuses with errors.Is; everything else is an internal error.
var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the caller is not allowed to perform the
	// operation (ownership or approval guard failure).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPreconditionFailed means the row exists but is not in a state that
	// allows the transition (e.g. approving an unconfirmed claim).
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrAlreadyExists means a conflicting row already exists (e.g. a
	// duplicate pending claim by the same user).
	ErrAlreadyExists = errors.New("already exists")
)
