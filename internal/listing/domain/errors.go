package domain

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrBrandNotFound   = errors.New("brand not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidInput    = errors.New("invalid input data")
	ErrForbidden       = errors.New("user not authorized to perform this action")

	// ErrRemoteQuery marks a failed listing store query. Callers get an empty
	// result next to it, never partial data.
	ErrRemoteQuery = errors.New("listing query failed")

	// ErrUnauthenticated is returned when an operation needs a viewer and the
	// request has none.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAuthExpired is the structured form of a stale session reported by a
	// backend. Adapters wrap driver errors with it when they can tell.
	ErrAuthExpired = errors.New("session expired")
	// ErrStoreCredentials means the service's own store credential was
	// rejected. It says nothing about the viewer's session.
	ErrStoreCredentials = errors.New("store rejected service credentials")

	ErrTogglePending = errors.New("favorite toggle already in progress")
)
