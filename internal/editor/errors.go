package editor

import "errors"

// Sentinel errors. These never cross the RPC boundary as a JSON error
// value: the dispatcher logs them and drops the request.
var (
	// ErrUnknownMotion is returned by Move/Delete for a motion string
	// not in the supported set.
	ErrUnknownMotion = errors.New("editor: unknown motion")

	// ErrNotImplemented is returned by delete motions that are not
	// wired up; callers treat it like any other protocol error.
	ErrNotImplemented = errors.New("editor: motion not implemented")

	// ErrReadOnly names the read-only condition. No Editor method
	// returns it: a read-only Editor discards edits silently (see
	// WithReadOnly).
	ErrReadOnly = errors.New("editor: read-only")
)
