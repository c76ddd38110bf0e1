package forensic

import "errors"

// Failure taxonomy. Anything preventing a required top-level numeric score
// aborts the whole analysis; descriptive fields may degrade instead.
var (
	// ErrUnreadableImage marks an asset that could not be decoded at all.
	ErrUnreadableImage = errors.New("unreadable or corrupt image")

	// ErrHashFailure marks an I/O failure while computing the content hash.
	ErrHashFailure = errors.New("content hash could not be computed")

	// ErrTamperUnavailable marks a recompression failure. The tamper signal is
	// reported as unavailable, never defaulted to a numeric zero.
	ErrTamperUnavailable = errors.New("tamper signal unavailable")
)
