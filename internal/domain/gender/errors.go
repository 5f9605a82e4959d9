package gender

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrResourceNotFound is returned when a name list is missing or unreadable.
	ErrResourceNotFound = errors.New("name list not found")

	// ErrEncoding is returned when a name list is not valid under the declared encoding.
	ErrEncoding = errors.New("name list encoding error")

	// ErrUnknownEncoding is returned when an encoding label cannot be resolved.
	ErrUnknownEncoding = errors.New("unknown text encoding")
)
