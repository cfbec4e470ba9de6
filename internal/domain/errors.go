package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownID means an identifier was never observed in any archive listing.
	ErrUnknownID = errors.New("unknown drifter id")

	// ErrNotFound means an identifier resolves but its cached file is absent.
	ErrNotFound = errors.New("cached file not found")
)

// TransportError is a network failure while listing or fetching one drifter.
// Failures are isolated per identifier: one TransportError never aborts the
// rest of a batch.
type TransportError struct {
	ID  int64
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch drifter %d from %s: %v", e.ID, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FormatError means a mandatory attribute or variable is missing from a raw
// file or has an unexpected shape. Fatal to that one normalization call only.
type FormatError struct {
	Name   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("raw file field %q: %s", e.Name, e.Reason)
}
