package core

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUninitialized is returned when any AssetStore operation is
	// invoked before the store's one-time Open step has completed. This is a
	// programming-sequence error: it is surfaced to the developer log and
	// rejected to the caller, never shown to the user.
	ErrStoreUninitialized = errors.New("store not initialised: call Open first")

	// ErrNotFound is returned when an asset for the given id does not exist
	// in the underlying store.
	ErrNotFound = errors.New("asset does not exist")

	// ErrNoStagedImage is returned when model generation is requested before
	// an image has been staged. Non-fatal; the pipeline keeps awaiting an
	// image.
	ErrNoStagedImage = errors.New("no staged image")

	// ErrBusy is returned when a generation request arrives while another
	// pipeline run is still in flight. The stages mutate shared staged state,
	// so runs never execute concurrently.
	ErrBusy = errors.New("generation already in flight")
)

// ServiceError wraps a non-success response or network failure from a
// generation endpoint. Message carries the human-readable text shown to the
// user; the wrapped error (if any) carries the transport detail.
type ServiceError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s endpoint: %s: %v", e.Endpoint, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s endpoint: %s (status %d)", e.Endpoint, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s endpoint: %s", e.Endpoint, e.Message)
}

// Unwrap returns the underlying transport error, if any.
func (e *ServiceError) Unwrap() error { return e.Err }
