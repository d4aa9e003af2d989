package core

import (
	"time"

	"github.com/google/uuid"
)

// ImageReady is published once a seed image has been staged, whether it came
// from the image-generation endpoint or from a user upload with a label. Both
// entry paths emit exactly this shape.
type ImageReady struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Image     []byte    `json:"image"`
	Timestamp time.Time `json:"timestamp"`
}

// NewImageReady constructs an ImageReady event carrying the staged prompt and
// image bytes.
func NewImageReady(prompt string, image []byte) ImageReady {
	return ImageReady{ID: NewID(), Prompt: prompt, Image: image, Timestamp: time.Now().UTC()}
}

// LibraryChanged is published after any mutation of the asset set has been
// observed to complete. Subscribers re-read the store; the event carries no
// payload so a re-render always reflects a store state at least as new as the
// mutation that triggered it.
type LibraryChanged struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLibraryChanged constructs a LibraryChanged event.
func NewLibraryChanged() LibraryChanged {
	return LibraryChanged{ID: NewID(), Timestamp: time.Now().UTC()}
}

// Bus is a process-wide typed publish/subscribe channel decoupling the
// pipeline, the store and the view surfaces. Delivery is synchronous and in
// registration order; publishers must not hold locks that subscribers may
// need. Subscribe methods return an unsubscribe func.
type Bus interface {
	SubscribeImageReady(fn func(ImageReady)) (unsubscribe func())
	SubscribeLibraryChanged(fn func(LibraryChanged)) (unsubscribe func())
	PublishImageReady(ev ImageReady)
	PublishLibraryChanged(ev LibraryChanged)
}

// NewID generates a new unique identifier for events and handles.
func NewID() string { return uuid.NewString() }
