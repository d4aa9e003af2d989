package bus

import (
	"sync"

	"github.com/hupe1980/assetmesh/core"
)

type imageReadySub struct {
	id int
	fn func(core.ImageReady)
}

type libraryChangedSub struct {
	id int
	fn func(core.LibraryChanged)
}

// Bus is the in-process implementation of core.Bus. Subscribers are invoked
// synchronously in registration order on the publisher's goroutine. The
// subscriber list is snapshotted before delivery so a callback may
// unsubscribe (or publish) without deadlocking.
type Bus struct {
	mu             sync.Mutex
	nextID         int
	imageReady     []imageReadySub
	libraryChanged []libraryChangedSub
}

// New constructs an empty Bus.
func New() *Bus { return &Bus{} }

// Compile-time interface assertion.
var _ core.Bus = (*Bus)(nil)

// SubscribeImageReady registers fn for ImageReady events.
func (b *Bus) SubscribeImageReady(fn func(core.ImageReady)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.imageReady = append(b.imageReady, imageReadySub{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.imageReady {
			if s.id == id {
				b.imageReady = append(b.imageReady[:i], b.imageReady[i+1:]...)
				return
			}
		}
	}
}

// SubscribeLibraryChanged registers fn for LibraryChanged events.
func (b *Bus) SubscribeLibraryChanged(fn func(core.LibraryChanged)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.libraryChanged = append(b.libraryChanged, libraryChangedSub{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.libraryChanged {
			if s.id == id {
				b.libraryChanged = append(b.libraryChanged[:i], b.libraryChanged[i+1:]...)
				return
			}
		}
	}
}

// PublishImageReady delivers ev to all ImageReady subscribers.
func (b *Bus) PublishImageReady(ev core.ImageReady) {
	b.mu.Lock()
	subs := make([]imageReadySub, len(b.imageReady))
	copy(subs, b.imageReady)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

// PublishLibraryChanged delivers ev to all LibraryChanged subscribers.
func (b *Bus) PublishLibraryChanged(ev core.LibraryChanged) {
	b.mu.Lock()
	subs := make([]libraryChangedSub, len(b.libraryChanged))
	copy(subs, b.libraryChanged)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(ev)
	}
}
