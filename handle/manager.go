package handle

import (
	"strings"
	"sync"

	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/logging"
)

const uriScheme = "blob:"

// Handle is a transient, revocable reference to a binary payload. It is owned
// by exactly one consumer at a time and must be released exactly once;
// Release is idempotent so "load finished" and "instance removed" may race
// without double-revoking. After release the handle no longer resolves.
type Handle struct {
	id      string
	mgr     *Manager
	release sync.Once
}

// ID returns the handle's opaque token.
func (h *Handle) ID() string { return h.id }

// URI returns the addressable form of the handle, suitable for handing to a
// renderer or display surface. It resolves through the owning Manager until
// the handle is released.
func (h *Handle) URI() string { return uriScheme + h.id }

// Bytes returns the referenced payload, or nil if the handle has been
// released.
func (h *Handle) Bytes() []byte {
	data, _ := h.mgr.Resolve(h.URI())
	return data
}

// Release revokes the handle. Safe to call more than once; only the first
// call revokes.
func (h *Handle) Release() {
	h.release.Do(func() { h.mgr.revoke(h.id) })
}

// Options configures a Manager.
type Options struct {
	// Logger receives a debug line per acquire/revoke. Defaults to NoOp.
	Logger logging.Logger
}

// Manager turns stored binary payloads into revocable addressable handles and
// tracks every live handle so leaks are observable. Payload bytes are shared,
// not copied: handles reference blobs the store already copied defensively.
type Manager struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	logger logging.Logger
}

// NewManager constructs an empty Manager.
func NewManager(optFns ...func(o *Options)) *Manager {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{blobs: make(map[string][]byte), logger: opts.Logger}
}

// Acquire wraps data in a new Handle. The caller owns the handle and is
// responsible for releasing it; prefer With for lifetimes bounded to one
// operation.
func (m *Manager) Acquire(data []byte) *Handle {
	id := core.NewID()
	m.mu.Lock()
	m.blobs[id] = data
	m.mu.Unlock()
	m.logger.Debug("handle acquired", "handle_id", id, "bytes", len(data))
	return &Handle{id: id, mgr: m}
}

// With runs fn with a freshly acquired handle and releases it when fn
// returns, regardless of outcome. This is the required form for short-lived
// purposes (a single render pass, a single download).
func (m *Manager) With(data []byte, fn func(h *Handle) error) error {
	h := m.Acquire(data)
	defer h.Release()
	return fn(h)
}

// Resolve dereferences a handle URI. The second return is false once the
// handle has been released (or never existed).
func (m *Manager) Resolve(uri string) ([]byte, bool) {
	id := strings.TrimPrefix(uri, uriScheme)
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[id]
	return data, ok
}

// Active returns the number of live (unreleased) handles. A steady-state
// value above the number of live scene instances indicates a leak.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

func (m *Manager) revoke(id string) {
	m.mu.Lock()
	delete(m.blobs, id)
	m.mu.Unlock()
	m.logger.Debug("handle released", "handle_id", id)
}
