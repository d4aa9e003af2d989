package scene

import "sync"

// Selection tracks the single selected instance system-wide. Selection is by
// instance identifier, never by asset id, so duplicates of the same asset
// stay independently selectable. The zero value is ready to use.
type Selection struct {
	mu      sync.Mutex
	current string
}

// Select records instanceID as the sole selected instance.
func (s *Selection) Select(instanceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = instanceID
}

// Deselect clears the selection.
func (s *Selection) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
}

// Current returns the selected instance id, or "" when nothing is selected.
func (s *Selection) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
