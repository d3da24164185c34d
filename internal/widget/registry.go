package widget

import (
	"sync"

	"github.com/Sweta1G/chat-widget/internal/config"
)

// Registry enforces the one-widget-per-mount-point rule: initializing the
// same mount ID twice is a safe no-op that hands back the existing
// instance. This replaces the old page-global "already initialized" flag
// with explicit, inspectable state.
type Registry struct {
	mu      sync.Mutex
	widgets map[string]*Controller
}

func NewRegistry() *Registry {
	return &Registry{widgets: make(map[string]*Controller)}
}

// Initialize resolves the override into an effective configuration and
// creates the widget for mountID, or returns the existing one. The second
// return value reports whether a new instance was created.
func (r *Registry) Initialize(mountID string, override map[string]any, deps Deps) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.widgets[mountID]; ok {
		return existing, false
	}

	cfg := config.Resolve(override)
	ctl := newController(mountID, cfg, deps)
	r.widgets[mountID] = ctl
	return ctl, true
}

// Get returns the widget mounted at mountID, if any.
func (r *Registry) Get(mountID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctl, ok := r.widgets[mountID]
	return ctl, ok
}

// Remove tears the widget down (e.g. when its session disconnects) after
// cancelling any active voice work.
func (r *Registry) Remove(mountID string) {
	r.mu.Lock()
	ctl, ok := r.widgets[mountID]
	delete(r.widgets, mountID)
	r.mu.Unlock()

	if ok {
		ctl.Close()
	}
}

// Len reports the number of mounted widgets.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.widgets)
}
