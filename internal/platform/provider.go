package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the platform backends for the current OS. Any field may be
// nil when the OS offers no such backend.
type Provider struct {
	Windows    WindowLister
	Events     EventSource
	Accent     AccentSource
	Compositor Compositor
}

// ErrUnsupported is returned on platforms without a registered backend.
var ErrUnsupported = fmt.Errorf("desktop-borders has no window backend for %s/%s", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	p, err := NewProviderFunc()
	if err != nil {
		return nil, err
	}
	// Platforms that can only enumerate windows get events by polling.
	if p.Events == nil && p.Windows != nil {
		p.Events = NewPoller(p.Windows, PollerOptions{})
	}
	return p, nil
}
