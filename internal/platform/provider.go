package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the live capture backends for the current OS.
type Provider struct {
	Events EventSource
	Tree   TreeReader
}

// ErrUnsupported is returned when no capture backend is registered.
var ErrUnsupported = fmt.Errorf("live recording is not supported on %s/%s; replay a captured event log with `generate` instead", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
