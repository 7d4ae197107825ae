// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about discovery, page renders and file writes.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBuildHooks(&myBuildHooks{})
//	    // ... run application
//	}
//
// The pipeline calls hooks to emit events:
//
//	observability.Build().OnRenderStart(ctx, page)
//	// ... merge page into its layout ...
//	observability.Build().OnRenderComplete(ctx, page, root, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// BuildHooks receives events from the build pipeline.
type BuildHooks interface {
	// Discovery events
	OnDiscoverStart(ctx context.Context, buildDir string)
	OnDiscoverComplete(ctx context.Context, buildDir string, layouts, pages int, duration time.Duration, err error)

	// Render events, one pair per page. root is the label of the root
	// layout the page was merged into.
	OnRenderStart(ctx context.Context, page string)
	OnRenderComplete(ctx context.Context, page, root string, size int, duration time.Duration, err error)

	// OnWrite records a rendered page being stored.
	OnWrite(ctx context.Context, path string, size int, err error)
}

// NoopBuildHooks is a no-op implementation of BuildHooks.
type NoopBuildHooks struct{}

func (NoopBuildHooks) OnDiscoverStart(context.Context, string) {}
func (NoopBuildHooks) OnDiscoverComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopBuildHooks) OnRenderStart(context.Context, string) {}
func (NoopBuildHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopBuildHooks) OnWrite(context.Context, string, int, error) {}

var (
	buildHooks BuildHooks = NoopBuildHooks{}
	hooksMu    sync.RWMutex
)

// SetBuildHooks registers custom build hooks.
// This should be called once at application startup before any build runs.
func SetBuildHooks(h BuildHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		buildHooks = h
	}
}

// Build returns the registered build hooks.
func Build() BuildHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return buildHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	buildHooks = NoopBuildHooks{}
}
