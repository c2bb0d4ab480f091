// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks without depending on a
// particular backend. The defaults are no-ops; main registers real
// implementations at startup:
//
//	func main() {
//	    observability.SetResolveHooks(&myResolveHooks{})
//	    observability.SetAssembleHooks(&myAssembleHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Resolve().OnResolveStart(ctx, root)
//	// ... walk the graph ...
//	observability.Resolve().OnResolveComplete(ctx, root, count, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Resolve Hooks
// =============================================================================

// ResolveHooks receives events from dependency resolution.
type ResolveHooks interface {
	OnResolveStart(ctx context.Context, root string)
	OnResolveComplete(ctx context.Context, root string, artifacts int, duration time.Duration, err error)

	// OnUpgrade records an in-place version upgrade of an already collected
	// library.
	OnUpgrade(ctx context.Context, key, from, to string)
}

// =============================================================================
// Assemble Hooks
// =============================================================================

// AssembleHooks receives events from archive assembly.
type AssembleHooks interface {
	OnAssembleStart(ctx context.Context, output string)

	// OnEntry records one entry written to the archive.
	OnEntry(ctx context.Context, name string, size int64)

	OnAssembleComplete(ctx context.Context, output string, entries int, duration time.Duration, err error)
}

// =============================================================================
// Stage Hooks
// =============================================================================

// StageHooks receives events from the packaging pipeline stages.
type StageHooks interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolveHooks is a no-op implementation of ResolveHooks.
type NoopResolveHooks struct{}

func (NoopResolveHooks) OnResolveStart(context.Context, string)                              {}
func (NoopResolveHooks) OnResolveComplete(context.Context, string, int, time.Duration, error) {}
func (NoopResolveHooks) OnUpgrade(context.Context, string, string, string)                   {}

// NoopAssembleHooks is a no-op implementation of AssembleHooks.
type NoopAssembleHooks struct{}

func (NoopAssembleHooks) OnAssembleStart(context.Context, string)                              {}
func (NoopAssembleHooks) OnEntry(context.Context, string, int64)                               {}
func (NoopAssembleHooks) OnAssembleComplete(context.Context, string, int, time.Duration, error) {}

// NoopStageHooks is a no-op implementation of StageHooks.
type NoopStageHooks struct{}

func (NoopStageHooks) OnStageStart(context.Context, string)                         {}
func (NoopStageHooks) OnStageComplete(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	resolveHooks  ResolveHooks  = NoopResolveHooks{}
	assembleHooks AssembleHooks = NoopAssembleHooks{}
	stageHooks    StageHooks    = NoopStageHooks{}
	hooksMu       sync.RWMutex
)

// SetResolveHooks registers custom resolve hooks.
// This should be called once at application startup before any resolution.
func SetResolveHooks(h ResolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		resolveHooks = h
	}
}

// SetAssembleHooks registers custom assemble hooks.
func SetAssembleHooks(h AssembleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		assembleHooks = h
	}
}

// SetStageHooks registers custom stage hooks.
func SetStageHooks(h StageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stageHooks = h
	}
}

// Resolve returns the registered resolve hooks.
func Resolve() ResolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return resolveHooks
}

// Assemble returns the registered assemble hooks.
func Assemble() AssembleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return assembleHooks
}

// Stage returns the registered stage hooks.
func Stage() StageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stageHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	resolveHooks = NoopResolveHooks{}
	assembleHooks = NoopAssembleHooks{}
	stageHooks = NoopStageHooks{}
}
