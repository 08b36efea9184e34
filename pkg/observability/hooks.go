// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about scene mutations, layout runs, and
// snapshot persistence.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the engine free of observability framework imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSceneHooks(&mySceneHooks{})
//	    observability.SetSnapshotHooks(&mySnapshotHooks{})
//	    // ... run application
//	}
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Scene Hooks
// =============================================================================

// SceneHooks receives events from scene store mutations.
type SceneHooks interface {
	// OnNodesCreated records a batch node creation.
	OnNodesCreated(sceneID string, count int)

	// OnNodesDeleted records a batch node deletion.
	OnNodesDeleted(sceneID string, count int)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout engine runs.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a layout computation.
	OnLayoutStart(kind string, nodeCount int)

	// OnLayoutComplete records a finished layout computation.
	OnLayoutComplete(kind string, nodeCount int, duration time.Duration)
}

// =============================================================================
// Snapshot Hooks
// =============================================================================

// SnapshotHooks receives events from snapshot persistence.
type SnapshotHooks interface {
	// OnSave records a completed snapshot write.
	OnSave(sceneID string, size int)

	// OnSaveSkipped records a save skipped by the idempotence guard.
	OnSaveSkipped(sceneID string)

	// OnRestore records whether a camera restoration occurred.
	OnRestore(sceneID string, restored bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSceneHooks is a no-op implementation of SceneHooks.
type NoopSceneHooks struct{}

func (NoopSceneHooks) OnNodesCreated(string, int) {}
func (NoopSceneHooks) OnNodesDeleted(string, int) {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(string, int)                   {}
func (NoopLayoutHooks) OnLayoutComplete(string, int, time.Duration) {}

// NoopSnapshotHooks is a no-op implementation of SnapshotHooks.
type NoopSnapshotHooks struct{}

func (NoopSnapshotHooks) OnSave(string, int)     {}
func (NoopSnapshotHooks) OnSaveSkipped(string)   {}
func (NoopSnapshotHooks) OnRestore(string, bool) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sceneHooks    SceneHooks    = NoopSceneHooks{}
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	snapshotHooks SnapshotHooks = NoopSnapshotHooks{}
	hooksMu       sync.RWMutex
)

// SetSceneHooks registers custom scene hooks.
// This should be called once at application startup before any mutations.
func SetSceneHooks(h SceneHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sceneHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetSnapshotHooks registers custom snapshot hooks.
func SetSnapshotHooks(h SnapshotHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		snapshotHooks = h
	}
}

// Scene returns the registered scene hooks.
func Scene() SceneHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sceneHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Snapshot returns the registered snapshot hooks.
func Snapshot() SnapshotHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return snapshotHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sceneHooks = NoopSceneHooks{}
	layoutHooks = NoopLayoutHooks{}
	snapshotHooks = NoopSnapshotHooks{}
}
