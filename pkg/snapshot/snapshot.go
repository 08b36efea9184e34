// Package snapshot implements durable per-scene persistence of camera and
// active-layout state.
//
// A [Snapshot] is a small versioned record keyed by scene ID. The package
// defines a [Store] interface for raw record storage with implementations
// for different backends:
//   - memory: in-memory storage for development/testing
//   - file: file-based storage for CLI/desktop use
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for the hosted platform
//   - null: discard-everything store for disabling persistence
//
// The [Adapter] layers validation on a Store: schema version and scene-ID
// mismatches are discarded silently (logged, never fatal), and
// byte-identical saves are skipped. [Saver] adds mutation-driven debounce
// with a guaranteed final flush on close.
//
// Distinct scenes use disjoint keys, so no locking is needed: an adapter
// only ever touches its own scene's key.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// SchemaVersion is the current snapshot schema version. A snapshot is
// applied only if its recorded version matches.
const SchemaVersion = 3

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound is returned when no snapshot exists for a scene.
	ErrNotFound = errors.New("snapshot not found")
)

// Snapshot is the durable record for one scene.
type Snapshot struct {
	SceneID string           `json:"scene_id" bson:"scene_id"`
	Layout  scene.LayoutKind `json:"layout" bson:"layout"`
	Camera  scene.Camera     `json:"camera" bson:"camera"`
	SavedAt string           `json:"saved_at" bson:"saved_at"`
	Version int              `json:"version" bson:"version"`
}

// Store is the interface for snapshot storage backends. Implementations
// store opaque serialized records; validation lives in [Adapter].
type Store interface {
	// Get retrieves the record for a scene.
	// Returns ok=false (and no error) when the key is absent.
	Get(ctx context.Context, sceneID string) (data []byte, ok bool, err error)

	// Set stores the record for a scene, replacing any previous one.
	Set(ctx context.Context, sceneID string, data []byte) error

	// Delete removes the record for a scene. Absent keys are a no-op.
	Delete(ctx context.Context, sceneID string) error

	// Close releases backend resources.
	Close() error
}

// now returns the current UTC time formatted for SavedAt.
func now(clock func() time.Time) string {
	return clock().UTC().Format(time.RFC3339)
}
