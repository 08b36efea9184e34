package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/observability"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// Adapter validates and serializes snapshots on top of a raw Store.
// Snapshot schema/version/identity mismatches are treated as "no prior
// state": logged as warnings, never fatal, restoration simply does not
// occur. Storage write failures are caught here, logged, and skipped for
// the cycle so the canvas never crashes over persistence.
type Adapter struct {
	store Store
	log   *log.Logger
	clock func() time.Time

	// mu serializes Save/Clear, which may be called from the debounce
	// timer goroutine and the owning goroutine at once.
	mu sync.Mutex

	// lastSaved guards against byte-identical rewrites.
	lastSaved []byte

	onCameraPersisted func()
}

// NewAdapter creates an adapter over the given store. logger may be nil.
func NewAdapter(store Store, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{store: store, log: logger, clock: time.Now}
}

// NotifyCameraPersisted registers fn to run after every save that reached
// the backend; every snapshot carries the camera, so this tells the host
// its viewport is durable. Skipped identical saves do not notify. Set
// during wiring, before any saver is attached.
func (a *Adapter) NotifyCameraPersisted(fn func()) {
	a.onCameraPersisted = fn
}

// Save serializes and persists the scene's layout and camera. The write is
// skipped when the serialized content is byte-identical to the last
// successful save.
func (a *Adapter) Save(ctx context.Context, s *scene.Store) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		SceneID: s.SceneID(),
		Layout:  s.ActiveLayout(),
		Camera:  s.Camera(),
		SavedAt: now(a.clock),
		Version: SchemaVersion,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return lcerrors.Wrap(lcerrors.ErrCodeStorageWrite, err, "serialize snapshot for %s", snap.SceneID)
	}

	if a.identical(data) {
		observability.Snapshot().OnSaveSkipped(snap.SceneID)
		return nil
	}

	if err := a.store.Set(ctx, snap.SceneID, data); err != nil {
		a.log.Warn("snapshot save failed, skipping cycle", "scene", snap.SceneID, "err", err)
		return lcerrors.Wrap(lcerrors.ErrCodeStorageWrite, err, "save snapshot for %s", snap.SceneID)
	}

	a.lastSaved = data
	observability.Snapshot().OnSave(snap.SceneID, len(data))
	if a.onCameraPersisted != nil {
		a.onCameraPersisted()
	}
	return nil
}

// identical reports whether data matches the last successful save modulo
// the SavedAt timestamp, which changes every call by construction.
func (a *Adapter) identical(data []byte) bool {
	if a.lastSaved == nil {
		return false
	}
	return bytes.Equal(stripSavedAt(a.lastSaved), stripSavedAt(data))
}

func stripSavedAt(data []byte) []byte {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return data
	}
	delete(m, "saved_at")
	out, err := json.Marshal(m)
	if err != nil {
		return data
	}
	return out
}

// Load retrieves and validates the snapshot for sceneID. Returns nil (no
// prior state) on a missing key, parse failure, version mismatch, or
// scene-ID mismatch; all are logged as warnings, none are fatal.
func (a *Adapter) Load(ctx context.Context, sceneID string) *Snapshot {
	data, ok, err := a.store.Get(ctx, sceneID)
	if err != nil {
		a.log.Warn("snapshot read failed", "scene", sceneID, "err", err)
		return nil
	}
	if !ok {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		a.log.Warn("discarding unparseable snapshot", "scene", sceneID, "err", err)
		return nil
	}
	if snap.Version != SchemaVersion {
		a.log.Warn("discarding snapshot with stale schema", "scene", sceneID, "version", snap.Version, "want", SchemaVersion)
		return nil
	}
	if snap.SceneID != sceneID {
		a.log.Warn("discarding snapshot for foreign scene", "scene", sceneID, "found", snap.SceneID)
		return nil
	}
	return &snap
}

// RestoreCamera applies the persisted camera and layout to the scene, if a
// valid snapshot exists. Returns whether restoration occurred.
func (a *Adapter) RestoreCamera(ctx context.Context, s *scene.Store) bool {
	snap := a.Load(ctx, s.SceneID())
	if snap == nil {
		observability.Snapshot().OnRestore(s.SceneID(), false)
		return false
	}
	s.SetCamera(snap.Camera)
	if snap.Layout != "" {
		s.SetActiveLayout(snap.Layout)
	}
	observability.Snapshot().OnRestore(s.SceneID(), true)
	return true
}

// Clear removes the durable record and resets the idempotence guard so
// the next Save always writes.
func (a *Adapter) Clear(ctx context.Context, sceneID string) error {
	a.mu.Lock()
	a.lastSaved = nil
	a.mu.Unlock()
	if err := a.store.Delete(ctx, sceneID); err != nil {
		return lcerrors.Wrap(lcerrors.ErrCodeStorageWrite, err, "clear snapshot for %s", sceneID)
	}
	return nil
}
