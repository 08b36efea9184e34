// Package scene implements the typed node model and the scene store.
//
// A Scene is one canvas's complete state: an addressable collection of
// typed nodes, the camera (pan/zoom), and the last layout algorithm that
// was explicitly applied. The [Store] is the sole mutable shared resource
// of the engine; it is single-owner (one store per open canvas) and all
// mutations are synchronous and observable through [Store.Subscribe].
//
// Five node kinds exist: Strand, Loom, Weave, Collection, and Connection.
// Connection nodes hold FromID/ToID and are the only edges; no other kind
// may reference another node's identity. Referential integrity is checked
// only at Connection creation time (see [Store.CreateNodes]).
//
// The package also provides a deterministic JSON scene-file codec
// ([WriteSceneFile], [ReadSceneFile]) used by the CLI layout and export
// commands.
package scene
