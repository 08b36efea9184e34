// Package pkg provides the core libraries for the loomcanvas scene engine.
//
// # Overview
//
// Loomcanvas places typed knowledge nodes on a pannable, zoomable canvas.
// The pkg directory is organized by concern:
//
//  1. [scene] - Node model, typed scene store, camera, serialization
//  2. [scene/shape] - Per-kind contracts: sizes, clamping, handles, static SVG
//  3. [layout] - Pure layout algorithms (grid, timeline, cluster, force) and
//     viewport fitting
//  4. [ingest] - Drag-payload encoding/decoding and drop ingestion
//  5. [snapshot] - Debounced, versioned persistence of camera and layout
//  6. [keymap] - Keyboard shortcut resolution with input-focus suppression
//  7. [export] - Whole-scene SVG composition and Graphviz topology views
//
// # Architecture
//
// The typical data flow:
//
//	drag payload / scene file
//	         ↓
//	    [ingest] / [scene] codec (build nodes)
//	         ↓
//	    [scene] store (typed nodes + camera + active layout)
//	         ↓
//	    [layout] (recompute strand positions)
//	         ↓
//	    [export] / [scene/shape] (static SVG, DOT)
//
// Store mutations feed [snapshot], which debounces durable writes of the
// scene's view state.
//
// # Quick Start
//
// Build a scene, lay it out, and export it:
//
//	import (
//	    "github.com/tapestrylab/loomcanvas/pkg/export"
//	    "github.com/tapestrylab/loomcanvas/pkg/layout"
//	    "github.com/tapestrylab/loomcanvas/pkg/scene"
//	)
//
//	s := scene.NewStore("my-scene")
//	s.CreateNodes([]scene.Node{
//	    {Kind: scene.KindStrand, Props: scene.Props{Title: "First note"}},
//	    {Kind: scene.KindStrand, Props: scene.Props{Title: "Second note"}},
//	})
//
//	placed := layout.Apply(s.Nodes(), scene.LayoutGrid, scene.Point{})
//	s.SetPositions(layout.Positions(placed))
//	s.SetActiveLayout(scene.LayoutGrid)
//
//	svg := export.SceneSVG(s)
//
// # Supporting Packages
//
// [errors] - Structured error codes shared by the CLI, TUI, and HTTP
// surfaces.
//
// [observability] - Hook registry for metrics and tracing without backend
// dependencies.
//
// [buildinfo] - Version information injected at build time.
//
// [scene]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/scene
// [scene/shape]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/scene/shape
// [layout]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/layout
// [ingest]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/ingest
// [snapshot]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/snapshot
// [keymap]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/keymap
// [export]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/export
// [errors]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/errors
// [observability]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/tapestrylab/loomcanvas/pkg/buildinfo
package pkg
