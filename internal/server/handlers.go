package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/export"
	"github.com/tapestrylab/loomcanvas/pkg/ingest"
	"github.com/tapestrylab/loomcanvas/pkg/layout"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/scene/shape"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Scene
// =============================================================================

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := scene.MarshalScene(s.store)
	s.mu.Unlock()
	if err != nil {
		writeError(w, lcerrors.Wrap(lcerrors.ErrCodeInternal, err, "serialize scene"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// apiNode is the wire form of a node; kind travels as its lowercase name.
type apiNode struct {
	ID    string      `json:"id"`
	Kind  string      `json:"kind"`
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	W     float64     `json:"w"`
	H     float64     `json:"h"`
	Props scene.Props `json:"props"`
}

func (s *Server) handleCreateNodes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nodes []apiNode `json:"nodes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Nodes) == 0 {
		httpError(w, http.StatusBadRequest, lcerrors.ErrCodeInvalidInput, "nodes is required")
		return
	}

	specs := make([]scene.Node, 0, len(req.Nodes))
	for _, an := range req.Nodes {
		kind, err := scene.ParseKind(an.Kind)
		if err != nil {
			httpError(w, http.StatusBadRequest, lcerrors.ErrCodeInvalidKind, "%v", err)
			return
		}
		n := scene.Node{ID: an.ID, Kind: kind, X: an.X, Y: an.Y, W: an.W, H: an.H, Props: an.Props}
		if n.W == 0 && n.H == 0 && kind != scene.KindConnection {
			n.W, n.H = shape.DefaultSize(kind)
		}
		specs = append(specs, n)
	}

	s.mu.Lock()
	ids, err := s.store.CreateNodes(specs)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

// apiPatch mirrors scene.Patch: absent fields are left untouched.
type apiPatch struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	W *float64 `json:"w"`
	H *float64 `json:"h"`

	Title       *string   `json:"title"`
	Summary     *string   `json:"summary"`
	Tags        *[]string `json:"tags"`
	WeaveSlug   *string   `json:"weave_slug"`
	LoomSlug    *string   `json:"loom_slug"`
	Accent      *string   `json:"accent"`
	Collapsed   *bool     `json:"collapsed"`
	Highlighted *bool     `json:"highlighted"`
	Expanded    *bool     `json:"expanded"`
	UpdatedAt   *string   `json:"updated_at"`
}

func (s *Server) handlePatchNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req apiPatch
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.store.Node(id)
	if !ok {
		httpError(w, http.StatusNotFound, lcerrors.ErrCodeNotFoundNode, "node %s not found", id)
		return
	}

	// Resizes are clamped to the kind's size bounds.
	if req.W != nil || req.H != nil {
		proposedW, proposedH := node.W, node.H
		if req.W != nil {
			proposedW = *req.W
		}
		if req.H != nil {
			proposedH = *req.H
		}
		clampedW, clampedH := shape.ClampResize(node.Kind, proposedW, proposedH)
		req.W, req.H = &clampedW, &clampedH
	}

	patch := scene.Patch{
		X: req.X, Y: req.Y, W: req.W, H: req.H,
		Title: req.Title, Summary: req.Summary, Tags: req.Tags,
		WeaveSlug: req.WeaveSlug, LoomSlug: req.LoomSlug,
		Accent: req.Accent, Collapsed: req.Collapsed,
		Highlighted: req.Highlighted, Expanded: req.Expanded,
		UpdatedAt: req.UpdatedAt,
	}
	if err := s.store.UpdateNode(id, patch); err != nil {
		writeError(w, err)
		return
	}

	updated, _ := s.store.Node(id)
	writeJSON(w, http.StatusOK, apiNode{
		ID: updated.ID, Kind: updated.Kind.String(),
		X: updated.X, Y: updated.Y, W: updated.W, H: updated.H,
		Props: updated.Props,
	})
}

func (s *Server) handleDeleteNodes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	s.store.DeleteNodes(req.IDs)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layout and Camera
// =============================================================================

func (s *Server) handleApplyLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   string       `json:"kind"`
		Anchor *scene.Point `json:"anchor"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := scene.ParseLayoutKind(req.Kind)
	if err != nil {
		httpError(w, http.StatusBadRequest, lcerrors.ErrCodeInvalidLayout, "%v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	anchor := scene.Point{}
	if req.Anchor != nil {
		anchor = *req.Anchor
	} else if bounds, ok := layout.ContentBounds(s.store.Nodes()); ok {
		anchor = bounds.Center()
	}

	placed := layout.Apply(s.store.Nodes(), kind, anchor)
	s.store.SetPositions(layout.Positions(placed))
	s.store.SetActiveLayout(kind)
	if s.cb.OnLayoutChange != nil {
		s.cb.OnLayoutChange(kind)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"layout":    kind,
		"positions": layout.Positions(placed),
	})
}

func (s *Server) handleSetCamera(w http.ResponseWriter, r *http.Request) {
	var cam scene.Camera
	if !decodeBody(w, r, &cam) {
		return
	}

	s.mu.Lock()
	s.store.SetCamera(cam)
	applied := s.store.Camera()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, applied)
}

// =============================================================================
// Drop Ingestion
// =============================================================================

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transfers map[string]string `json:"transfers"`
		Pointer   scene.Point       `json:"pointer"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	dropper := ingest.NewDropper(s.store, s.cb, s.log)
	id, err := dropper.Drop(req.Transfers, req.Pointer, s.store.Camera())
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// =============================================================================
// Export
// =============================================================================

func (s *Server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	svg := export.SceneSVG(s.store)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(svg))
}

func (s *Server) handleExportDOT(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	dot := export.BuildDOT(s.store)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(dot))
}

// =============================================================================
// Snapshot
// =============================================================================

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sceneID := s.store.SceneID()
	s.mu.Unlock()

	snap := s.adapter.Load(r.Context(), sceneID)
	if snap == nil {
		httpError(w, http.StatusNotFound, lcerrors.ErrCodeNotFoundScene, "no snapshot for scene %s", sceneID)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	restored := s.adapter.RestoreCamera(r.Context(), s.store)
	cam := s.store.Camera()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"restored": restored,
		"camera":   cam,
	})
}

func (s *Server) handleClearSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sceneID := s.store.SceneID()
	s.mu.Unlock()

	if err := s.adapter.Clear(r.Context(), sceneID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
