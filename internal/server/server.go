// Package server exposes one scene over HTTP so a web front end can embed
// the canvas engine. The API is JSON throughout; errors carry the engine's
// error codes.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/ingest"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
	"github.com/tapestrylab/loomcanvas/pkg/snapshot"
)

const maxBodySize = 1 << 20 // 1MB

// Deps wires the server's collaborators. Mu, when set, is the lock
// serializing access to the scene store; share it with anything else
// that reads the store off the request path, such as the debounce
// saver. Callbacks are forwarded to the canvas core.
type Deps struct {
	Store     *scene.Store
	Adapter   *snapshot.Adapter
	Logger    *log.Logger
	Mu        *sync.Mutex
	Callbacks ingest.Callbacks
}

// Server serves one scene. The scene store is single-owner, so every
// handler takes the store mutex before touching it.
type Server struct {
	mu      *sync.Mutex
	store   *scene.Store
	adapter *snapshot.Adapter
	cb      ingest.Callbacks
	log     *log.Logger
}

// NewServer creates a server over the given scene.
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	mu := deps.Mu
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Server{
		mu:      mu,
		store:   deps.Store,
		adapter: deps.Adapter,
		cb:      deps.Callbacks,
		log:     logger,
	}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/scene", func(r chi.Router) {
		r.Get("/", s.handleGetScene)
		r.Post("/nodes", s.handleCreateNodes)
		r.Patch("/nodes/{id}", s.handlePatchNode)
		r.Delete("/nodes", s.handleDeleteNodes)
		r.Post("/layout", s.handleApplyLayout)
		r.Put("/camera", s.handleSetCamera)
		r.Post("/drop", s.handleDrop)
		r.Get("/export.svg", s.handleExportSVG)
		r.Get("/export.dot", s.handleExportDOT)
	})

	r.Route("/snapshot", func(r chi.Router) {
		r.Get("/", s.handleGetSnapshot)
		r.Post("/restore", s.handleRestore)
		r.Delete("/", s.handleClearSnapshot)
	})

	return r
}

// =============================================================================
// Error and JSON helpers
// =============================================================================

// httpError writes a JSON error body carrying an engine error code.
func httpError(w http.ResponseWriter, status int, code lcerrors.Code, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    string(code),
			"message": fmt.Sprintf(format, args...),
		},
	})
}

// writeError maps an engine error to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := lcerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case lcerrors.Is(err, lcerrors.ErrCodeNotFound),
		lcerrors.Is(err, lcerrors.ErrCodeNotFoundNode),
		lcerrors.Is(err, lcerrors.ErrCodeNotFoundScene):
		status = http.StatusNotFound
	case lcerrors.Is(err, lcerrors.ErrCodeInvalidInput),
		lcerrors.Is(err, lcerrors.ErrCodeInvalidKind),
		lcerrors.Is(err, lcerrors.ErrCodeInvalidLayout),
		lcerrors.Is(err, lcerrors.ErrCodeInvalidPayload),
		lcerrors.Is(err, lcerrors.ErrCodeDanglingReference),
		lcerrors.Is(err, lcerrors.ErrCodeDuplicateNode):
		status = http.StatusBadRequest
	}
	httpError(w, status, code, "%s", lcerrors.UserMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, lcerrors.ErrCodeInvalidInput, "invalid request body: %v", err)
		return false
	}
	return true
}
