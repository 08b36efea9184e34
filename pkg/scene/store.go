package scene

import (
	"errors"

	"github.com/google/uuid"

	lcerrors "github.com/tapestrylab/loomcanvas/pkg/errors"
	"github.com/tapestrylab/loomcanvas/pkg/observability"
)

var (
	// ErrNotFound is returned by [Store.UpdateNode] when the node ID does
	// not resolve to an existing node.
	ErrNotFound = errors.New("node not found")

	// ErrDanglingReference is returned by [Store.CreateNodes] when a
	// Connection node's FromID or ToID does not resolve to an existing node
	// at creation time.
	ErrDanglingReference = errors.New("connection references unknown node")

	// ErrDuplicateID is returned by [Store.CreateNodes] when an explicit ID
	// collides with an existing node. Node IDs are unique per scene.
	ErrDuplicateID = errors.New("duplicate node ID")
)

// EventType classifies a store mutation.
type EventType int

const (
	EventCreate EventType = iota
	EventUpdate
	EventDelete
	EventCamera
	EventLayout
)

// Event describes one synchronous store mutation. IDs is populated for node
// events; Layout for EventLayout.
type Event struct {
	Type   EventType
	IDs    []string
	Layout LayoutKind
}

// Listener receives store events synchronously, in mutation call order.
type Listener func(Event)

// Store owns one canvas's nodes, camera, and active layout. All mutations
// are synchronous and immediately observable by registered listeners.
// A Store is single-owner per open canvas and is not safe for concurrent
// use without external synchronization.
type Store struct {
	sceneID      string
	nodes        map[string]*Node
	order        []string // insertion order of node IDs
	camera       Camera
	activeLayout LayoutKind

	listeners map[int]Listener
	nextSub   int
}

// NewStore creates an empty scene store for the given scene ID.
func NewStore(sceneID string) *Store {
	return &Store{
		sceneID:      sceneID,
		nodes:        make(map[string]*Node),
		camera:       DefaultCamera(),
		activeLayout: LayoutFreeform,
		listeners:    make(map[int]Listener),
	}
}

// SceneID returns the identifier the persistence adapter keys snapshots by.
func (s *Store) SceneID() string { return s.sceneID }

// Len returns the number of nodes in the scene.
func (s *Store) Len() int { return len(s.order) }

// Subscribe registers a listener and returns an unsubscribe function. The
// caller owns disposal; calling the returned function twice is harmless.
func (s *Store) Subscribe(l Listener) func() {
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() { delete(s.listeners, id) }
}

func (s *Store) emit(e Event) {
	for _, l := range s.listeners {
		l(e)
	}
}

// CreateNodes adds the given nodes to the scene and returns their IDs in
// input order. Nodes with an empty ID are assigned a fresh UUID. The whole
// batch is validated before any node is inserted: an explicit duplicate ID
// fails with ErrDuplicateID, and a Connection whose FromID/ToID does not
// resolve (to an existing node or an earlier node in the same batch) fails
// with ErrDanglingReference. On error nothing is inserted.
func (s *Store) CreateNodes(specs []Node) ([]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	pending := make(map[string]bool, len(specs))
	ids := make([]string, len(specs))
	for i := range specs {
		if specs[i].ID == "" {
			specs[i].ID = uuid.NewString()
		}
		id := specs[i].ID
		if _, exists := s.nodes[id]; exists || pending[id] {
			return nil, lcerrors.Wrap(lcerrors.ErrCodeDuplicateNode, ErrDuplicateID, "node %s already exists", id)
		}
		pending[id] = true
		ids[i] = id
	}

	resolves := func(id string) bool {
		if id == "" {
			return false
		}
		if _, ok := s.nodes[id]; ok {
			return true
		}
		return pending[id]
	}
	for i := range specs {
		if specs[i].Kind != KindConnection {
			continue
		}
		from, to := specs[i].Props.FromID, specs[i].Props.ToID
		if !resolves(from) || !resolves(to) {
			return nil, lcerrors.Wrap(lcerrors.ErrCodeDanglingReference, ErrDanglingReference,
				"connection %s -> %s", from, to)
		}
	}

	for i := range specs {
		n := specs[i]
		s.nodes[n.ID] = &n
		s.order = append(s.order, n.ID)
	}

	observability.Scene().OnNodesCreated(s.sceneID, len(specs))
	s.emit(Event{Type: EventCreate, IDs: ids})
	return ids, nil
}

// UpdateNode applies a partial update to an existing node. Fails with a
// NOT_FOUND_NODE error wrapping ErrNotFound if the ID is absent.
func (s *Store) UpdateNode(id string, patch Patch) error {
	n, ok := s.nodes[id]
	if !ok {
		return lcerrors.Wrap(lcerrors.ErrCodeNotFoundNode, ErrNotFound, "node %s", id)
	}
	patch.apply(n)
	s.emit(Event{Type: EventUpdate, IDs: []string{id}})
	return nil
}

// DeleteNodes removes the given nodes. Unknown IDs are silently ignored, so
// deletion is idempotent. Listeners see only the IDs that actually existed;
// no event is emitted when nothing was removed.
func (s *Store) DeleteNodes(ids []string) {
	removed := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.nodes[id]; !ok {
			continue
		}
		delete(s.nodes, id)
		removed = append(removed, id)
	}
	if len(removed) == 0 {
		return
	}

	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.nodes[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept

	observability.Scene().OnNodesDeleted(s.sceneID, len(removed))
	s.emit(Event{Type: EventDelete, IDs: removed})
}

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	out := make([]Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.nodes[id])
	}
	return out
}

// QueryByKind returns copies of all nodes of the given kind in insertion
// order. The order is not guaranteed stable across deletes.
func (s *Store) QueryByKind(kind Kind) []Node {
	var out []Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.Kind == kind {
			out = append(out, *n)
		}
	}
	return out
}

// SetPositions moves the given nodes. IDs that don't resolve are skipped.
// This is the write path for layout results; a single update event covers
// the whole move.
func (s *Store) SetPositions(pos map[string]Point) {
	moved := make([]string, 0, len(pos))
	for _, id := range s.order {
		p, ok := pos[id]
		if !ok {
			continue
		}
		s.nodes[id].X = p.X
		s.nodes[id].Y = p.Y
		moved = append(moved, id)
	}
	if len(moved) > 0 {
		s.emit(Event{Type: EventUpdate, IDs: moved})
	}
}

// Camera returns the scene's current camera.
func (s *Store) Camera() Camera { return s.camera }

// SetCamera replaces the scene's camera. The camera is exclusively owned by
// the scene; the persistence adapter reads and writes it through here.
func (s *Store) SetCamera(c Camera) {
	if c.Zoom <= 0 {
		c.Zoom = 1
	}
	s.camera = c
	s.emit(Event{Type: EventCamera})
}

// ActiveLayout returns the last layout algorithm explicitly applied.
func (s *Store) ActiveLayout() LayoutKind { return s.activeLayout }

// SetActiveLayout records the layout algorithm that was just applied.
func (s *Store) SetActiveLayout(k LayoutKind) {
	s.activeLayout = k
	s.emit(Event{Type: EventLayout, Layout: k})
}
