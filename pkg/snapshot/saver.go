package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// DefaultDebounce is how long the saver waits after the last mutation
// before writing a snapshot.
const DefaultDebounce = 2000 * time.Millisecond

// Saver debounces snapshot writes behind scene mutations. Every store
// event restarts a single timer; when it fires, the saver reads the
// scene's state at that moment (not the state at mutation time) and
// persists it through the adapter. Close performs a synchronous final
// flush so a pending debounce window never loses the last edits.
//
// The timer fires on its own goroutine while the scene store is
// single-owner, so the saver takes locker around every store read.
// Pass the same lock the owning goroutine holds while mutating the
// store; nil is allowed only when the caller guarantees no mutation
// can overlap a save.
type Saver struct {
	adapter  *Adapter
	store    *scene.Store
	debounce time.Duration
	locker   sync.Locker

	mu          sync.Mutex
	timer       *time.Timer
	unsubscribe func()
	closed      bool
}

// NewSaver wires a saver to the scene store. debounce <= 0 selects
// DefaultDebounce. The saver starts listening immediately.
func NewSaver(adapter *Adapter, store *scene.Store, debounce time.Duration, locker sync.Locker) *Saver {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	s := &Saver{
		adapter:  adapter,
		store:    store,
		debounce: debounce,
		locker:   locker,
	}
	s.unsubscribe = store.Subscribe(func(scene.Event) { s.schedule() })
	return s
}

// schedule restarts the debounce timer.
func (s *Saver) schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

// fire runs in the timer goroutine after a quiet period.
func (s *Saver) fire() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	// Best effort: the adapter logs and absorbs storage failures.
	_ = s.save(context.Background())
}

// save serializes access to the store against its owning goroutine for
// the duration of the adapter write.
func (s *Saver) save(ctx context.Context) error {
	if s.locker != nil {
		s.locker.Lock()
		defer s.locker.Unlock()
	}
	return s.adapter.Save(ctx, s.store)
}

// Flush persists the current state immediately, bypassing the debounce.
// Any pending timer is cleared.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.save(ctx)
}

// Close stops listening, clears any pending timer, and performs one final
// synchronous save. Safe to call once.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.unsubscribe()
	return s.save(ctx)
}
