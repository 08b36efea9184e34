// Package keymap maps physical key presses to canvas actions.
//
// The controller is host-agnostic: callers normalize their input events
// into [KeyEvent] values and receive a [Result] saying which action fired
// and whether the host should suppress its native handling for that key.
// Nothing dispatches while focus sits inside an editable element; the
// guard is checked on every event before any binding is considered.
package keymap

import (
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// =============================================================================
// Actions
// =============================================================================

// Action identifies one canvas operation a key press can trigger.
type Action int

const (
	ActionNone Action = iota
	ActionCycleViewMode
	ActionToggleGridSnap
	ActionSetLayout
	ActionZoomIn
	ActionZoomOut
	ActionZoomReset
	ActionFitView
	ActionDeleteSelection
	ActionSelectAll
	ActionClearSelection
)

// String returns the action name for logging.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCycleViewMode:
		return "cycle-view-mode"
	case ActionToggleGridSnap:
		return "toggle-grid-snap"
	case ActionSetLayout:
		return "set-layout"
	case ActionZoomIn:
		return "zoom-in"
	case ActionZoomOut:
		return "zoom-out"
	case ActionZoomReset:
		return "zoom-reset"
	case ActionFitView:
		return "fit-view"
	case ActionDeleteSelection:
		return "delete-selection"
	case ActionSelectAll:
		return "select-all"
	case ActionClearSelection:
		return "clear-selection"
	default:
		panic("keymap: unknown action")
	}
}

// =============================================================================
// View Mode
// =============================================================================

// ViewMode is the workspace presentation state cycled by the view-mode key.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewSplit
	ViewCanvas
)

// Next advances through the fixed cycle list -> split -> canvas -> list.
func (m ViewMode) Next() ViewMode {
	switch m {
	case ViewList:
		return ViewSplit
	case ViewSplit:
		return ViewCanvas
	case ViewCanvas:
		return ViewList
	default:
		panic("keymap: unknown view mode")
	}
}

// String returns the mode name.
func (m ViewMode) String() string {
	switch m {
	case ViewList:
		return "list"
	case ViewSplit:
		return "split"
	case ViewCanvas:
		return "canvas"
	default:
		panic("keymap: unknown view mode")
	}
}

// =============================================================================
// Key Events and Resolution
// =============================================================================

// KeyEvent is a normalized key press. Key is the lowercase key name
// ("a", "1", "delete", "escape", "+"); Mod is the platform primary
// modifier (ctrl, or cmd on macOS); EditableFocus reports whether input
// focus is inside a text input, textarea, select, or content-editable
// element at press time.
type KeyEvent struct {
	Key           string
	Mod           bool
	EditableFocus bool
}

// Result is the outcome of resolving one key event. Handled reports
// whether a binding fired; hosts suppress native key behavior exactly
// when Handled is true. Layout is set only for ActionSetLayout.
type Result struct {
	Action  Action
	Layout  scene.LayoutKind
	Handled bool
}

// digitLayouts maps the digit row to layout kinds.
var digitLayouts = map[string]scene.LayoutKind{
	"1": scene.LayoutFreeform,
	"2": scene.LayoutGrid,
	"3": scene.LayoutForce,
	"4": scene.LayoutTimeline,
	"5": scene.LayoutCluster,
}

// Resolve maps a key event to its bound action. Events arriving while an
// editable element holds focus resolve to ActionNone unconditionally.
func Resolve(ev KeyEvent) Result {
	if ev.EditableFocus {
		return Result{Action: ActionNone}
	}

	if ev.Mod {
		switch ev.Key {
		case "0":
			return Result{Action: ActionZoomReset, Handled: true}
		case "+", "=":
			return Result{Action: ActionZoomIn, Handled: true}
		case "-":
			return Result{Action: ActionZoomOut, Handled: true}
		case "a":
			return Result{Action: ActionSelectAll, Handled: true}
		}
		return Result{Action: ActionNone}
	}

	if kind, ok := digitLayouts[ev.Key]; ok {
		return Result{Action: ActionSetLayout, Layout: kind, Handled: true}
	}

	switch ev.Key {
	case "v":
		return Result{Action: ActionCycleViewMode, Handled: true}
	case "g":
		return Result{Action: ActionToggleGridSnap, Handled: true}
	case "f":
		return Result{Action: ActionFitView, Handled: true}
	case "delete", "backspace":
		return Result{Action: ActionDeleteSelection, Handled: true}
	case "escape":
		return Result{Action: ActionClearSelection, Handled: true}
	}
	return Result{Action: ActionNone}
}

// =============================================================================
// Controller
// =============================================================================

// Callbacks receives resolved actions. Nil members are skipped.
type Callbacks struct {
	OnViewMode        func(ViewMode)
	OnGridSnap        func(bool)
	OnSetLayout       func(scene.LayoutKind)
	OnZoomIn          func()
	OnZoomOut         func()
	OnZoomReset       func()
	OnFitView         func()
	OnDeleteSelection func()
	OnSelectAll       func()
	OnClearSelection  func()
}

// Controller holds the small amount of state the shortcut layer owns
// (the view-mode cycle position and the grid-snap flag) and forwards
// everything else to its callbacks.
type Controller struct {
	cb       Callbacks
	viewMode ViewMode
	gridSnap bool
}

// NewController creates a controller starting in list view with grid
// snapping off.
func NewController(cb Callbacks) *Controller {
	return &Controller{cb: cb, viewMode: ViewList}
}

// ViewMode returns the current view mode.
func (c *Controller) ViewMode() ViewMode { return c.viewMode }

// GridSnap returns whether grid snapping is enabled.
func (c *Controller) GridSnap() bool { return c.gridSnap }

// Dispatch resolves the event and invokes the bound callback. The return
// value carries preventDefault semantics: true exactly when a binding
// fired.
func (c *Controller) Dispatch(ev KeyEvent) bool {
	res := Resolve(ev)
	if !res.Handled {
		return false
	}

	switch res.Action {
	case ActionCycleViewMode:
		c.viewMode = c.viewMode.Next()
		if c.cb.OnViewMode != nil {
			c.cb.OnViewMode(c.viewMode)
		}
	case ActionToggleGridSnap:
		c.gridSnap = !c.gridSnap
		if c.cb.OnGridSnap != nil {
			c.cb.OnGridSnap(c.gridSnap)
		}
	case ActionSetLayout:
		if c.cb.OnSetLayout != nil {
			c.cb.OnSetLayout(res.Layout)
		}
	case ActionZoomIn:
		if c.cb.OnZoomIn != nil {
			c.cb.OnZoomIn()
		}
	case ActionZoomOut:
		if c.cb.OnZoomOut != nil {
			c.cb.OnZoomOut()
		}
	case ActionZoomReset:
		if c.cb.OnZoomReset != nil {
			c.cb.OnZoomReset()
		}
	case ActionFitView:
		if c.cb.OnFitView != nil {
			c.cb.OnFitView()
		}
	case ActionDeleteSelection:
		if c.cb.OnDeleteSelection != nil {
			c.cb.OnDeleteSelection()
		}
	case ActionSelectAll:
		if c.cb.OnSelectAll != nil {
			c.cb.OnSelectAll()
		}
	case ActionClearSelection:
		if c.cb.OnClearSelection != nil {
			c.cb.OnClearSelection()
		}
	}
	return true
}
