package cli

import (
	"fmt"
	"math"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tapestrylab/loomcanvas/pkg/ingest"
	"github.com/tapestrylab/loomcanvas/pkg/keymap"
	"github.com/tapestrylab/loomcanvas/pkg/layout"
	"github.com/tapestrylab/loomcanvas/pkg/scene"
)

// Canvas view styles
var (
	nodeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	nodeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	nodeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	cursorStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	statusStyle       = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	panStep  = 80.0 // canvas units per arrow press at zoom 1
	snapGrid = 20.0 // grid-snap pitch for nudges
	nudge    = 20.0
)

// =============================================================================
// canvasModel - Interactive scene editing
// =============================================================================

// canvasModel is the bubbletea model hosting the shortcut controller. All
// scene mutations go through the store, so the debounced saver observes
// every edit.
type canvasModel struct {
	store      *scene.Store
	controller *keymap.Controller
	cb         ingest.Callbacks

	// storeMu, when set, is shared with the debounce saver; Update holds
	// it so the saver's timer goroutine never reads the store mid-edit.
	storeMu *sync.Mutex

	cursor   int
	selected map[string]bool

	// Rename editing. While editing, the shortcut controller sees
	// EditableFocus and suppresses every binding.
	editing    bool
	editBuffer string

	width  int
	height int
	status string
}

func newCanvasModel(s *scene.Store, cb ingest.Callbacks) *canvasModel {
	m := &canvasModel{
		store:    s,
		cb:       cb,
		selected: make(map[string]bool),
		width:    80,
		height:   24,
	}
	m.controller = keymap.NewController(keymap.Callbacks{
		OnViewMode:        func(v keymap.ViewMode) { m.status = "view: " + v.String() },
		OnGridSnap:        m.onGridSnap,
		OnSetLayout:       m.onSetLayout,
		OnZoomIn:          func() { m.zoomBy(1.2) },
		OnZoomOut:         func() { m.zoomBy(1 / 1.2) },
		OnZoomReset:       m.onZoomReset,
		OnFitView:         m.onFitView,
		OnDeleteSelection: m.onDeleteSelection,
		OnSelectAll:       m.onSelectAll,
		OnClearSelection:  m.onClearSelection,
	})
	return m
}

func (m *canvasModel) Init() tea.Cmd {
	return nil
}

// =============================================================================
// Shortcut callbacks
// =============================================================================

func (m *canvasModel) onGridSnap(on bool) {
	if on {
		m.status = "grid snap on"
	} else {
		m.status = "grid snap off"
	}
}

func (m *canvasModel) onSetLayout(kind scene.LayoutKind) {
	anchor := scene.Point{}
	if bounds, ok := layout.ContentBounds(m.store.Nodes()); ok {
		anchor = bounds.Center()
	}
	placed := layout.Apply(m.store.Nodes(), kind, anchor)
	m.store.SetPositions(layout.Positions(placed))
	m.store.SetActiveLayout(kind)
	if m.cb.OnLayoutChange != nil {
		m.cb.OnLayoutChange(kind)
	}
	m.onFitView()
	m.status = "layout: " + string(kind)
}

func (m *canvasModel) zoomBy(factor float64) {
	cam := m.store.Camera()
	cam.Zoom *= factor
	m.store.SetCamera(cam)
	m.status = fmt.Sprintf("zoom %.0f%%", m.store.Camera().Zoom*100)
}

func (m *canvasModel) onZoomReset() {
	cam := m.store.Camera()
	cam.Zoom = 1
	m.store.SetCamera(cam)
	m.status = "zoom 100%"
}

func (m *canvasModel) onFitView() {
	cam := layout.FitCamera(m.store.Nodes(), float64(m.width)*cellW, float64(m.canvasRows())*cellH, m.store.Camera())
	m.store.SetCamera(cam)
	m.status = "fit"
}

func (m *canvasModel) onDeleteSelection() {
	ids := m.selectionOrCursor()
	if len(ids) == 0 {
		return
	}
	m.store.DeleteNodes(ids)
	m.selected = make(map[string]bool)
	if m.cursor >= m.store.Len() {
		m.cursor = m.store.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.status = fmt.Sprintf("deleted %d", len(ids))
}

func (m *canvasModel) onSelectAll() {
	for _, n := range m.store.Nodes() {
		m.selected[n.ID] = true
	}
	m.status = fmt.Sprintf("selected %d", len(m.selected))
}

func (m *canvasModel) onClearSelection() {
	m.selected = make(map[string]bool)
	m.status = ""
}

// selectionOrCursor returns the selected node IDs, falling back to the
// node under the cursor.
func (m *canvasModel) selectionOrCursor() []string {
	if len(m.selected) > 0 {
		ids := make([]string, 0, len(m.selected))
		for _, n := range m.store.Nodes() {
			if m.selected[n.ID] {
				ids = append(ids, n.ID)
			}
		}
		return ids
	}
	if n, ok := m.cursorNode(); ok {
		return []string{n.ID}
	}
	return nil
}

func (m *canvasModel) cursorNode() (scene.Node, bool) {
	nodes := m.store.Nodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return scene.Node{}, false
	}
	return nodes[m.cursor], true
}

// =============================================================================
// Update
// =============================================================================

func (m *canvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.storeMu != nil {
		m.storeMu.Lock()
		defer m.storeMu.Unlock()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// updateEditing handles rename-mode input. Shortcut dispatch still runs so
// the focus guard is exercised on every keystroke, but it never fires.
func (m *canvasModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if ev, ok := translateKey(msg); ok {
		ev.EditableFocus = true
		m.controller.Dispatch(ev)
	}

	switch msg.String() {
	case "enter":
		m.commitRename()
	case "esc":
		m.editing = false
		m.editBuffer = ""
		m.status = "rename cancelled"
	case "backspace":
		if len(m.editBuffer) > 0 {
			r := []rune(m.editBuffer)
			m.editBuffer = string(r[:len(r)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.editBuffer += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.editBuffer += " "
		}
	}
	return m, nil
}

func (m *canvasModel) commitRename() {
	m.editing = false
	n, ok := m.cursorNode()
	if !ok {
		return
	}
	title := m.editBuffer
	m.editBuffer = ""
	if err := m.store.UpdateNode(n.ID, scene.Patch{Title: &title}); err != nil {
		m.status = "rename failed"
		return
	}
	m.status = "renamed"
}

func (m *canvasModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < m.store.Len()-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case " ":
		if n, ok := m.cursorNode(); ok {
			if m.selected[n.ID] {
				delete(m.selected, n.ID)
			} else {
				m.selected[n.ID] = true
			}
		}
		return m, nil

	case "enter":
		if n, ok := m.cursorNode(); ok {
			m.editing = true
			m.editBuffer = n.Props.Title
			m.status = "renaming " + n.DisplayTitle()
		}
		return m, nil

	case "o":
		if n, ok := m.cursorNode(); ok {
			path := n.Props.Path
			if path == "" {
				path = n.ID
			}
			if m.cb.OnNodeActivate != nil {
				m.cb.OnNodeActivate(path)
			}
			m.status = "opened " + n.DisplayTitle()
		}
		return m, nil

	case "left", "right", "shift+up", "shift+down":
		m.pan(msg.String())
		return m, nil

	case "H", "L", "K", "J":
		m.nudgeSelection(msg.String())
		return m, nil
	}

	if ev, ok := translateKey(msg); ok {
		m.controller.Dispatch(ev)
	}
	return m, nil
}

// pan moves the camera. Left/right arrows pan horizontally; shifted
// up/down pan vertically (bare up/down move the cursor).
func (m *canvasModel) pan(key string) {
	cam := m.store.Camera()
	step := panStep / cam.Zoom
	switch key {
	case "left":
		cam.X += step
	case "right":
		cam.X -= step
	case "shift+up":
		cam.Y += step
	case "shift+down":
		cam.Y -= step
	}
	m.store.SetCamera(cam)
}

// nudgeSelection moves the selected nodes with H/J/K/L. With grid snap on,
// positions land on the snap grid.
func (m *canvasModel) nudgeSelection(key string) {
	var dx, dy float64
	switch key {
	case "H":
		dx = -nudge
	case "L":
		dx = nudge
	case "K":
		dy = -nudge
	case "J":
		dy = nudge
	}

	pos := make(map[string]scene.Point)
	for _, id := range m.selectionOrCursor() {
		n, ok := m.store.Node(id)
		if !ok {
			continue
		}
		x, y := n.X+dx, n.Y+dy
		if m.controller.GridSnap() {
			x = math.Round(x/snapGrid) * snapGrid
			y = math.Round(y/snapGrid) * snapGrid
		}
		pos[id] = scene.Point{X: x, Y: y}
	}
	if len(pos) > 0 {
		m.store.SetPositions(pos)
	}
}

// translateKey normalizes a terminal key press into a shortcut event.
// The terminal has no native behavior to suppress, so bare +/-/0 stand in
// for the modifier zoom chords.
func translateKey(msg tea.KeyMsg) (keymap.KeyEvent, bool) {
	switch s := msg.String(); s {
	case "1", "2", "3", "4", "5", "f", "v", "g":
		return keymap.KeyEvent{Key: s}, true
	case "delete", "backspace":
		return keymap.KeyEvent{Key: s}, true
	case "esc":
		return keymap.KeyEvent{Key: "escape"}, true
	case "+", "=":
		return keymap.KeyEvent{Key: "+", Mod: true}, true
	case "-":
		return keymap.KeyEvent{Key: "-", Mod: true}, true
	case "0":
		return keymap.KeyEvent{Key: "0", Mod: true}, true
	case "ctrl+a":
		return keymap.KeyEvent{Key: "a", Mod: true}, true
	}
	return keymap.KeyEvent{}, false
}

// =============================================================================
// View
// =============================================================================

// Terminal cells are taller than wide; these scale canvas units per cell
// so shapes keep roughly their aspect ratio on screen.
const (
	cellW = 16.0
	cellH = 32.0
)

func (m *canvasModel) canvasRows() int {
	rows := m.height - 4 // header + status + edit line
	if rows < 4 {
		rows = 4
	}
	return rows
}

func (m *canvasModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("loomcanvas · " + m.store.SceneID()))
	b.WriteString("\n")

	switch m.controller.ViewMode() {
	case keymap.ViewList:
		b.WriteString(m.listView(m.canvasRows()))
	case keymap.ViewCanvas:
		b.WriteString(m.canvasView(m.canvasRows()))
	case keymap.ViewSplit:
		rows := m.canvasRows()
		list := strings.Split(m.listView(rows), "\n")
		grid := strings.Split(m.canvasView(rows), "\n")
		half := m.width / 2
		for i := 0; i < rows; i++ {
			var left, right string
			if i < len(list) {
				left = list[i]
			}
			if i < len(grid) {
				right = grid[i]
			}
			b.WriteString(lipgloss.NewStyle().Width(half).MaxWidth(half).Render(left))
			b.WriteString(right)
			b.WriteString("\n")
		}
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m *canvasModel) listView(rows int) string {
	var b strings.Builder
	nodes := m.store.Nodes()

	offset := 0
	if m.cursor >= rows {
		offset = m.cursor - rows + 1
	}
	end := offset + rows
	if end > len(nodes) {
		end = len(nodes)
	}

	for i := offset; i < end; i++ {
		n := nodes[i]

		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("▸ ")
		}
		mark := " "
		if m.selected[n.ID] {
			mark = "●"
		}

		style := nodeNormalStyle
		if m.selected[n.ID] {
			style = nodeSelectedStyle
		}
		line := fmt.Sprintf("%s%s %-10s %s", cursor, mark, n.Kind, style.Render(n.DisplayTitle()))
		b.WriteString(line)
		b.WriteString(nodeDimStyle.Render(fmt.Sprintf("  (%.0f, %.0f)", n.X, n.Y)))
		b.WriteString("\n")
	}
	for i := end - offset; i < rows; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// canvasView projects node centers through the camera onto a character
// grid. Each node shows the first letter of its kind.
func (m *canvasModel) canvasView(rows int) string {
	cols := m.width
	if m.controller.ViewMode() == keymap.ViewSplit {
		cols = m.width - m.width/2
	}
	if cols < 8 {
		cols = 8
	}

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	cam := m.store.Camera()
	for i, n := range m.store.Nodes() {
		if n.Kind == scene.KindConnection {
			continue
		}
		center := n.Center()
		sx := (center.X + cam.X) * cam.Zoom
		sy := (center.Y + cam.Y) * cam.Zoom
		col := int(sx / cellW)
		row := int(sy / cellH)
		if row < 0 || row >= rows || col < 0 || col >= cols {
			continue
		}

		glyph := strings.ToUpper(n.Kind.String()[:1])
		style := nodeNormalStyle
		if m.selected[n.ID] {
			style = nodeSelectedStyle
		}
		if i == m.cursor {
			style = cursorStyle
		}
		grid[row][col] = style.Render(glyph)
	}

	var b strings.Builder
	for _, r := range grid {
		b.WriteString(strings.Join(r, ""))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *canvasModel) statusLine() string {
	cam := m.store.Camera()
	snap := "off"
	if m.controller.GridSnap() {
		snap = "on"
	}
	parts := []string{
		string(m.store.ActiveLayout()),
		fmt.Sprintf("zoom %.0f%%", cam.Zoom*100),
		"snap " + snap,
		fmt.Sprintf("%d nodes", m.store.Len()),
	}
	if len(m.selected) > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", len(m.selected)))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}

	line := statusStyle.Render(strings.Join(parts, " · "))
	if m.editing {
		line += "\n" + StyleHighlight.Render("rename: ") + m.editBuffer + cursorStyle.Render("▎")
	}
	return line
}
