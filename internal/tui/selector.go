package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mcnpath/internal/geometry"
)

// selectorView is the visual element picker. It draws one k-layer of
// the lattice window at a time: a plain grid for LAT=1, an offset-row
// grid for LAT=2 with odd rows shifted right half a cell. The picked
// set goes back to the builder, which collapses a contiguous block to
// a range on its own.
type selectorView struct {
	app      *App
	cell     int
	kind     geometry.LatticeKind
	window   geometry.LatticeSpec
	infinite bool

	cursor   geometry.Triple
	selected map[geometry.Triple]bool
	anchor   *geometry.Triple // rectangle-select anchor, nil when off
}

func newSelectorView(app *App, req selectorRequestMsg) *selectorView {
	v := &selectorView{
		app:      app,
		cell:     req.cell,
		kind:     req.kind,
		window:   req.window,
		infinite: req.infinite,
		selected: map[geometry.Triple]bool{},
	}
	v.cursor = geometry.Triple{req.window.I.Min, req.window.J.Min, req.window.K.Min}
	return v
}

func (v *selectorView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "left", "h":
		v.move(-1, 0, 0)
	case "right", "l":
		v.move(1, 0, 0)
	case "up", "k":
		v.move(0, 1, 0)
	case "down", "j":
		v.move(0, -1, 0)
	case "w":
		v.stepHex(geometry.HexNW)
	case "e":
		v.stepHex(geometry.HexNE)
	case "z":
		v.stepHex(geometry.HexSW)
	case "x":
		v.stepHex(geometry.HexSE)
	case " ":
		v.toggle()
	case "a":
		v.selectLayer()
	case "c":
		v.clearSelection()
	case "r":
		v.toggleRectangle()
	case "[":
		v.move(0, 0, -1)
	case "]":
		v.move(0, 0, 1)
	case "enter", "d":
		return v.accept()
	case "q":
		return v.app.cancelSelector()
	}
	return nil
}

func (v *selectorView) move(di, dj, dk int) {
	v.cursor[0] = clamp(v.cursor[0]+di, v.window.I.Min, v.window.I.Max)
	v.cursor[1] = clamp(v.cursor[1]+dj, v.window.J.Min, v.window.J.Max)
	v.cursor[2] = clamp(v.cursor[2]+dk, v.window.K.Min, v.window.K.Max)
}

// stepHex walks to a diagonal neighbour of the cursor, clamped to the
// window. Only hex lattices have diagonals.
func (v *selectorView) stepHex(d geometry.HexDirection) {
	if v.kind != geometry.LatticeHex {
		return
	}
	next := geometry.HexNeighbor(v.cursor, d)
	v.cursor[0] = clamp(next[0], v.window.I.Min, v.window.I.Max)
	v.cursor[1] = clamp(next[1], v.window.J.Min, v.window.J.Max)
}

func (v *selectorView) toggle() {
	if v.selected[v.cursor] {
		delete(v.selected, v.cursor)
		return
	}
	v.selected[v.cursor] = true
}

func (v *selectorView) selectLayer() {
	k := v.cursor[2]
	for j := v.window.J.Min; j <= v.window.J.Max; j++ {
		for i := v.window.I.Min; i <= v.window.I.Max; i++ {
			v.selected[geometry.Triple{i, j, k}] = true
		}
	}
}

func (v *selectorView) clearSelection() {
	v.selected = map[geometry.Triple]bool{}
	v.anchor = nil
}

// toggleRectangle drops an anchor on the first press and selects the
// whole box between anchor and cursor on the second.
func (v *selectorView) toggleRectangle() {
	if v.anchor == nil {
		anchor := v.cursor
		v.anchor = &anchor
		return
	}
	lo, hi := corners(*v.anchor, v.cursor)
	for k := lo[2]; k <= hi[2]; k++ {
		for j := lo[1]; j <= hi[1]; j++ {
			for i := lo[0]; i <= hi[0]; i++ {
				v.selected[geometry.Triple{i, j, k}] = true
			}
		}
	}
	v.anchor = nil
}

func (v *selectorView) inPreview(t geometry.Triple) bool {
	if v.anchor == nil {
		return false
	}
	lo, hi := corners(*v.anchor, v.cursor)
	for axis := 0; axis < 3; axis++ {
		if t[axis] < lo[axis] || t[axis] > hi[axis] {
			return false
		}
	}
	return true
}

// selection returns the picked elements in reading order.
func (v *selectorView) selection() []geometry.Triple {
	out := make([]geometry.Triple, 0, len(v.selected))
	for t := range v.selected {
		out = append(out, t)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a][2] != out[b][2] {
			return out[a][2] < out[b][2]
		}
		if out[a][1] != out[b][1] {
			return out[a][1] < out[b][1]
		}
		return out[a][0] < out[b][0]
	})
	return out
}

// accept hands the selection to the waiting builder. An empty pick is
// a deliberate fallback to typed entry, not an error.
func (v *selectorView) accept() tea.Cmd {
	app := v.app
	elems := v.selection()
	if app.session != nil {
		app.session.pick(selectorReply{elems: elems})
	}
	if len(elems) == 0 {
		app.statusMsg = "Nothing selected, switching to typed entry"
		app.logInfo("Selector accepted empty for cell %d", v.cell)
	} else {
		app.statusMsg = fmt.Sprintf("%d element(s) selected", len(elems))
		app.logInfo("Selector: %d element(s) picked for cell %d", len(elems), v.cell)
	}
	app.selector = nil
	app.state = stateInterview
	if app.session == nil {
		return nil
	}
	return app.session.nextEvent()
}

func (v *selectorView) View() string {
	var b strings.Builder
	title := fmt.Sprintf("Select elements of cell %d (%s lattice)", v.cell, v.kind)
	if v.infinite {
		title += " · infinite, showing chosen window"
	}
	b.WriteString(accentStyle.Render(title))
	b.WriteString("\n")
	if v.window.K.Count() > 1 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("layer k=%d of %d..%d", v.cursor[2], v.window.K.Min, v.window.K.Max)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for j := v.window.J.Max; j >= v.window.J.Min; j-- {
		var row strings.Builder
		if v.kind == geometry.LatticeHex && ((j%2)+2)%2 == 1 {
			row.WriteString(" ")
		}
		for i := v.window.I.Min; i <= v.window.I.Max; i++ {
			row.WriteString(v.glyph(geometry.Triple{i, j, v.cursor[2]}))
			row.WriteString(" ")
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  j=%d", j)))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("i=%d..%d", v.window.I.Min, v.window.I.Max)))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%d selected · cursor (%d %d %d)", len(v.selected), v.cursor[0], v.cursor[1], v.cursor[2])
	if v.anchor != nil {
		status += fmt.Sprintf(" · rectangle from (%d %d %d)", v.anchor[0], v.anchor[1], v.anchor[2])
	}
	b.WriteString(cardStyle.Render(status))
	b.WriteString("\n")

	keys := "space toggle · a layer · c clear · r rectangle · [ ] change layer · enter accept · esc typed entry"
	if v.kind == geometry.LatticeHex {
		keys = "w/e NW/NE · z/x SW/SE · " + keys
	}
	b.WriteString(dimStyle.Render(keys))
	return b.String()
}

// Glyphs: block = selected, light shade = cursor, dark shade = cursor
// on a selected element, medium shade = rectangle preview.
func (v *selectorView) glyph(t geometry.Triple) string {
	onCursor := t == v.cursor
	switch {
	case onCursor && v.selected[t]:
		return "▓"
	case onCursor:
		return "░"
	case v.selected[t]:
		return "█"
	case v.inPreview(t):
		return "▒"
	default:
		return "·"
	}
}

func corners(a, b geometry.Triple) (geometry.Triple, geometry.Triple) {
	var lo, hi geometry.Triple
	for axis := 0; axis < 3; axis++ {
		lo[axis] = min(a[axis], b[axis])
		hi[axis] = max(a[axis], b[axis])
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
