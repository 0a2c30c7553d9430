package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mcnpath/internal/geometry"
)

func testWindow() geometry.LatticeSpec {
	return geometry.LatticeSpec{
		I: geometry.Extent{Min: 0, Max: 2},
		J: geometry.Extent{Min: 0, Max: 2},
		K: geometry.Extent{Min: 0, Max: 1},
	}
}

func newTestSelector(kind geometry.LatticeKind) *selectorView {
	return newSelectorView(nil, selectorRequestMsg{cell: 50, kind: kind, window: testWindow()})
}

func press(v *selectorView, keys ...string) {
	for _, k := range keys {
		switch k {
		case "space":
			v.Update(tea.KeyMsg{Type: tea.KeySpace})
		case "left":
			v.Update(tea.KeyMsg{Type: tea.KeyLeft})
		case "right":
			v.Update(tea.KeyMsg{Type: tea.KeyRight})
		case "up":
			v.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "down":
			v.Update(tea.KeyMsg{Type: tea.KeyDown})
		default:
			v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func TestSelectorMovementClampsToWindow(t *testing.T) {
	v := newTestSelector(geometry.LatticeRect)
	press(v, "left", "down")
	if v.cursor != (geometry.Triple{0, 0, 0}) {
		t.Fatalf("cursor = %v, want origin", v.cursor)
	}
	press(v, "right", "right", "right", "right", "up", "up", "up")
	if v.cursor != (geometry.Triple{2, 2, 0}) {
		t.Fatalf("cursor = %v, want clamped corner", v.cursor)
	}
	press(v, "]", "]", "]")
	if v.cursor[2] != 1 {
		t.Fatalf("k = %d, want clamped to 1", v.cursor[2])
	}
	press(v, "[")
	if v.cursor[2] != 0 {
		t.Fatalf("k = %d, want 0", v.cursor[2])
	}
}

func TestHexDiagonalsFollowRowParity(t *testing.T) {
	v := newTestSelector(geometry.LatticeHex)
	v.cursor = geometry.Triple{1, 0, 0}

	press(v, "e") // NE from an even row keeps i
	if v.cursor != (geometry.Triple{1, 1, 0}) {
		t.Fatalf("after NE from even row: %v", v.cursor)
	}
	press(v, "e") // NE from an odd row advances i
	if v.cursor != (geometry.Triple{2, 2, 0}) {
		t.Fatalf("after NE from odd row: %v", v.cursor)
	}
	press(v, "z") // SW from an even row retreats i
	if v.cursor != (geometry.Triple{1, 1, 0}) {
		t.Fatalf("after SW from even row: %v", v.cursor)
	}
	press(v, "w") // NW from an odd row keeps i
	if v.cursor != (geometry.Triple{1, 2, 0}) {
		t.Fatalf("after NW from odd row: %v", v.cursor)
	}
}

func TestHexKeysIgnoredOnRectangularLattice(t *testing.T) {
	v := newTestSelector(geometry.LatticeRect)
	press(v, "e", "w", "z", "x")
	if v.cursor != (geometry.Triple{0, 0, 0}) {
		t.Fatalf("cursor = %v, want unmoved", v.cursor)
	}
}

func TestRectangleSelectFillsBox(t *testing.T) {
	v := newTestSelector(geometry.LatticeRect)
	press(v, "r", "right", "right", "up", "r")
	if len(v.selected) != 6 {
		t.Fatalf("selected %d elements, want 6", len(v.selected))
	}
	if v.anchor != nil {
		t.Fatal("anchor should clear after the second press")
	}
	for _, want := range []geometry.Triple{{0, 0, 0}, {2, 1, 0}} {
		if !v.selected[want] {
			t.Errorf("box missing %v", want)
		}
	}
}

func TestSelectLayerAndClear(t *testing.T) {
	v := newTestSelector(geometry.LatticeRect)
	press(v, "a")
	if len(v.selected) != 9 {
		t.Fatalf("selected %d, want the 9-element layer", len(v.selected))
	}
	press(v, "]", "a")
	if len(v.selected) != 18 {
		t.Fatalf("selected %d, want both layers", len(v.selected))
	}
	press(v, "c")
	if len(v.selected) != 0 {
		t.Fatalf("selected %d after clear", len(v.selected))
	}
}

func TestSelectionIsInReadingOrder(t *testing.T) {
	v := newTestSelector(geometry.LatticeRect)
	v.selected[geometry.Triple{2, 1, 0}] = true
	v.selected[geometry.Triple{0, 0, 0}] = true
	v.selected[geometry.Triple{1, 0, 0}] = true
	got := v.selection()
	want := []geometry.Triple{{0, 0, 0}, {1, 0, 0}, {2, 1, 0}}
	if len(got) != len(want) {
		t.Fatalf("selection = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selection[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestViewMarksSelectionAndCursor(t *testing.T) {
	v := newTestSelector(geometry.LatticeRect)
	press(v, "space", "right")
	view := v.View()
	if !strings.Contains(view, "█ ░ ·") {
		t.Errorf("bottom row not rendered as selected/cursor/empty:\n%s", view)
	}
	if !strings.Contains(view, "1 selected") {
		t.Errorf("status line missing the count:\n%s", view)
	}
}

func TestHexViewShiftsOddRows(t *testing.T) {
	v := newTestSelector(geometry.LatticeHex)
	lines := strings.Split(v.View(), "\n")
	// title, layer line, blank, then rows for j=2, j=1, j=0
	if len(lines) < 6 {
		t.Fatalf("unexpected view layout:\n%s", v.View())
	}
	if strings.HasPrefix(lines[3], " ") {
		t.Errorf("even row j=2 should not be shifted: %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], " ") {
		t.Errorf("odd row j=1 should be shifted half a cell: %q", lines[4])
	}
}
