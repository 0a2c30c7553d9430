package wizard

import (
	"errors"
	"testing"

	"mcnpath/internal/geometry"
)

func TestClimbSimpleThreeLevelChain(t *testing.T) {
	script := NewScript(
		"5", "y", "10", // target cell 5 in universe 10
		"2", "n", "y", "100", // cell 2 fills u10, not a lattice, sits in u100
		"1", "n", "n", // cell 1 fills u100 and is global
	)
	stack, warnings, err := NewBuilder(script).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	assertChain(t, stack, []int{5, 2, 1})
	if stack[1].Fill != 10 || stack[2].Fill != 100 {
		t.Fatalf("fill bookkeeping wrong: %+v", stack)
	}
	if script.Remaining() != 0 {
		t.Fatalf("%d answers left over", script.Remaining())
	}
}

func TestClimbGlobalTargetStopsImmediately(t *testing.T) {
	stack, warnings, err := NewBuilder(NewScript("5", "n")).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	if len(stack) != 1 || stack[0].CellID != 5 || !stack[0].Global() {
		t.Fatalf("expected single global node, got %+v", stack)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestClimbLatticeWithSingleElement(t *testing.T) {
	script := NewScript(
		"101", "y", "10",
		"50", "y", // container is a lattice
		"1", "2", // rectangular, fully specified FILL
		"y", "3 4 0", // a single element
		"y", "20",
		"1", "n", "n",
	)
	stack, _, err := NewBuilder(script).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	assertChain(t, stack, []int{101, 50, 1})
	n := stack[1]
	if n.Lattice != geometry.LatticeRect {
		t.Fatalf("expected rectangular lattice, got %v", n.Lattice)
	}
	if n.Index == nil || *n.Index != (geometry.Triple{3, 4, 0}) {
		t.Fatalf("expected index 3 4 0, got %v", n.Index)
	}
}

func TestClimbLatticeRangeEntryUsesExtentSyntax(t *testing.T) {
	script := NewScript(
		"101", "y", "5",
		"50", "y",
		"2", "2", // hexagonal, fully specified
		"n",              // not a single element
		"2:4", "3:5", "0", // one extent per axis
		"n",
	)
	stack, _, err := NewBuilder(script).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	n := stack[1]
	if n.Lattice != geometry.LatticeHex {
		t.Fatalf("expected hexagonal lattice, got %v", n.Lattice)
	}
	if n.Range == nil || n.Range.String() != "2:4 3:5 0" {
		t.Fatalf("expected range 2:4 3:5 0, got %v", n.Range)
	}
}

func TestClimbDegenerateRangeCollapsesToIndex(t *testing.T) {
	script := NewScript(
		"101", "y", "5",
		"50", "y",
		"1", "2",
		"n",
		"3", "4", "0",
		"n",
	)
	stack, _, err := NewBuilder(script).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	n := stack[1]
	if n.Range != nil {
		t.Fatalf("degenerate range survived normalization: %v", n.Range)
	}
	if n.Index == nil || *n.Index != (geometry.Triple{3, 4, 0}) {
		t.Fatalf("expected index 3 4 0, got %v", n.Index)
	}
}

func TestClimbInfiniteLatticeManualEntry(t *testing.T) {
	script := NewScript(
		"7", "y", "3",
		"60", "y",
		"1", "1", // rectangular, simple fill: infinite
		"y", "9999 -500 0", // any indices are fair game
		"n",
	)
	stack, _, err := NewBuilder(script).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	n := stack[1]
	if n.Index == nil || *n.Index != (geometry.Triple{9999, -500, 0}) {
		t.Fatalf("expected index 9999 -500 0, got %v", n.Index)
	}
}

func TestClimbDepthGuardStopsRunawayAnswers(t *testing.T) {
	script := NewScript(
		"1", "y", "10",
		"2", "n", "y", "20",
		"3", "n", "y", "30",
	)
	_, _, err := NewBuilder(script, WithMaxDepth(3)).Climb()
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected depth guard, got %v", err)
	}
}

func TestClimbCycleGuardCatchesRevisitedUniverse(t *testing.T) {
	script := NewScript(
		"1", "y", "10",
		"2", "n", "y", "20",
		"3", "n", "y", "10", // back to universe 10
	)
	_, _, err := NewBuilder(script).Climb()
	if !errors.Is(err, geometry.ErrUniverseCycle) {
		t.Fatalf("expected cycle guard, got %v", err)
	}
}

func TestClimbExhaustedScriptSurfacesError(t *testing.T) {
	_, _, err := NewBuilder(NewScript("5", "y")).Climb()
	if err == nil {
		t.Fatalf("expected error when answers run out")
	}
}

func TestClimbPickerResultBecomesUnion(t *testing.T) {
	src := &pickerScript{
		Script: NewScript(
			"101", "y", "5",
			"50", "y",
			"1", "1", // rectangular, infinite
			"y",                          // use the visual selector
			"0", "9", "0", "9", "0", "0", // viewing window
			"n",
		),
		elems: []geometry.Triple{{0, 0, 0}, {9, 9, 0}},
	}
	stack, _, err := NewBuilder(src).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("picker ran %d times", src.calls)
	}
	n := stack[1]
	if len(n.Elements) != 2 {
		t.Fatalf("expected sparse pick to stay a union, got %+v", n)
	}
}

func TestClimbPickerContiguousPickBecomesRange(t *testing.T) {
	src := &pickerScript{
		Script: NewScript(
			"101", "y", "5",
			"50", "y",
			"1", "2", // bounded
			"1",                          // pick visually
			"0", "9", "0", "9", "0", "0", // FILL bounds
			"n",
		),
		elems: []geometry.Triple{{2, 3, 0}, {3, 3, 0}, {2, 4, 0}, {3, 4, 0}},
	}
	stack, _, err := NewBuilder(src).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	n := stack[1]
	if n.Range == nil || n.Range.String() != "2:3 3:4 0" {
		t.Fatalf("expected range 2:3 3:4 0, got %+v", n)
	}
}

func TestClimbCancelledPickerFallsBackToManual(t *testing.T) {
	src := &pickerScript{
		Script: NewScript(
			"101", "y", "5",
			"50", "y",
			"1", "1",
			"y",
			"0", "9", "0", "9", "0", "0",
			"y", "5 5 0", // manual fallback answers
			"n",
		),
		err: ErrCanceled,
	}
	stack, _, err := NewBuilder(src).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	n := stack[1]
	if n.Index == nil || *n.Index != (geometry.Triple{5, 5, 0}) {
		t.Fatalf("expected manual index 5 5 0, got %+v", n)
	}
}

func TestClimbOversizedWindowNeedsConfirmation(t *testing.T) {
	src := &pickerScript{
		Script: NewScript(
			"101", "y", "5",
			"50", "y",
			"1", "1",
			"y",
			"0", "29", "0", "29", "0", "0", // 900 cells per layer
			"n",          // decline the oversized window
			"y", "1 1 0", // manual fallback
			"n",
		),
		elems: []geometry.Triple{{0, 0, 0}},
	}
	stack, _, err := NewBuilder(src).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	if src.calls != 0 {
		t.Fatalf("picker should not run after declining the window")
	}
	n := stack[1]
	if n.Index == nil || *n.Index != (geometry.Triple{1, 1, 0}) {
		t.Fatalf("expected manual index 1 1 0, got %+v", n)
	}
}

func TestClimbReasksUnlistedChoice(t *testing.T) {
	script := NewScript(
		"101", "y", "5",
		"50", "y",
		"3", "1", // 3 is not a lattice type; re-ask accepts 1
		"2",
		"y", "0 0 0",
		"n",
	)
	stack, _, err := NewBuilder(script).Climb()
	if err != nil {
		t.Fatalf("climb: %v", err)
	}
	if stack[1].Lattice != geometry.LatticeRect {
		t.Fatalf("expected rectangular after re-ask, got %v", stack[1].Lattice)
	}
}

func assertChain(t *testing.T, stack geometry.Stack, cells []int) {
	t.Helper()
	if len(stack) != len(cells) {
		t.Fatalf("expected %d nodes, got %d: %+v", len(cells), len(stack), stack)
	}
	for i, id := range cells {
		if stack[i].CellID != id {
			t.Fatalf("node %d: expected cell %d, got %d", i, id, stack[i].CellID)
		}
	}
	if !stack[len(stack)-1].Global() {
		t.Fatalf("top of stack is not global: %+v", stack[len(stack)-1])
	}
}

// pickerScript is a Script that also offers a canned visual selector.
type pickerScript struct {
	*Script
	elems []geometry.Triple
	err   error
	calls int
}

func (p *pickerScript) SelectElements(cell int, kind geometry.LatticeKind, window geometry.LatticeSpec, infinite bool) ([]geometry.Triple, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.elems, nil
}
