package wizard

import (
	"errors"
	"fmt"

	"mcnpath/internal/geometry"
)

// DefaultMaxDepth bounds the climb so answers that never reach the
// global universe get stopped instead of looping forever.
const DefaultMaxDepth = 32

// Grids past these sizes are hard to display and navigate, so the
// builder asks before launching the picker on one.
const (
	maxCellsPerLayer = 400
	maxTotalCells    = 2000
)

// Builder drives the interview. It owns the question order and the
// climb guards; the AnswerSource owns how questions reach the user.
type Builder struct {
	src      AnswerSource
	maxDepth int
}

// BuilderOption adjusts a Builder.
type BuilderOption func(*Builder)

// WithMaxDepth overrides the climb depth guard.
func WithMaxDepth(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

// NewBuilder returns a Builder reading answers from src.
func NewBuilder(src AnswerSource, opts ...BuilderOption) *Builder {
	b := &Builder{src: src, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Climb runs the bottom-up interview: target cell first, then one
// container per level until a cell sits in the global universe. The
// returned stack is normalized and validated; warnings flag
// constructions that render but are probably not what the user meant.
func (b *Builder) Climb() (geometry.Stack, []Warning, error) {
	target, err := b.src.AskInt("What is the specific cell ID you want to tally/source?")
	if err != nil {
		return nil, nil, err
	}
	stack := geometry.Stack{{CellID: target}}

	inUniverse, err := b.src.AskBool(fmt.Sprintf("Is cell %d inside a universe (not universe 0)?", target))
	if err != nil {
		return nil, nil, err
	}
	universe := 0
	if inUniverse {
		universe, err = b.src.AskInt(fmt.Sprintf("What universe number is cell %d in?", target))
		if err != nil {
			return nil, nil, err
		}
	}
	stack[0].Universe = universe

	seen := map[int]bool{universe: true}
	for universe != 0 {
		if len(stack) >= b.maxDepth {
			return nil, nil, fmt.Errorf("%w: %d levels and still not at the global universe", ErrDepthExceeded, len(stack))
		}
		node, err := b.climbOne(universe)
		if err != nil {
			return nil, nil, err
		}
		if node.Universe != 0 && seen[node.Universe] {
			return nil, nil, fmt.Errorf("%w: universe %d revisited while climbing", geometry.ErrUniverseCycle, node.Universe)
		}
		seen[node.Universe] = true
		stack = append(stack, node)
		universe = node.Universe
	}

	stack = stack.Normalized()
	if err := stack.Validate(); err != nil {
		return nil, nil, err
	}
	return stack, Ambiguities(stack), nil
}

// climbOne collects the container of one universe: the cell that fills
// it, its lattice selection if it is a lattice, and the universe the
// container itself sits in.
func (b *Builder) climbOne(universe int) (geometry.Node, error) {
	cell, err := b.src.AskInt(fmt.Sprintf("What cell fills universe %d?", universe))
	if err != nil {
		return geometry.Node{}, err
	}
	node := geometry.Node{CellID: cell, Fill: universe}

	isLattice, err := b.src.AskBool(fmt.Sprintf("Is cell %d a lattice (LAT=1 or LAT=2)?", cell))
	if err != nil {
		return geometry.Node{}, err
	}
	if isLattice {
		if err := b.latticeSelection(&node); err != nil {
			return geometry.Node{}, err
		}
	}

	nested, err := b.src.AskBool(fmt.Sprintf("Is cell %d inside another universe (not universe 0)?", cell))
	if err != nil {
		return geometry.Node{}, err
	}
	if nested {
		node.Universe, err = b.src.AskInt(fmt.Sprintf("What universe number is cell %d in?", cell))
		if err != nil {
			return geometry.Node{}, err
		}
	}
	return node, nil
}

// latticeSelection collects the lattice kind, the FILL form, and the
// element selection for one lattice container. A simple FILL means the
// lattice is infinite and any indices are fair game; a fully specified
// FILL carries its own bounds, which become the picker window.
func (b *Builder) latticeSelection(node *geometry.Node) error {
	kind, err := b.askChoice("Lattice type (1 = rectangular LAT=1, 2 = hexagonal LAT=2)", 1, 2)
	if err != nil {
		return err
	}
	if kind == 2 {
		node.Lattice = geometry.LatticeHex
	} else {
		node.Lattice = geometry.LatticeRect
	}

	fill, err := b.askChoice("FILL card type (1 = simple fill, lattice extends infinitely; 2 = fully specified, bounded)", 1, 2)
	if err != nil {
		return err
	}
	infinite := fill == 1

	picker, hasPicker := b.src.(LatticeSelector)
	if infinite {
		if hasPicker {
			useVisual, err := b.src.AskBool("Use the visual selector? (requires choosing a viewing window)")
			if err != nil {
				return err
			}
			if useVisual {
				window, err := b.askBounds("Viewing window")
				if err != nil {
					return err
				}
				done, err := b.pickElements(picker, node, window, true)
				if err != nil || done {
					return err
				}
			}
		}
		return b.manualSelection(node)
	}

	if hasPicker {
		method, err := b.askChoice("How should the elements be picked? (1 = visual selector, 2 = manual entry)", 1, 2)
		if err != nil {
			return err
		}
		if method == 1 {
			window, err := b.askBounds("Lattice bounds from the FILL card")
			if err != nil {
				return err
			}
			done, err := b.pickElements(picker, node, window, false)
			if err != nil || done {
				return err
			}
		}
	}
	return b.manualSelection(node)
}

// pickElements runs the visual picker and attaches its result. A
// cancelled or empty pick reports done=false so the caller can fall
// back to typed entry.
func (b *Builder) pickElements(picker LatticeSelector, node *geometry.Node, window geometry.LatticeSpec, infinite bool) (bool, error) {
	ok, err := b.confirmWindowSize(window)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	elems, err := picker.SelectElements(node.CellID, node.Lattice, window, infinite)
	if err != nil {
		if errors.Is(err, ErrCanceled) {
			return false, nil
		}
		return false, err
	}
	if len(elems) == 0 {
		return false, nil
	}
	attachElements(node, elems)
	return true, nil
}

// confirmWindowSize warns about windows too large to navigate and lets
// the user push on anyway.
func (b *Builder) confirmWindowSize(window geometry.LatticeSpec) (bool, error) {
	perLayer := window.I.Count() * window.J.Count()
	total := perLayer * window.K.Count()
	switch {
	case perLayer > maxCellsPerLayer:
		return b.src.AskBool(fmt.Sprintf(
			"The window is %dx%d = %d cells per layer; the selector works best under %d. Continue with the visual selector anyway?",
			window.I.Count(), window.J.Count(), perLayer, maxCellsPerLayer))
	case total > maxTotalCells:
		return b.src.AskBool(fmt.Sprintf(
			"The window has %d cells across %d layers; this may be slow to navigate. Continue with the visual selector anyway?",
			total, window.K.Count()))
	default:
		return true, nil
	}
}

// manualSelection collects a selection by typed entry: a single (i j k)
// index, or one extent per axis. Sources that can take free text get
// the compact min:max syntax; the primitive interface falls back to
// min/max integer pairs.
func (b *Builder) manualSelection(node *geometry.Node) error {
	single, err := b.src.AskBool(fmt.Sprintf("Select a single element of cell %d?", node.CellID))
	if err != nil {
		return err
	}
	if single {
		idx, err := b.src.AskTriple("Element index (i j k)")
		if err != nil {
			return err
		}
		node.Index = &idx
		return nil
	}

	if ext, ok := b.src.(ExtendedAnswerSource); ok {
		var spec geometry.LatticeSpec
		dims := []struct {
			prompt string
			extent *geometry.Extent
		}{
			{"i index or range (e.g. 5 or 0:9)", &spec.I},
			{"j index or range (e.g. 5 or 0:9)", &spec.J},
			{"k index or range (e.g. 0 or 0:2)", &spec.K},
		}
		for _, dim := range dims {
			for {
				raw, err := ext.AskString(dim.prompt)
				if err != nil {
					return err
				}
				e, perr := geometry.ParseExtent(raw)
				if perr != nil {
					continue
				}
				*dim.extent = e
				break
			}
		}
		node.Range = &spec
		return nil
	}

	spec, err := b.askBounds(fmt.Sprintf("Cell %d selection", node.CellID))
	if err != nil {
		return err
	}
	node.Range = &spec
	return nil
}

// askBounds collects one min/max pair per axis, re-asking any axis
// whose maximum falls below its minimum.
func (b *Builder) askBounds(label string) (geometry.LatticeSpec, error) {
	var spec geometry.LatticeSpec
	dims := []struct {
		axis   string
		extent *geometry.Extent
	}{
		{"i", &spec.I},
		{"j", &spec.J},
		{"k", &spec.K},
	}
	for _, dim := range dims {
		for {
			min, err := b.src.AskInt(fmt.Sprintf("%s: %s minimum", label, dim.axis))
			if err != nil {
				return geometry.LatticeSpec{}, err
			}
			max, err := b.src.AskInt(fmt.Sprintf("%s: %s maximum", label, dim.axis))
			if err != nil {
				return geometry.LatticeSpec{}, err
			}
			if max < min {
				continue
			}
			*dim.extent = geometry.Extent{Min: min, Max: max}
			break
		}
	}
	return spec, nil
}

// askChoice re-asks until the answer is one of the listed choices.
func (b *Builder) askChoice(prompt string, choices ...int) (int, error) {
	for {
		v, err := b.src.AskInt(prompt)
		if err != nil {
			return 0, err
		}
		for _, c := range choices {
			if v == c {
				return v, nil
			}
		}
	}
}

// attachElements stores a picked element set in its tightest form: a
// contiguous block becomes a range, anything else stays an explicit
// union.
func attachElements(node *geometry.Node, elems []geometry.Triple) {
	if spec, contiguous := geometry.BoundingBlock(elems); contiguous {
		node.Range = &spec
		return
	}
	node.Elements = elems
}
