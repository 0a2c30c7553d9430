// Package geometry models MCNP containment stacks: the chain of cells,
// universes, and lattice elements that a path expression walks from a
// target cell up to the global universe. It knows nothing about cards or
// prompts; it only captures structure and enforces that a stack is
// well-formed before anything downstream renders it.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// GlobalUniverse is the universe id MCNP reserves for the top level of a
// model. A stack is complete once its top node lives here.
const GlobalUniverse = 0

var (
	// ErrMalformedIndex reports a lattice selection that cannot be used:
	// an index on a non-lattice cell, an inverted range, or a selection
	// attached to the target cell itself.
	ErrMalformedIndex = errors.New("geometry: malformed lattice selection")

	// ErrIncompleteStack reports a containment chain that never reaches
	// the global universe.
	ErrIncompleteStack = errors.New("geometry: stack does not reach the global universe")

	// ErrUniverseCycle reports a universe id that appears twice in one
	// stack, which means the climb looped instead of terminating.
	ErrUniverseCycle = errors.New("geometry: universe repeats in stack")
)

// A Triple is an (i j k) lattice element index.
type Triple [3]int

// String renders the index the way it appears inside a path expression,
// space separated with no commas.
func (t Triple) String() string {
	return fmt.Sprintf("%d %d %d", t[0], t[1], t[2])
}

// ParseTriple reads an "i j k" index. Commas are tolerated as separators
// so pasted values like "1, 0, 0" work too.
func ParseTriple(s string) (Triple, error) {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != 3 {
		return Triple{}, fmt.Errorf("%w: want three indices, got %q", ErrMalformedIndex, s)
	}
	var t Triple
	for n, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Triple{}, fmt.Errorf("%w: %q is not an integer", ErrMalformedIndex, f)
		}
		t[n] = v
	}
	return t, nil
}

// An Extent is an inclusive min:max span along one lattice axis.
type Extent struct {
	Min int
	Max int
}

// Degenerate reports whether the span covers a single element.
func (e Extent) Degenerate() bool { return e.Min == e.Max }

// Count returns the number of elements the span covers.
func (e Extent) Count() int { return e.Max - e.Min + 1 }

// Validate rejects inverted spans.
func (e Extent) Validate() error {
	if e.Max < e.Min {
		return fmt.Errorf("%w: extent %d:%d is inverted", ErrMalformedIndex, e.Min, e.Max)
	}
	return nil
}

// String renders the span in card syntax: "2:4", or a bare integer when
// the span is a single element.
func (e Extent) String() string {
	if e.Degenerate() {
		return strconv.Itoa(e.Min)
	}
	return fmt.Sprintf("%d:%d", e.Min, e.Max)
}

// ParseExtent reads either a bare integer ("5") or a min:max span
// ("2:4").
func ParseExtent(s string) (Extent, error) {
	s = strings.TrimSpace(s)
	if lo, hi, ok := strings.Cut(s, ":"); ok {
		min, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return Extent{}, fmt.Errorf("%w: bad extent %q", ErrMalformedIndex, s)
		}
		max, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return Extent{}, fmt.Errorf("%w: bad extent %q", ErrMalformedIndex, s)
		}
		e := Extent{Min: min, Max: max}
		return e, e.Validate()
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Extent{}, fmt.Errorf("%w: bad extent %q", ErrMalformedIndex, s)
	}
	return Extent{Min: v, Max: v}, nil
}

// A LatticeSpec is an inclusive rectangular block of lattice elements,
// one extent per axis.
type LatticeSpec struct {
	I Extent
	J Extent
	K Extent
}

// Count returns the number of elements inside the block.
func (s LatticeSpec) Count() int {
	return s.I.Count() * s.J.Count() * s.K.Count()
}

// Degenerate reports whether the block is a single element.
func (s LatticeSpec) Degenerate() bool {
	return s.I.Degenerate() && s.J.Degenerate() && s.K.Degenerate()
}

// Index returns the block's single element when it is degenerate.
func (s LatticeSpec) Index() (Triple, bool) {
	if !s.Degenerate() {
		return Triple{}, false
	}
	return Triple{s.I.Min, s.J.Min, s.K.Min}, true
}

// Contains reports whether t falls inside the block.
func (s LatticeSpec) Contains(t Triple) bool {
	return t[0] >= s.I.Min && t[0] <= s.I.Max &&
		t[1] >= s.J.Min && t[1] <= s.J.Max &&
		t[2] >= s.K.Min && t[2] <= s.K.Max
}

// Elements enumerates every element in the block, k-major then row
// order, the same order a fully-specified FILL array lists them.
func (s LatticeSpec) Elements() []Triple {
	out := make([]Triple, 0, s.Count())
	for k := s.K.Min; k <= s.K.Max; k++ {
		for j := s.J.Min; j <= s.J.Max; j++ {
			for i := s.I.Min; i <= s.I.Max; i++ {
				out = append(out, Triple{i, j, k})
			}
		}
	}
	return out
}

// Validate rejects blocks with any inverted extent.
func (s LatticeSpec) Validate() error {
	for _, e := range []Extent{s.I, s.J, s.K} {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the block in path syntax: "2:4 3:5 0".
func (s LatticeSpec) String() string {
	return fmt.Sprintf("%s %s %s", s.I, s.J, s.K)
}

// LatticeKind says how a filled cell arranges its elements.
type LatticeKind int

const (
	// LatticeNone marks an ordinary cell with no lattice card.
	LatticeNone LatticeKind = iota
	// LatticeRect is LAT=1, a rectangular (square or cubic) array.
	LatticeRect
	// LatticeHex is LAT=2, a hexagonal prism array.
	LatticeHex
)

// String returns the short name used in presets and summaries.
func (k LatticeKind) String() string {
	switch k {
	case LatticeRect:
		return "rect"
	case LatticeHex:
		return "hex"
	default:
		return "none"
	}
}

// Card returns the LAT keyword value, or 0 for ordinary cells.
func (k LatticeKind) Card() int {
	switch k {
	case LatticeRect:
		return 1
	case LatticeHex:
		return 2
	default:
		return 0
	}
}

// ParseLatticeKind reads the names accepted in preset files. The MCNP
// numeric forms "1" and "2" work as well.
func ParseLatticeKind(s string) (LatticeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LatticeNone, nil
	case "rect", "rectangular", "square", "1":
		return LatticeRect, nil
	case "hex", "hexagonal", "2":
		return LatticeHex, nil
	default:
		return LatticeNone, fmt.Errorf("geometry: unknown lattice kind %q", s)
	}
}

// A Node is one hop in a containment stack: a cell, the universe it sits
// in, and whatever selection narrows the lattice it fills. At most one
// of Index, Range, and Elements may be set.
type Node struct {
	CellID   int
	Universe int
	Fill     int // universe id the cell is filled with, 0 when unfilled or unknown
	Lattice  LatticeKind
	Index    *Triple
	Range    *LatticeSpec
	Elements []Triple
}

// Global reports whether the node sits in the global universe.
func (n Node) Global() bool { return n.Universe == GlobalUniverse }

// HasSelection reports whether any lattice selection is attached.
func (n Node) HasSelection() bool {
	return n.Index != nil || n.Range != nil || len(n.Elements) > 0
}

// Clone returns a deep copy safe to mutate.
func (n Node) Clone() Node {
	c := n
	if n.Index != nil {
		idx := *n.Index
		c.Index = &idx
	}
	if n.Range != nil {
		r := *n.Range
		c.Range = &r
	}
	if len(n.Elements) > 0 {
		c.Elements = append([]Triple(nil), n.Elements...)
	}
	return c
}

// Validate checks the node in isolation. Stack placement rules live on
// Stack.Validate.
func (n Node) Validate() error {
	if n.CellID <= 0 {
		return fmt.Errorf("geometry: cell id %d is not positive", n.CellID)
	}
	if n.Universe < 0 {
		return fmt.Errorf("geometry: universe %d is negative", n.Universe)
	}
	forms := 0
	if n.Index != nil {
		forms++
	}
	if n.Range != nil {
		forms++
	}
	if len(n.Elements) > 0 {
		forms++
	}
	if forms > 1 {
		return fmt.Errorf("%w: cell %d carries %d selection forms", ErrMalformedIndex, n.CellID, forms)
	}
	if forms > 0 && n.Lattice == LatticeNone {
		return fmt.Errorf("%w: cell %d is not a lattice", ErrMalformedIndex, n.CellID)
	}
	if n.Range != nil {
		if err := n.Range.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Normalized collapses equivalent selection forms: a degenerate range
// becomes a single index, as does a one-element union, and duplicate
// union elements are dropped. The receiver is not modified.
func (n Node) Normalized() Node {
	c := n.Clone()
	if c.Range != nil {
		if idx, ok := c.Range.Index(); ok {
			c.Range = nil
			c.Index = &idx
		}
	}
	if len(c.Elements) > 0 {
		seen := make(map[Triple]struct{}, len(c.Elements))
		uniq := c.Elements[:0]
		for _, e := range c.Elements {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			uniq = append(uniq, e)
		}
		c.Elements = uniq
		if len(c.Elements) == 1 {
			idx := c.Elements[0]
			c.Elements = nil
			c.Index = &idx
		}
	}
	return c
}

// A Stack is a bottom-up containment chain: element 0 is the target cell
// and the last element is the cell sitting in the global universe.
type Stack []Node

// Target returns the cell the chain was built for.
func (s Stack) Target() (Node, bool) {
	if len(s) == 0 {
		return Node{}, false
	}
	return s[0], true
}

// Depth returns the number of hops in the chain.
func (s Stack) Depth() int { return len(s) }

// Clone returns a deep copy safe to mutate.
func (s Stack) Clone() Stack {
	if s == nil {
		return nil
	}
	c := make(Stack, len(s))
	for i, n := range s {
		c[i] = n.Clone()
	}
	return c
}

// UnionNode returns the position of the node carrying an explicit
// element set, if any.
func (s Stack) UnionNode() (int, bool) {
	for i, n := range s {
		if len(n.Elements) > 0 {
			return i, true
		}
	}
	return 0, false
}

// Normalized returns a copy with every node normalized.
func (s Stack) Normalized() Stack {
	c := make(Stack, len(s))
	for i, n := range s {
		c[i] = n.Normalized()
	}
	return c
}

// Validate checks that the chain is something a path expression can be
// built from: non-empty, topped by a cell in the global universe, no
// repeated universes, no selection on the target cell, and at most one
// element union in the whole chain.
func (s Stack) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty stack", ErrIncompleteStack)
	}
	top := s[len(s)-1]
	if !top.Global() {
		return fmt.Errorf("%w: top cell %d sits in universe %d", ErrIncompleteStack, top.CellID, top.Universe)
	}
	if s[0].HasSelection() {
		return fmt.Errorf("%w: target cell %d carries a selection", ErrMalformedIndex, s[0].CellID)
	}
	seen := make(map[int]int, len(s))
	unions := 0
	for i, n := range s {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if prev, dup := seen[n.Universe]; dup {
			return fmt.Errorf("%w: universe %d at nodes %d and %d", ErrUniverseCycle, n.Universe, prev, i)
		}
		seen[n.Universe] = i
		if len(n.Elements) > 0 {
			unions++
		}
	}
	if unions > 1 {
		return fmt.Errorf("%w: %d element unions in one stack", ErrMalformedIndex, unions)
	}
	return nil
}

// Expand splits a stack carrying an element union into one concrete
// stack per element, each with the union replaced by a single index.
// A stack with no union expands to itself.
func (s Stack) Expand() []Stack {
	at, ok := s.UnionNode()
	if !ok {
		return []Stack{s}
	}
	out := make([]Stack, 0, len(s[at].Elements))
	for _, e := range s[at].Elements {
		c := s.Clone()
		idx := e
		c[at].Elements = nil
		c[at].Index = &idx
		out = append(out, c)
	}
	return out
}
