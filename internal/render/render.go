// Package render turns validated containment stacks into MCNP path
// expressions and the summaries shown before cards are generated.
// Rendering is pure string work; every structural question has been
// settled by the time a stack arrives here.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"mcnpath/internal/geometry"
)

// Path renders one parenthesized path expression, bottom-up: target
// first, the cell in the global universe last. The global universe id
// itself never appears. A node carrying an element union renders as a
// bare cell id; callers wanting concrete paths expand through Paths.
func Path(s geometry.Stack) string {
	parts := make([]string, 0, len(s))
	for _, n := range s {
		parts = append(parts, fragment(n))
	}
	return "( " + strings.Join(parts, " < ") + " )"
}

// Paths expands an element union into one concrete path per element,
// in selection order. A stack without a union yields a single path.
func Paths(s geometry.Stack) []string {
	stacks := s.Expand()
	out := make([]string, len(stacks))
	for i, st := range stacks {
		out[i] = Path(st)
	}
	return out
}

// Union joins the expanded paths the way tally and verification cards
// consume them: a single path stands alone, several are wrapped in one
// more pair of padded parentheses.
func Union(s geometry.Stack) string {
	paths := Paths(s)
	if len(paths) == 1 {
		return paths[0]
	}
	return "( " + strings.Join(paths, " ") + " )"
}

func fragment(n geometry.Node) string {
	switch {
	case n.Index != nil:
		return fmt.Sprintf("%d[%s]", n.CellID, n.Index)
	case n.Range != nil:
		return fmt.Sprintf("%d[%s]", n.CellID, n.Range)
	default:
		return strconv.Itoa(n.CellID)
	}
}

// Summary lists the stack outermost-in, one indented line per level,
// for the review screen and the session journal.
func Summary(s geometry.Stack) string {
	var b strings.Builder
	for i := len(s) - 1; i >= 0; i-- {
		n := s[i]
		b.WriteString(strings.Repeat("  ", len(s)-1-i))
		fmt.Fprintf(&b, "Cell %d", n.CellID)
		if n.Global() {
			b.WriteString(", global universe")
		} else {
			fmt.Fprintf(&b, ", universe %d", n.Universe)
		}
		if n.Lattice != geometry.LatticeNone {
			fmt.Fprintf(&b, ", %s lattice", latticeName(n.Lattice))
		}
		switch {
		case n.Index != nil:
			fmt.Fprintf(&b, " [%s]", n.Index)
		case n.Range != nil:
			fmt.Fprintf(&b, " [%s]", n.Range)
		case len(n.Elements) > 0:
			b.WriteString(" elements")
			for _, e := range n.Elements {
				fmt.Fprintf(&b, " [%s]", e)
			}
		}
		if i == 0 {
			b.WriteString("  <- target")
		}
		if i > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func latticeName(k geometry.LatticeKind) string {
	if k == geometry.LatticeHex {
		return "hexagonal"
	}
	return "rectangular"
}
