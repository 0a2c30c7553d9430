// Package wizard runs the bottom-up interview that turns a user's
// knowledge of their input deck into a validated containment stack.
// The interview itself is frontend-neutral: any AnswerSource can drive
// it, from the interactive TUI to a canned script in tests.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"mcnpath/internal/geometry"
)

// AnswerSource supplies answers to the builder's questions. The three
// primitive askers cover the whole climb.
type AnswerSource interface {
	AskInt(prompt string) (int, error)
	AskBool(prompt string) (bool, error)
	AskTriple(prompt string) (geometry.Triple, error)
}

// ExtendedAnswerSource adds the askers the card flows need beyond the
// climb itself: volumes, tally particles, SDEF extras, and min:max
// range entry.
type ExtendedAnswerSource interface {
	AnswerSource
	AskFloat(prompt string) (float64, error)
	AskString(prompt string) (string, error)
}

// LatticeSelector is implemented by frontends that can offer a visual
// element picker over a bounded window. The builder upgrades to it
// when the answer source provides one and falls back to typed entry
// when it does not, or when the picker is cancelled.
type LatticeSelector interface {
	SelectElements(cell int, kind geometry.LatticeKind, window geometry.LatticeSpec, infinite bool) ([]geometry.Triple, error)
}

var (
	// ErrDepthExceeded stops a climb whose answers never reach the
	// global universe within the configured depth limit.
	ErrDepthExceeded = errors.New("wizard: containment depth limit exceeded")

	// ErrCanceled reports that the user backed out of the interview or
	// a picker rather than answering.
	ErrCanceled = errors.New("wizard: canceled")
)

// A Warning is a non-fatal observation about the finished stack. The
// path still renders; the construction just may not mean what the
// author intended.
type Warning struct {
	Cell int
	Text string
}

func (w Warning) String() string { return w.Text }

// WarnAmbiguousLattice flags a lattice container with no element
// selection. MCNP reads such a path as "every element of the lattice",
// which is rarely deliberate.
func WarnAmbiguousLattice(cell int) Warning {
	return Warning{
		Cell: cell,
		Text: fmt.Sprintf("cell %d is a lattice but no element was selected; the path covers every element", cell),
	}
}

// Ambiguities lists the warnings a finished stack deserves.
func Ambiguities(s geometry.Stack) []Warning {
	var out []Warning
	for _, n := range s {
		if n.Lattice != geometry.LatticeNone && !n.HasSelection() {
			out = append(out, WarnAmbiguousLattice(n.CellID))
		}
	}
	return out
}

// ParseBool reads the yes/no vocabulary the interview accepts.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("wizard: %q is not a yes/no answer", s)
	}
}
