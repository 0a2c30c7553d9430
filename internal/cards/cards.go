// Package cards formats the MCNP cards the wizard exists to produce:
// tally specifications, SDEF source definitions through an L
// distribution, segment divisor advice, and the verification snippet
// that smoke-tests a finished path.
package cards

import (
	"fmt"
	"strconv"
	"strings"

	"mcnpath/internal/geometry"
	"mcnpath/internal/render"
)

// A Card is one formatted input line plus the label shown above it.
type Card struct {
	Label string
	Line  string
}

// A CardSet is everything one flow produced, in deck order: the card
// lines, the path expressions behind them, and the advice and notes
// the user should read before pasting.
type CardSet struct {
	Cards  []Card
	Paths  []string
	Advice []string
	Notes  []string
}

// Lines returns just the card text, in deck order.
func (cs CardSet) Lines() []string {
	out := make([]string, len(cs.Cards))
	for i, c := range cs.Cards {
		out[i] = c.Line
	}
	return out
}

// String joins the card lines for pasting.
func (cs CardSet) String() string { return strings.Join(cs.Lines(), "\n") }

func (cs *CardSet) add(label, line string) {
	cs.Cards = append(cs.Cards, Card{Label: label, Line: line})
}

// Tally formats the F card for a validated stack:
// F<n>:<particle> <path>, with a union of paths wrapped in one more
// pair of parentheses.
func Tally(number int, particle string, s geometry.Stack) (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("cards: tally: %w", err)
	}
	if number <= 0 {
		return "", fmt.Errorf("cards: tally: number %d is not positive", number)
	}
	p := strings.ToUpper(strings.TrimSpace(particle))
	if p == "" {
		return "", fmt.Errorf("cards: tally: particle designator is required")
	}
	return fmt.Sprintf("F%d:%s %s", number, p, render.Union(s)), nil
}

// SDEF builds the three-card source block: the SDEF pointing at a cell
// distribution, the SI listing each concrete path, and the SP giving
// them equal weight. Extras (POS=..., ERG=...) are appended to the
// SDEF line verbatim.
func SDEF(dist int, extras []string, s geometry.Stack) (CardSet, error) {
	if err := s.Validate(); err != nil {
		return CardSet{}, fmt.Errorf("cards: sdef: %w", err)
	}
	if dist <= 0 {
		return CardSet{}, fmt.Errorf("cards: sdef: distribution number %d is not positive", dist)
	}
	paths := render.Paths(s)
	var cs CardSet
	cs.Paths = paths

	line := fmt.Sprintf("SDEF CEL=d%d", dist)
	for _, x := range extras {
		if t := strings.TrimSpace(x); t != "" {
			line += " " + t
		}
	}
	cs.add("Source definition", line)
	cs.add("Source cells", fmt.Sprintf("SI%d L %s", dist, strings.Join(paths, " ")))

	probs := make([]string, len(paths))
	for i := range probs {
		probs[i] = "1"
	}
	cs.add("Source probabilities", fmt.Sprintf("SP%d %s", dist, strings.Join(probs, " ")))

	if len(paths) > 1 {
		cs.Notes = append(cs.Notes,
			fmt.Sprintf("Non-contiguous selection: %d separate source locations with equal probability.", len(paths)))
	}
	return cs, nil
}

// NeedsSD reports whether a tally over the stack needs a segment
// divisor card. MCNP cannot compute volumes for cells addressed
// through lattice elements, so any selected element along the chain
// means the user must supply the target volume. A lattice cell tallied
// whole, with no element selected, does not need one.
func NeedsSD(s geometry.Stack) bool {
	for _, n := range s {
		if n.Lattice != geometry.LatticeNone && n.HasSelection() {
			return true
		}
	}
	return false
}

// SD formats the segment divisor: the target cell's volume in cm3,
// applied by MCNP to each lattice element the cell appears in.
func SD(number int, volume float64, targetCell int) string {
	return fmt.Sprintf("SD%d %s  $ Volume of Cell %d in cm3", number, FormatVolume(volume), targetCell)
}

// FormatVolume renders a volume the way it should appear on a card:
// shortest decimal form, exponent only when unavoidable.
func FormatVolume(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SDAdvice is what the user sees when a tally needs an SD card but the
// volume is not known yet: the format and a filled-in example.
func SDAdvice(number, targetCell int) []string {
	return []string{
		fmt.Sprintf("This tally requires a segment divisor (SD) card: cell %d is addressed through a lattice element,", targetCell),
		"and MCNP cannot auto-calculate volumes for lattice elements.",
		fmt.Sprintf("Add one manually: SD%d <volume of cell %d in cm3>", number, targetCell),
		fmt.Sprintf("Example: SD%d 2.75  $ Volume of Cell %d in cm3", number, targetCell),
	}
}

// VerificationDeck wraps a card block in the boilerplate of a void
// smoke run: 50 particles, PRINT 110, all materials void. Purely
// textual; the caller supplies the block under test.
func VerificationDeck(title string, cardLines []string) string {
	lines := []string{
		"C --- " + title + " ---",
		"C --- Run with 50 particles and check PRINT 110 output ---",
		"",
	}
	lines = append(lines, cardLines...)
	lines = append(lines,
		"C",
		"NPS 50",
		"PRINT 110",
		"C",
		"C Set all materials to VOID for testing:",
		"C M0   $ Void",
	)
	return strings.Join(lines, "\n")
}

// Verification returns the canonical deck for a stack: a 1 MeV source
// pinned to the path through distribution 1, so PRINT 110 shows where
// particles actually start.
func Verification(s geometry.Stack) string {
	return VerificationDeck("Paste this into an MCNP input for verification", []string{
		"SDEF CEL=d1 ERG=1.0",
		"SI1 L " + render.Union(s),
		"SP1 1",
	})
}

// VerificationInstructions lists the checks to run after pasting a
// verification deck.
func VerificationInstructions() []string {
	return []string{
		"Add this to a copy of your input deck",
		"Set all materials to void (M0 or remove material cards)",
		"Run MCNP",
		"Check the output file for 'source particle' lines",
		"Verify particles start in the correct cell/lattice position",
		"If particles are 'lost' or in Cell 0, check your specification",
	}
}
