// Package guide holds the embedded MCNP path-syntax reference and renders
// it for terminals via glamour.
package guide

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

const reference = `# MCNP cell path syntax

When a model is built from nested universes, tallies and source
distributions cannot name an inner cell directly. They name the whole
containment path, innermost cell first:

` + "```" + `
F4:N ( 101 < 50[3 4 0] < 1 )
` + "```" + `

Read it right to left: cell 1 sits in the real world, cell 50 fills it
as a lattice, element [3 4 0] of that lattice contains cell 101.

## Grammar

- Bottom-up order. Start at the target cell and climb with ` + "`<`" + ` until
  you reach the cell that sits in universe 0 (the real world). Universe 0
  itself is never written.
- Every level of the nest appears in the path, including the last cell.
- Element indices attach to the **lattice** cell in square brackets:
  ` + "`50[3 4 0]`" + `. Never to the cell inside the element.
- A block of elements uses colon ranges per axis: ` + "`50[2:4 3:5 0]`" + `
  covers i = 2..4, j = 3..5, k = 0.
- Single spaces around ` + "`<`" + `, no commas anywhere, and the whole path
  wrapped in parentheses.

## Worked examples

Plain three-level nest:

` + "```" + `
( 5 < 2 < 1 )
` + "```" + `

Fuel pin in element [3 4 0] of an assembly lattice:

` + "```" + `
( 101 < 50[3 4 0] < 1 )
` + "```" + `

TRISO kernel two lattices deep, terminal cell itself a lattice:

` + "```" + `
( 1001 < 500 < 200[5 5 0] < 50[2 3 0] )
` + "```" + `

## Several elements at once

A tally over scattered elements is a union of paths inside one outer
pair of parentheses:

` + "```" + `
F4:N ( ( 101 < 50[0 0 0] < 1 ) ( 101 < 50[9 9 0] < 1 ) )
` + "```" + `

A source spread over the same elements lists the paths on an SI card
with one probability per bin:

` + "```" + `
SDEF CEL=d1
SI1 L ( 101 < 50[0 0 0] < 1 ) ( 101 < 50[9 9 0] < 1 )
SP1 1 1
` + "```" + `

## SD cards

MCNP cannot compute the volume of a cell addressed through lattice
elements, so any F4-style tally on such a path needs a matching SD card
with the volume in cm3:

` + "```" + `
F4:N ( 101 < 50[3 4 0] < 1 )
SD4 2.75  $ Volume of Cell 101 in cm3
` + "```" + `

Without it the run dies with a "volume not calculated" fatal error.

## Common mistakes

- Commas between indices: ` + "`50[3,4,0]`" + ` is rejected, write ` + "`50[3 4 0]`" + `.
- Attaching the index to the pin instead of the lattice cell:
  ` + "`101[3 4 0] < 50`" + ` is wrong, the lattice cell carries the index.
- Top-down order. The path climbs outward, it never descends.
- Dropping the terminal cell. The path ends at the cell in the real
  world, not at the first lattice.
- Forgetting the SD card on a lattice tally.

## Verifying a path

Paste the generated cards into a copy of your deck, set all materials
to void, and run 50 particles with ` + "`PRINT 110`" + `. Table 110 lists the
starting cell per history; if the path is wrong MCNP refuses it as a
fatal error before any transport happens.
`

// Plain returns the raw markdown for piped output.
func Plain() string {
	return reference
}

// Render returns the reference styled for a terminal of the given width.
// With color disabled the notty style keeps the text readable in pagers
// and files; otherwise the style follows the detected background.
func Render(width int, color bool) (string, error) {
	if width <= 0 {
		width = 80
	}
	style := "notty"
	if color {
		if termenv.HasDarkBackground() {
			style = "dark"
		} else {
			style = "light"
		}
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("guide: build renderer: %w", err)
	}
	out, err := renderer.Render(reference)
	if err != nil {
		return "", fmt.Errorf("guide: render: %w", err)
	}
	return out, nil
}
