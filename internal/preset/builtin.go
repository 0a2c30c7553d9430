package preset

import "fmt"

// Built-in presets covering the worked examples from the syntax guide.
// Each carries an expect block so `presets lint` doubles as a self-check.
var builtinYAML = []string{
	`id: simple-nest
title: Three-level nest without lattices
mode: tally
particle: n
tally: 4
stack:
  - cell: 5
    universe: 10
  - cell: 2
    universe: 5
  - cell: 1
expect:
  path: "( 5 < 2 < 1 )"
  needs_sd: false
`,
	`id: fuel-pin-element
title: Fuel pin inside an assembly lattice element
mode: both
particle: n
tally: 4
distribution: 1
extras: ["ERG=1.0"]
volume: 2.75
stack:
  - cell: 101
    universe: 5
  - cell: 50
    universe: 2
    lattice: rect
    index: [3, 4, 0]
  - cell: 1
expect:
  path: "( 101 < 50[3 4 0] < 1 )"
  needs_sd: true
`,
	`id: range-block
title: Tally over a contiguous block of lattice elements
mode: tally
particle: n
tally: 4
volume: 24.75
stack:
  - cell: 101
    universe: 5
  - cell: 50
    universe: 2
    lattice: rect
    range: ["2:4", "3:5", "0"]
  - cell: 1
expect:
  path: "( 101 < 50[2:4 3:5 0] < 1 )"
  needs_sd: true
`,
	`id: union-corners
title: Source distributed over two corner elements
mode: source
distribution: 1
stack:
  - cell: 101
    universe: 5
  - cell: 50
    universe: 2
    lattice: rect
    elements: [[0, 0, 0], [9, 9, 0]]
  - cell: 1
expect:
  union: "( ( 101 < 50[0 0 0] < 1 ) ( 101 < 50[9 9 0] < 1 ) )"
  needs_sd: true
`,
	`id: deep-triso
title: TRISO kernel inside a doubly nested pebble lattice
mode: tally
particle: n
tally: 4
volume: 0.62
stack:
  - cell: 1001
    universe: 30
  - cell: 500
    universe: 20
  - cell: 200
    universe: 10
    lattice: rect
    index: [5, 5, 0]
  - cell: 50
    lattice: rect
    index: [2, 3, 0]
expect:
  path: "( 1001 < 500 < 200[5 5 0] < 50[2 3 0] )"
  needs_sd: true
`,
	`id: hex-element
title: Pin tally in a hexagonal assembly element
mode: both
particle: n
tally: 14
distribution: 2
extras: ["POS=0 0 0"]
volume: 88.4
stack:
  - cell: 201
    universe: 7
  - cell: 60
    universe: 3
    lattice: hex
    index: [2, 3, 0]
  - cell: 1
expect:
  path: "( 201 < 60[2 3 0] < 1 )"
  needs_sd: true
`,
}

// Builtins parses the embedded presets. IDs are prefixed builtin: in the
// path column so listings show where a preset came from.
func Builtins() ([]File, error) {
	files := make([]File, 0, len(builtinYAML))
	for idx, doc := range builtinYAML {
		presets, err := ParsePresetYAML([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("preset: builtin[%d]: %w", idx, err)
		}
		for _, p := range presets {
			files = append(files, File{Preset: p, Path: "builtin:" + p.ID})
		}
	}
	return files, nil
}
