package preset

import (
	"fmt"
	"strings"

	"mcnpath/internal/cards"
	"mcnpath/internal/geometry"
)

// Preset describes a saved wizard session loaded from YAML.
//
// The struct mirrors the on-disk schema under .mcnpath/presets/*.yaml and is
// intentionally narrow so the CLI can validate a preset before any card is
// generated from it.
type Preset struct {
	ID           string      `yaml:"id"`
	Title        string      `yaml:"title,omitempty"`
	Mode         string      `yaml:"mode,omitempty"`
	Particle     string      `yaml:"particle,omitempty"`
	Tally        int         `yaml:"tally,omitempty"`
	Distribution int         `yaml:"distribution,omitempty"`
	Extras       []string    `yaml:"extras,omitempty"`
	Volume       float64     `yaml:"volume,omitempty"`
	Stack        []StackNode `yaml:"stack"`
	Expect       *Expect     `yaml:"expect,omitempty"`
}

// StackNode is one containment level, target first, global cell last.
// The universe is the one the cell sits in; omitting it marks the
// terminal cell. At most one of index, range, and elements may be set.
type StackNode struct {
	Cell     int      `yaml:"cell"`
	Universe int      `yaml:"universe,omitempty"`
	Lattice  string   `yaml:"lattice,omitempty"`
	Index    []int    `yaml:"index,omitempty"`
	Range    []string `yaml:"range,omitempty"`
	Elements [][]int  `yaml:"elements,omitempty"`
}

// Expect holds assertions checked by Lint and the test suite.
type Expect struct {
	Path    string `yaml:"path,omitempty"`
	Union   string `yaml:"union,omitempty"`
	NeedsSD *bool  `yaml:"needs_sd,omitempty"`
}

// Normalized returns a trimmed, copy-on-write variant of the preset.
func (p Preset) Normalized() Preset {
	clone := Preset{
		ID:           strings.TrimSpace(p.ID),
		Title:        strings.TrimSpace(p.Title),
		Mode:         strings.ToLower(strings.TrimSpace(p.Mode)),
		Particle:     strings.ToLower(strings.TrimSpace(p.Particle)),
		Tally:        p.Tally,
		Distribution: p.Distribution,
		Volume:       p.Volume,
	}
	if clone.Mode == "" {
		clone.Mode = cards.FlowBoth
	}
	for _, extra := range p.Extras {
		trimmed := strings.TrimSpace(extra)
		if trimmed == "" {
			continue
		}
		clone.Extras = append(clone.Extras, trimmed)
	}
	if len(p.Stack) > 0 {
		clone.Stack = make([]StackNode, len(p.Stack))
		for i, node := range p.Stack {
			node.Lattice = strings.ToLower(strings.TrimSpace(node.Lattice))
			clone.Stack[i] = node
		}
	}
	if p.Expect != nil {
		expect := Expect{
			Path:  strings.TrimSpace(p.Expect.Path),
			Union: strings.TrimSpace(p.Expect.Union),
		}
		if p.Expect.NeedsSD != nil {
			needs := *p.Expect.NeedsSD
			expect.NeedsSD = &needs
		}
		clone.Expect = &expect
	}
	return clone
}

// Validate ensures the preset is well-formed and describes a buildable
// containment stack.
func (p Preset) Validate() error {
	normalized := p.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("preset: id is required")
	}
	if strings.ContainsAny(normalized.ID, " \t") {
		return fmt.Errorf("preset %s: id must not contain whitespace", normalized.ID)
	}
	if err := validateMode(normalized.Mode); err != nil {
		return fmt.Errorf("preset %s: %w", normalized.ID, err)
	}
	if normalized.Tally < 0 {
		return fmt.Errorf("preset %s: tally %d is negative", normalized.ID, normalized.Tally)
	}
	if normalized.Distribution < 0 {
		return fmt.Errorf("preset %s: distribution %d is negative", normalized.ID, normalized.Distribution)
	}
	if normalized.Volume < 0 {
		return fmt.Errorf("preset %s: volume %v is negative", normalized.ID, normalized.Volume)
	}
	for idx, extra := range normalized.Extras {
		if strings.Contains(extra, ",") {
			return fmt.Errorf("preset %s: extras[%d] %q contains a comma", normalized.ID, idx, extra)
		}
	}
	if _, err := normalized.ToStack(); err != nil {
		return err
	}
	return nil
}

// ToStack converts the YAML stack into a validated containment stack.
// Fill links are derived: each container is filled with the universe the
// node below it sits in.
func (p Preset) ToStack() (geometry.Stack, error) {
	normalized := p.Normalized()
	if len(normalized.Stack) == 0 {
		return nil, fmt.Errorf("preset %s: stack is empty", normalized.ID)
	}
	stack := make(geometry.Stack, 0, len(normalized.Stack))
	for i, raw := range normalized.Stack {
		node, err := raw.toNode()
		if err != nil {
			return nil, fmt.Errorf("preset %s: stack[%d]: %w", normalized.ID, i, err)
		}
		if i > 0 {
			node.Fill = stack[i-1].Universe
		}
		stack = append(stack, node)
	}
	stack = stack.Normalized()
	if err := stack.Validate(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", normalized.ID, err)
	}
	return stack, nil
}

// Defaults seeds the card flows with the preset's numbers.
func (p Preset) Defaults() cards.Defaults {
	return cards.Defaults{
		Tally:        p.Tally,
		Particle:     p.Particle,
		Distribution: p.Distribution,
	}
}

func (sn StackNode) toNode() (geometry.Node, error) {
	kind, err := geometry.ParseLatticeKind(sn.Lattice)
	if err != nil {
		return geometry.Node{}, err
	}
	node := geometry.Node{CellID: sn.Cell, Universe: sn.Universe, Lattice: kind}
	forms := 0
	if len(sn.Index) > 0 {
		if len(sn.Index) != 3 {
			return geometry.Node{}, fmt.Errorf("index needs 3 entries, got %d", len(sn.Index))
		}
		idx := geometry.Triple{sn.Index[0], sn.Index[1], sn.Index[2]}
		node.Index = &idx
		forms++
	}
	if len(sn.Range) > 0 {
		if len(sn.Range) != 3 {
			return geometry.Node{}, fmt.Errorf("range needs 3 entries, got %d", len(sn.Range))
		}
		var spec geometry.LatticeSpec
		for axis, target := range []*geometry.Extent{&spec.I, &spec.J, &spec.K} {
			extent, err := geometry.ParseExtent(sn.Range[axis])
			if err != nil {
				return geometry.Node{}, fmt.Errorf("range[%d]: %w", axis, err)
			}
			*target = extent
		}
		node.Range = &spec
		forms++
	}
	if len(sn.Elements) > 0 {
		elements := make([]geometry.Triple, 0, len(sn.Elements))
		for idx, raw := range sn.Elements {
			if len(raw) != 3 {
				return geometry.Node{}, fmt.Errorf("elements[%d] needs 3 entries, got %d", idx, len(raw))
			}
			elements = append(elements, geometry.Triple{raw[0], raw[1], raw[2]})
		}
		node.Elements = elements
		forms++
	}
	if forms > 1 {
		return geometry.Node{}, fmt.Errorf("cell %d: choose one of index, range, elements", sn.Cell)
	}
	return node, nil
}

func validateMode(mode string) error {
	switch mode {
	case cards.FlowTally, cards.FlowSource, cards.FlowBoth:
		return nil
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
