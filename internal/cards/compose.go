package cards

import (
	"fmt"

	"mcnpath/internal/geometry"
	"mcnpath/internal/render"
)

// Compose builds a CardSet without an interview: the mode, defaults,
// volume, and SDEF extras arrive ready-made instead of being asked
// for. Preset rendering goes through here, so a preset and the
// interactive flows produce the same cards for the same inputs.
//
// A zero volume means the volume is not known; a tally that needs an
// SD card then carries the manual-entry advice instead of the card.
func Compose(mode string, d Defaults, volume float64, extras []string, s geometry.Stack) (CardSet, error) {
	if err := s.Validate(); err != nil {
		return CardSet{}, fmt.Errorf("cards: compose: %w", err)
	}
	d = d.normalized()
	switch mode {
	case FlowTally:
		return composeTally(d, volume, s)
	case FlowSource:
		return SDEF(d.Distribution, extras, s)
	case FlowBoth:
		tally, err := composeTally(d, volume, s)
		if err != nil {
			return CardSet{}, err
		}
		source, err := SDEF(d.Distribution, extras, s)
		if err != nil {
			return CardSet{}, err
		}
		tally.Cards = append(tally.Cards, source.Cards...)
		tally.Advice = append(tally.Advice, source.Advice...)
		tally.Notes = append(tally.Notes, source.Notes...)
		return tally, nil
	default:
		return CardSet{}, fmt.Errorf("cards: unknown flow %s", mode)
	}
}

func composeTally(d Defaults, volume float64, s geometry.Stack) (CardSet, error) {
	line, err := Tally(d.Tally, d.Particle, s)
	if err != nil {
		return CardSet{}, err
	}
	var cs CardSet
	cs.Paths = render.Paths(s)
	cs.add("Tally", line)
	if len(cs.Paths) > 1 {
		cs.Notes = append(cs.Notes,
			fmt.Sprintf("Non-contiguous selection: the tally unions %d element paths.", len(cs.Paths)))
	}
	if NeedsSD(s) {
		target, _ := s.Target()
		if volume > 0 {
			cs.add("Segment divisor", SD(d.Tally, volume, target.CellID))
			cs.Advice = append(cs.Advice,
				fmt.Sprintf("The SD card declares that cell %d occupies %s cm3 in each lattice element where it appears.",
					target.CellID, FormatVolume(volume)))
		} else {
			cs.Advice = append(cs.Advice, SDAdvice(d.Tally, target.CellID)...)
		}
	}
	return cs, nil
}
