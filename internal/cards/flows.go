package cards

import (
	"fmt"
	"strconv"
	"strings"

	"mcnpath/internal/geometry"
	"mcnpath/internal/render"
	"mcnpath/internal/wizard"
)

// A Flow packages the card generators behind one of the user-facing
// modes. Collect runs the mode's follow-up questions against a
// finished stack and returns everything to show and save.
type Flow interface {
	ID() string
	Title() string
	Collect(src wizard.ExtendedAnswerSource, s geometry.Stack) (CardSet, error)
}

// Defaults seeds the flow prompts so a bare answer keeps the usual
// numbers. Zero values fall back to MCNP's everyday choices.
type Defaults struct {
	Tally        int
	Particle     string
	Distribution int
}

func (d Defaults) normalized() Defaults {
	if d.Tally <= 0 {
		d.Tally = 4
	}
	if strings.TrimSpace(d.Particle) == "" {
		d.Particle = "n"
	}
	if d.Distribution <= 0 {
		d.Distribution = 1
	}
	return d
}

type tallyFlow struct {
	defaults Defaults
}

func (tallyFlow) ID() string    { return FlowTally }
func (tallyFlow) Title() string { return "Tally specification (F card)" }

func (f tallyFlow) Collect(src wizard.ExtendedAnswerSource, s geometry.Stack) (CardSet, error) {
	if err := s.Validate(); err != nil {
		return CardSet{}, fmt.Errorf("cards: tally flow: %w", err)
	}
	number, err := src.AskInt(fmt.Sprintf("Tally number (the N in FN, e.g. %d)", f.defaults.Tally))
	if err != nil {
		return CardSet{}, err
	}
	particle, err := src.AskString(fmt.Sprintf("Particle designator (N, P, E, ...; empty keeps %s)", strings.ToUpper(f.defaults.Particle)))
	if err != nil {
		return CardSet{}, err
	}
	if strings.TrimSpace(particle) == "" {
		particle = f.defaults.Particle
	}

	line, err := Tally(number, particle, s)
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
		knows, err := src.AskBool(fmt.Sprintf("Do you know the volume of cell %d (in cm3)?", target.CellID))
		if err != nil {
			return CardSet{}, err
		}
		if knows {
			volume, err := src.AskFloat(fmt.Sprintf("Volume of cell %d (cm3)", target.CellID))
			if err != nil {
				return CardSet{}, err
			}
			cs.add("Segment divisor", SD(number, volume, target.CellID))
			cs.Advice = append(cs.Advice,
				fmt.Sprintf("The SD card declares that cell %d occupies %s cm3 in each lattice element where it appears.",
					target.CellID, FormatVolume(volume)))
		} else {
			cs.Advice = append(cs.Advice, SDAdvice(number, target.CellID)...)
		}
	}
	return cs, nil
}

type sourceFlow struct {
	defaults Defaults
}

func (sourceFlow) ID() string    { return FlowSource }
func (sourceFlow) Title() string { return "Source definition (SDEF)" }

func (f sourceFlow) Collect(src wizard.ExtendedAnswerSource, s geometry.Stack) (CardSet, error) {
	if err := s.Validate(); err != nil {
		return CardSet{}, fmt.Errorf("cards: source flow: %w", err)
	}
	dist, err := src.AskInt(fmt.Sprintf("Distribution number (e.g. %d for d%d)", f.defaults.Distribution, f.defaults.Distribution))
	if err != nil {
		return CardSet{}, err
	}

	var extras []string
	var notes []string
	wantPos, err := src.AskBool("Specify a source position (POS)?")
	if err != nil {
		return CardSet{}, err
	}
	if wantPos {
		x, err := askNumber(src, "X coordinate")
		if err != nil {
			return CardSet{}, err
		}
		y, err := askNumber(src, "Y coordinate")
		if err != nil {
			return CardSet{}, err
		}
		z, err := askNumber(src, "Z coordinate")
		if err != nil {
			return CardSet{}, err
		}
		extras = append(extras, fmt.Sprintf("POS=%s %s %s", x, y, z))
		notes = append(notes, "POS coordinates are read in the target cell's local frame, not the global one.")
	}
	wantErg, err := src.AskBool("Specify a source energy (ERG)?")
	if err != nil {
		return CardSet{}, err
	}
	if wantErg {
		erg, err := askNumber(src, "Energy (MeV)")
		if err != nil {
			return CardSet{}, err
		}
		extras = append(extras, "ERG="+erg)
	}

	cs, err := SDEF(dist, extras, s)
	if err != nil {
		return CardSet{}, err
	}
	cs.Notes = append(cs.Notes, notes...)
	return cs, nil
}

type bothFlow struct {
	defaults Defaults
}

func (bothFlow) ID() string    { return FlowBoth }
func (bothFlow) Title() string { return "Tally and source definition" }

func (f bothFlow) Collect(src wizard.ExtendedAnswerSource, s geometry.Stack) (CardSet, error) {
	tally, err := tallyFlow{defaults: f.defaults}.Collect(src, s)
	if err != nil {
		return CardSet{}, err
	}
	source, err := sourceFlow{defaults: f.defaults}.Collect(src, s)
	if err != nil {
		return CardSet{}, err
	}
	tally.Cards = append(tally.Cards, source.Cards...)
	tally.Advice = append(tally.Advice, source.Advice...)
	tally.Notes = append(tally.Notes, source.Notes...)
	return tally, nil
}

// askNumber keeps the user's spelling of a number (so 1.0 stays 1.0 on
// the card) while still refusing anything that does not parse.
func askNumber(src wizard.ExtendedAnswerSource, prompt string) (string, error) {
	for {
		raw, err := src.AskString(prompt)
		if err != nil {
			return "", err
		}
		raw = strings.TrimSpace(raw)
		if _, perr := strconv.ParseFloat(raw, 64); perr == nil {
			return raw, nil
		}
	}
}
