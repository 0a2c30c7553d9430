package preset

import (
	"fmt"
	"strings"

	"mcnpath/internal/cards"
	"mcnpath/internal/render"
)

// Lint checks a preset the way a reviewer would: schema problems, stack
// invariants, grammar of every rendered path, and expect mismatches. All
// findings are accumulated so one run reports everything.
func Lint(p Preset) []error {
	var errs []error
	normalized := p.Normalized()
	if normalized.ID == "" {
		errs = append(errs, fmt.Errorf("preset: id is required"))
	} else if strings.ContainsAny(normalized.ID, " \t") {
		errs = append(errs, fmt.Errorf("preset %s: id must not contain whitespace", normalized.ID))
	}
	if err := validateMode(normalized.Mode); err != nil {
		errs = append(errs, fmt.Errorf("preset %s: %w", normalized.ID, err))
	}
	if normalized.Tally < 0 {
		errs = append(errs, fmt.Errorf("preset %s: tally %d is negative", normalized.ID, normalized.Tally))
	}
	if normalized.Distribution < 0 {
		errs = append(errs, fmt.Errorf("preset %s: distribution %d is negative", normalized.ID, normalized.Distribution))
	}
	if normalized.Volume < 0 {
		errs = append(errs, fmt.Errorf("preset %s: volume %v is negative", normalized.ID, normalized.Volume))
	}
	for idx, extra := range normalized.Extras {
		if strings.Contains(extra, ",") {
			errs = append(errs, fmt.Errorf("preset %s: extras[%d] %q contains a comma", normalized.ID, idx, extra))
		}
	}

	stack, err := normalized.ToStack()
	if err != nil {
		errs = append(errs, err)
		return errs
	}

	paths := render.Paths(stack)
	for _, expr := range paths {
		for _, lintErr := range render.Lint(expr) {
			errs = append(errs, fmt.Errorf("preset %s: %q: %w", normalized.ID, expr, lintErr))
		}
	}

	needsSD := cards.NeedsSD(stack)
	if hasTally(normalized.Mode) && needsSD && normalized.Volume == 0 {
		errs = append(errs, fmt.Errorf("preset %s: volume is required, the tally needs an SD card", normalized.ID))
	}

	if normalized.Expect != nil {
		expect := normalized.Expect
		if expect.Path != "" {
			if len(paths) != 1 {
				errs = append(errs, fmt.Errorf("preset %s: expect.path set but the stack expands to %d paths", normalized.ID, len(paths)))
			} else if paths[0] != expect.Path {
				errs = append(errs, fmt.Errorf("preset %s: path %q does not match expected %q", normalized.ID, paths[0], expect.Path))
			}
		}
		if expect.Union != "" {
			if union := render.Union(stack); union != expect.Union {
				errs = append(errs, fmt.Errorf("preset %s: union %q does not match expected %q", normalized.ID, union, expect.Union))
			}
		}
		if expect.NeedsSD != nil && *expect.NeedsSD != needsSD {
			errs = append(errs, fmt.Errorf("preset %s: needs_sd is %v, expected %v", normalized.ID, needsSD, *expect.NeedsSD))
		}
	}
	return errs
}

func hasTally(mode string) bool {
	return mode == cards.FlowTally || mode == cards.FlowBoth
}
