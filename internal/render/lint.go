package render

import (
	"fmt"
	"strings"
)

// Lint checks a rendered path expression against the syntax MCNP
// actually parses: padded parentheses, single-spaced < separators,
// brackets attached to their cell id, and no commas anywhere. It backs
// the QC pass that runs before expressions are written to disk, so the
// messages name what a reader would have to fix.
func Lint(expr string) []error {
	var errs []error
	if expr == "" {
		return []error{fmt.Errorf("expression is empty")}
	}
	if !strings.HasPrefix(expr, "( ") || !strings.HasSuffix(expr, " )") {
		errs = append(errs, fmt.Errorf("expression must be wrapped in padded parentheses: %q", expr))
	}
	if strings.Contains(expr, ",") {
		errs = append(errs, fmt.Errorf("commas are not MCNP path syntax"))
	}
	if strings.Contains(expr, "  ") {
		errs = append(errs, fmt.Errorf("consecutive spaces in expression"))
	}

	parens := 0
	inBracket := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch c {
		case '(':
			if inBracket {
				errs = append(errs, fmt.Errorf("parenthesis inside a bracket selection at offset %d", i))
			}
			parens++
		case ')':
			parens--
			if parens < 0 {
				errs = append(errs, fmt.Errorf("unbalanced closing parenthesis at offset %d", i))
				parens = 0
			}
		case '[':
			if inBracket {
				errs = append(errs, fmt.Errorf("nested bracket at offset %d", i))
			}
			if i == 0 || !isDigit(expr[i-1]) {
				errs = append(errs, fmt.Errorf("bracket must follow its cell id with no space (offset %d)", i))
			}
			inBracket = true
		case ']':
			if !inBracket {
				errs = append(errs, fmt.Errorf("unmatched closing bracket at offset %d", i))
			}
			inBracket = false
		case '<':
			if i == 0 || i == len(expr)-1 || expr[i-1] != ' ' || expr[i+1] != ' ' {
				errs = append(errs, fmt.Errorf("< must be surrounded by single spaces (offset %d)", i))
			}
		default:
			if inBracket && !isDigit(c) && c != ' ' && c != '-' && c != ':' {
				errs = append(errs, fmt.Errorf("character %q is not valid inside a bracket selection", c))
			}
		}
	}
	if parens != 0 {
		errs = append(errs, fmt.Errorf("unbalanced parentheses (%d left open)", parens))
	}
	if inBracket {
		errs = append(errs, fmt.Errorf("bracket selection never closed"))
	}
	return errs
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
