package wizard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mcnpath/internal/geometry"
)

// ErrScriptExhausted reports a script that ran out of answers before
// the interview finished.
var ErrScriptExhausted = errors.New("wizard: script exhausted")

// Script replays canned answers in order, one per question. It backs
// the builder tests and the non-interactive answer-file mode; it never
// implements LatticeSelector, so scripted runs always take the typed
// entry paths.
type Script struct {
	answers []string
	pos     int
}

// NewScript returns a Script that will serve the given answers.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

// ScriptFromReader reads one answer per line. Blank lines and lines
// starting with # are skipped, and an inline "  # comment" tail is
// trimmed, so answer files can document themselves.
func ScriptFromReader(r io.Reader) (*Script, error) {
	var answers []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if at := strings.Index(line, "#"); at >= 0 {
			line = line[:at]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		answers = append(answers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wizard: read answers: %w", err)
	}
	return NewScript(answers...), nil
}

// Remaining reports how many answers are left unconsumed.
func (s *Script) Remaining() int { return len(s.answers) - s.pos }

func (s *Script) next(prompt string) (string, error) {
	if s.pos >= len(s.answers) {
		return "", fmt.Errorf("%w: no answer for %q", ErrScriptExhausted, prompt)
	}
	a := s.answers[s.pos]
	s.pos++
	return a, nil
}

func (s *Script) AskInt(prompt string) (int, error) {
	raw, err := s.next(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("wizard: answer %q to %q is not an integer", raw, prompt)
	}
	return v, nil
}

func (s *Script) AskBool(prompt string) (bool, error) {
	raw, err := s.next(prompt)
	if err != nil {
		return false, err
	}
	v, err := ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("wizard: answer to %q: %w", prompt, err)
	}
	return v, nil
}

func (s *Script) AskTriple(prompt string) (geometry.Triple, error) {
	raw, err := s.next(prompt)
	if err != nil {
		return geometry.Triple{}, err
	}
	t, err := geometry.ParseTriple(raw)
	if err != nil {
		return geometry.Triple{}, fmt.Errorf("wizard: answer to %q: %w", prompt, err)
	}
	return t, nil
}

func (s *Script) AskFloat(prompt string) (float64, error) {
	raw, err := s.next(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("wizard: answer %q to %q is not a number", raw, prompt)
	}
	return v, nil
}

func (s *Script) AskString(prompt string) (string, error) {
	return s.next(prompt)
}
