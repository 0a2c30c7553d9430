package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"mcnpath/internal/cards"
	"mcnpath/internal/geometry"
	"mcnpath/internal/wizard"
)

// questionMsg asks the interview view to collect one typed answer.
type questionMsg struct {
	prompt  string
	hint    string // expected input shape, shown under the field
	invalid string // set when re-asking after an unusable answer
}

// selectorRequestMsg asks the app to open the visual element picker.
type selectorRequestMsg struct {
	cell     int
	kind     geometry.LatticeKind
	window   geometry.LatticeSpec
	infinite bool
}

// sessionDoneMsg carries a finished interview: the validated stack and
// everything the chosen flow produced for it.
type sessionDoneMsg struct {
	mode     string
	stack    geometry.Stack
	warnings []wizard.Warning
	cards    cards.CardSet
}

// sessionFailedMsg ends a session that could not finish, including the
// user backing out (wizard.ErrCanceled).
type sessionFailedMsg struct {
	err error
}

// selectorReply is what the picker hands back to the waiting builder.
type selectorReply struct {
	elems []geometry.Triple
	err   error
}

// session bridges the synchronous interview to the bubbletea update
// loop. The builder and card flow run in their own goroutine, blocking
// on the channels; the model pumps their questions out with nextEvent
// and feeds answers back in. Closing done releases the goroutine
// wherever it is blocked.
type session struct {
	events  chan tea.Msg
	answers chan string
	picks   chan selectorReply
	done    chan struct{}
	once    sync.Once
}

func newSession() *session {
	return &session{
		events:  make(chan tea.Msg),
		answers: make(chan string, 1),
		picks:   make(chan selectorReply, 1),
		done:    make(chan struct{}),
	}
}

// abort releases the interview goroutine. Safe to call more than once.
func (s *session) abort() {
	s.once.Do(func() { close(s.done) })
}

// nextEvent waits for the interview's next question, picker request, or
// final result. Returns nil once the session goroutine has finished.
func (s *session) nextEvent() tea.Cmd {
	return func() tea.Msg { return <-s.events }
}

// answer hands the current question's answer to the waiting goroutine.
func (s *session) answer(text string) {
	select {
	case s.answers <- text:
	case <-s.done:
	}
}

// pick hands the picker result to the waiting goroutine.
func (s *session) pick(reply selectorReply) {
	select {
	case s.picks <- reply:
	case <-s.done:
	}
}

// run executes the whole session: mode choice, the climb, then the
// mode's card flow. It is the only sender on events and closes the
// channel on return so a pending nextEvent never leaks.
func (s *session) run(registry *cards.Registry, defaults cards.Defaults, maxDepth int) {
	defer close(s.events)

	mode, err := s.askMode()
	if err != nil {
		s.emit(sessionFailedMsg{err: err})
		return
	}
	flow, err := registry.Resolve(mode, defaults)
	if err != nil {
		s.emit(sessionFailedMsg{err: err})
		return
	}

	builder := wizard.NewBuilder(s, wizard.WithMaxDepth(maxDepth))
	stack, warnings, err := builder.Climb()
	if err != nil {
		s.emit(sessionFailedMsg{err: err})
		return
	}
	set, err := flow.Collect(s, stack)
	if err != nil {
		s.emit(sessionFailedMsg{err: err})
		return
	}
	s.emit(sessionDoneMsg{mode: mode, stack: stack, warnings: warnings, cards: set})
}

func (s *session) askMode() (string, error) {
	invalid := ""
	for {
		text, err := s.ask(questionMsg{
			prompt:  "What would you like to create? (1 = tally cards, 2 = source definition, 3 = both)",
			hint:    "1, 2, or 3",
			invalid: invalid,
		})
		if err != nil {
			return "", err
		}
		switch text {
		case "1":
			return cards.FlowTally, nil
		case "2":
			return cards.FlowSource, nil
		case "3":
			return cards.FlowBoth, nil
		}
		invalid = fmt.Sprintf("%q is not one of the choices", text)
	}
}

func (s *session) emit(msg tea.Msg) {
	select {
	case s.events <- msg:
	case <-s.done:
	}
}

// ask publishes one question and blocks until the answer (or the end of
// the session) arrives.
func (s *session) ask(q questionMsg) (string, error) {
	select {
	case s.events <- q:
	case <-s.done:
		return "", wizard.ErrCanceled
	}
	select {
	case text := <-s.answers:
		return strings.TrimSpace(text), nil
	case <-s.done:
		return "", wizard.ErrCanceled
	}
}

// AskInt implements wizard.AnswerSource.
func (s *session) AskInt(prompt string) (int, error) {
	invalid := ""
	for {
		text, err := s.ask(questionMsg{prompt: prompt, hint: "whole number", invalid: invalid})
		if err != nil {
			return 0, err
		}
		if n, convErr := strconv.Atoi(text); convErr == nil {
			return n, nil
		}
		invalid = fmt.Sprintf("%q is not a whole number", text)
	}
}

// AskBool implements wizard.AnswerSource.
func (s *session) AskBool(prompt string) (bool, error) {
	invalid := ""
	for {
		text, err := s.ask(questionMsg{prompt: prompt, hint: "y/n", invalid: invalid})
		if err != nil {
			return false, err
		}
		if v, convErr := wizard.ParseBool(text); convErr == nil {
			return v, nil
		}
		invalid = fmt.Sprintf("%q is not a yes/no answer", text)
	}
}

// AskTriple implements wizard.AnswerSource.
func (s *session) AskTriple(prompt string) (geometry.Triple, error) {
	invalid := ""
	for {
		text, err := s.ask(questionMsg{prompt: prompt, hint: "i j k", invalid: invalid})
		if err != nil {
			return geometry.Triple{}, err
		}
		if t, convErr := geometry.ParseTriple(text); convErr == nil {
			return t, nil
		}
		invalid = fmt.Sprintf("%q is not an i j k index", text)
	}
}

// AskFloat implements wizard.ExtendedAnswerSource.
func (s *session) AskFloat(prompt string) (float64, error) {
	invalid := ""
	for {
		text, err := s.ask(questionMsg{prompt: prompt, hint: "number", invalid: invalid})
		if err != nil {
			return 0, err
		}
		if v, convErr := strconv.ParseFloat(text, 64); convErr == nil {
			return v, nil
		}
		invalid = fmt.Sprintf("%q is not a number", text)
	}
}

// AskString implements wizard.ExtendedAnswerSource. The flows validate
// free text themselves, so anything (including nothing) goes through.
func (s *session) AskString(prompt string) (string, error) {
	return s.ask(questionMsg{prompt: prompt})
}

// SelectElements implements wizard.LatticeSelector by handing the
// request to the selector view and waiting for its reply.
func (s *session) SelectElements(cell int, kind geometry.LatticeKind, window geometry.LatticeSpec, infinite bool) ([]geometry.Triple, error) {
	select {
	case s.events <- selectorRequestMsg{cell: cell, kind: kind, window: window, infinite: infinite}:
	case <-s.done:
		return nil, wizard.ErrCanceled
	}
	select {
	case reply := <-s.picks:
		return reply.elems, reply.err
	case <-s.done:
		return nil, wizard.ErrCanceled
	}
}
