package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const transcriptKeep = 8

// interviewView collects one typed answer at a time for the session
// goroutine. It never interprets answers itself; the askers in
// session.go re-ask until the text parses, and the re-ask arrives here
// as a questionMsg with its invalid field set.
type interviewView struct {
	app        *App
	input      textinput.Model
	current    questionMsg
	transcript []string
	asked      bool
}

func newInterviewView(app *App) *interviewView {
	input := textinput.New()
	input.Placeholder = "answer"
	input.Width = 48
	input.Focus()
	return &interviewView{app: app, input: input}
}

// setQuestion swaps in the next prompt. A re-ask keeps the typed text
// so fixing a typo does not mean retyping the whole answer.
func (v *interviewView) setQuestion(q questionMsg) {
	if q.invalid == "" {
		v.input.Reset()
	}
	v.current = q
	v.asked = true
}

func (v *interviewView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		return v.submit()
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

// submit hands the current answer to the session goroutine and pumps
// for whatever it needs next. asked stays false until the next
// questionMsg arrives, so repeated enter presses cannot double-send.
func (v *interviewView) submit() tea.Cmd {
	if !v.asked || v.app.session == nil {
		return nil
	}
	v.asked = false
	text := strings.TrimSpace(v.input.Value())
	v.remember(v.current.prompt, text)
	v.app.session.answer(text)
	return v.app.session.nextEvent()
}

func (v *interviewView) remember(prompt, answer string) {
	if answer == "" {
		answer = "(empty)"
	}
	v.transcript = append(v.transcript, prompt+" → "+answer)
	if len(v.transcript) > transcriptKeep {
		v.transcript = v.transcript[len(v.transcript)-transcriptKeep:]
	}
}

func (v *interviewView) View() string {
	var b strings.Builder
	b.WriteString(accentStyle.Render("Containment interview"))
	b.WriteString("\n\n")
	if len(v.transcript) > 0 {
		b.WriteString(dimStyle.Render(strings.Join(v.transcript, "\n")))
		b.WriteString("\n\n")
	}
	if v.current.invalid != "" {
		b.WriteString(errorStyle.Render(v.current.invalid))
		b.WriteString("\n")
	}
	prompt := v.current.prompt
	if prompt == "" {
		prompt = "Waiting for the first question..."
	}
	b.WriteString(cardStyle.Render(prompt))
	b.WriteString("\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	if v.current.hint != "" {
		b.WriteString(dimStyle.Render("expected: " + v.current.hint))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("enter submits · esc abandons"))
	return b.String()
}
