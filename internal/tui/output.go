package tui

import (
	"fmt"
	"strings"

	"mcnpath/internal/artifact"
	"mcnpath/internal/cards"
	"mcnpath/internal/geometry"
	"mcnpath/internal/render"
	"mcnpath/internal/wizard"
)

// outputView shows a finished CardSet: the containment summary, the
// card lines ready to paste, SD advice, notes, and warnings. The
// verification deck toggle and the artifact store both work off the
// same data.
type outputView struct {
	app      *App
	mode     string
	stack    geometry.Stack
	warnings []wizard.Warning
	cards    cards.CardSet
	showDeck bool
}

func newOutputView(app *App, msg sessionDoneMsg) *outputView {
	return &outputView{
		app:      app,
		mode:     msg.mode,
		stack:    msg.stack,
		warnings: msg.warnings,
		cards:    msg.cards,
	}
}

func (v *outputView) targetCell() int {
	if t, ok := v.stack.Target(); ok {
		return t.CellID
	}
	return 0
}

// save writes the cards, the stack summary, and the verification deck
// through the artifact store, reads each back to confirm it parses, and
// returns the status line to show.
func (v *outputView) save() string {
	store := artifact.NewStore(v.app.config.OutputDir())
	meta := artifact.Metadata{
		Title: fmt.Sprintf("%s flow for cell %d", v.mode, v.targetCell()),
		Notes: map[string]string{
			"mode":  v.mode,
			"paths": fmt.Sprintf("%d", len(v.cards.Paths)),
		},
	}
	saves := []struct {
		ref  artifact.Ref
		body string
	}{
		{artifact.Cards, v.cards.String()},
		{artifact.Summary, v.summaryText()},
		{artifact.VerifyDeck, cards.Verification(v.stack)},
	}
	for _, s := range saves {
		if err := store.Write(s.ref, []byte(s.body), meta); err != nil {
			v.app.logError("Save %s failed: %v", s.ref.ID, err)
			return fmt.Sprintf("Save failed: %v", err)
		}
		result, err := store.Check(s.ref)
		if err != nil {
			v.app.logError("Check %s failed: %v", s.ref.ID, err)
			return fmt.Sprintf("Save failed: %v", err)
		}
		if result.State != artifact.StateReady {
			v.app.logError("Artifact %s is %s after save", s.ref.ID, result.State)
			return fmt.Sprintf("Save failed: %s is %s", s.ref.ID, result.State)
		}
		v.app.logInfo("Saved %s to %s", s.ref.ID, store.Path(s.ref))
	}
	return fmt.Sprintf("Saved to %s", store.Dir())
}

// summaryText is the plain-text form written to the summary artifact.
func (v *outputView) summaryText() string {
	var b strings.Builder
	b.WriteString(render.Summary(v.stack))
	b.WriteString("\n")
	writeSection := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n" + title + ":\n")
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
	}
	writeSection("Warnings", warningTexts(v.warnings))
	writeSection("Advice", v.cards.Advice)
	writeSection("Notes", v.cards.Notes)
	return b.String()
}

func warningTexts(ws []wizard.Warning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Text
	}
	return out
}

func (v *outputView) View() string {
	var sections []string

	sections = append(sections,
		accentStyle.Render("Containment stack"),
		render.Summary(v.stack),
	)

	var lines []string
	for _, c := range v.cards.Cards {
		lines = append(lines, dimStyle.Render(c.Label), cardStyle.Render(c.Line))
	}
	sections = append(sections, "", accentStyle.Render("Cards"), strings.Join(lines, "\n"))

	if len(v.warnings) > 0 {
		var ws []string
		for _, w := range v.warnings {
			ws = append(ws, warnStyle.Render("⚠ "+w.Text))
		}
		sections = append(sections, "", strings.Join(ws, "\n"))
	}
	if len(v.cards.Advice) > 0 {
		sections = append(sections, "", accentStyle.Render("Advice"), dimStyle.Render(strings.Join(v.cards.Advice, "\n")))
	}
	if len(v.cards.Notes) > 0 {
		sections = append(sections, "", dimStyle.Render(strings.Join(v.cards.Notes, "\n")))
	}

	if v.showDeck {
		deck := cards.Verification(v.stack)
		sections = append(sections, "", accentStyle.Render("Verification deck"), deck,
			"", dimStyle.Render(strings.Join(cards.VerificationInstructions(), "\n")))
	}

	sections = append(sections, "", successStyle.Render("Paste the cards into your input deck."))
	return strings.Join(sections, "\n")
}
