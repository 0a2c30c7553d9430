// internal/tui/app.go
//
// The interactive wizard. bubbletea follows The Elm Architecture:
// state lives in the App model, messages drive Update, View renders a
// string. The interview itself is synchronous, so a session goroutine
// runs it and the model exchanges questions and answers with it over
// channels (see session.go).

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mcnpath/internal/cards"
	"mcnpath/internal/config"
	"mcnpath/internal/guide"
	"mcnpath/internal/journal"
	"mcnpath/internal/preset"
	"mcnpath/internal/wizard"
)

// appState represents which screen is showing.
type appState int

const (
	stateMenu      appState = iota // main menu
	stateInterview                 // Q&A driven by the session goroutine
	stateSelector                  // visual lattice element picker
	stateOutput                    // finished cards, advice, verification deck
	statePresets                   // preset browser
	stateGuide                     // scrollable syntax guide
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	cardStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CCCCCC"))
)

// PresetLoader resolves the presets shown in the browser.
type PresetLoader func(*config.Config) ([]preset.File, error)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithPresetLoader overrides preset discovery.
func WithPresetLoader(loader PresetLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.presetLoader = loader
		}
	}
}

// WithColor forces color rendering on or off.
func WithColor(enabled bool) AppOption {
	return func(a *App) {
		a.color = enabled
	}
}

// App is the top-level model holding every screen's state.
type App struct {
	state    appState
	config   *config.Config
	journal  *journal.Journal
	registry *cards.Registry

	presetLoader PresetLoader
	color        bool

	mainMenu list.Model

	session   *session
	interview *interviewView
	selector  *selectorView
	output    *outputView
	presets   *presetsView

	guide      viewport.Model
	guideText  string
	guideWidth int

	statusMsg string
	width     int
	height    int
}

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates the wizard model for a project directory.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.New(projectDir)
	if err != nil {
		return nil, err
	}
	jl, err := journal.New(cfg.JournalPath())
	if err == nil {
		jl.Info("Session opened in %s", cfg.ProjectDir)
	}

	mainMenu := list.New(buildMainMenu(), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "MCNP path expression wizard"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:        stateMenu,
		config:       cfg,
		journal:      jl,
		registry:     cards.DefaultRegistry(),
		presetLoader: preset.Discover,
		color:        true,
		mainMenu:     mainMenu,
		statusMsg:    "Enter selects, q quits",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app, nil
}

// Run launches the wizard in the alternate screen and blocks until it
// exits.
func Run(projectDir string, opts ...AppOption) error {
	app, err := NewApp(projectDir, opts...)
	if err != nil {
		return err
	}
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func buildMainMenu() []list.Item {
	return []list.Item{
		menuItem{title: "Build cards", desc: "Answer the interview, get tally and source cards"},
		menuItem{title: "Browse presets", desc: "Render a saved containment stack"},
		menuItem{title: "Guide", desc: "Path syntax rules and worked examples"},
		menuItem{title: "Quit", desc: "Leave mcnpath"},
	}
}

func (a *App) logInfo(format string, args ...any)  { a.journal.Info(format, args...) }
func (a *App) logWarn(format string, args ...any)  { a.journal.Warn(format, args...) }
func (a *App) logError(format string, args ...any) { a.journal.Error(format, args...) }

func (a *App) defaults() cards.Defaults {
	return cards.Defaults{
		Tally:        a.config.Project.DefaultTally,
		Particle:     a.config.Project.DefaultParticle,
		Distribution: a.config.Project.DefaultDistribution,
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		if a.presets != nil {
			a.presets.setSize(msg.Width, msg.Height)
		}
		if a.state == stateGuide {
			return a, a.resizeGuide()
		}
		return a, nil

	case questionMsg:
		if a.interview != nil {
			a.interview.setQuestion(msg)
		}
		a.state = stateInterview
		return a, nil

	case selectorRequestMsg:
		a.selector = newSelectorView(a, msg)
		a.state = stateSelector
		a.statusMsg = "Space toggles, enter accepts, esc falls back to typed entry"
		return a, nil

	case sessionDoneMsg:
		return a.finishSession(msg)

	case sessionFailedMsg:
		return a.failSession(msg.err)

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			if a.session != nil {
				a.session.abort()
			}
			a.logInfo("Session closed")
			return a, tea.Quit
		case "q":
			switch a.state {
			case stateMenu:
				a.logInfo("Session closed")
				return a, tea.Quit
			case stateGuide, statePresets:
				return a.returnToMenu()
			}
		case "esc":
			switch a.state {
			case stateInterview:
				return a.abortInterview()
			case stateSelector:
				return a, a.cancelSelector()
			case stateOutput, stateGuide, statePresets:
				return a.returnToMenu()
			}
		case "enter":
			if a.state == stateMenu {
				return a.handleMenuSelection()
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateMenu:
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case stateInterview:
		if a.interview != nil {
			if cmd := a.interview.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateSelector:
		if a.selector != nil {
			if cmd := a.selector.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateOutput:
		if key, ok := msg.(tea.KeyMsg); ok && a.output != nil {
			return a.handleOutputKey(key.String())
		}
	case statePresets:
		if a.presets != nil {
			if cmd := a.presets.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateGuide:
		var cmd tea.Cmd
		a.guide, cmd = a.guide.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

// handleMenuSelection processes a main menu choice.
func (a *App) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "Build cards":
		a.logInfo("Menu: build cards")
		return a.startInterview()
	case "Browse presets":
		a.logInfo("Menu: browse presets")
		return a.openPresets()
	case "Guide":
		a.logInfo("Menu: guide")
		return a.openGuide()
	case "Quit":
		a.logInfo("Session closed")
		return a, tea.Quit
	}
	return a, nil
}

// startInterview spins up a fresh session goroutine and switches to the
// interview screen.
func (a *App) startInterview() (tea.Model, tea.Cmd) {
	a.session = newSession()
	a.interview = newInterviewView(a)
	a.output = nil
	a.state = stateInterview
	a.statusMsg = "Interview running, esc abandons"
	a.logInfo("Interview started")
	go a.session.run(a.registry, a.defaults(), a.config.MaxDepth())
	return a, tea.Batch(a.session.nextEvent(), textinput.Blink)
}

// abortInterview releases the session goroutine and returns to the
// menu. The journal records the abandoned run.
func (a *App) abortInterview() (tea.Model, tea.Cmd) {
	if a.session != nil {
		a.session.abort()
	}
	a.logWarn("Interview abandoned before completion")
	a.statusMsg = "Interview abandoned"
	return a.returnToMenu()
}

// cancelSelector backs out of the visual picker; the builder falls back
// to typed entry, so the interview keeps going.
func (a *App) cancelSelector() tea.Cmd {
	if a.session == nil {
		a.selector = nil
		a.state = stateInterview
		return nil
	}
	a.session.pick(selectorReply{err: wizard.ErrCanceled})
	a.selector = nil
	a.state = stateInterview
	a.statusMsg = "Selector canceled, switching to typed entry"
	a.logInfo("Visual selector canceled")
	return a.session.nextEvent()
}

// finishSession lands a completed interview (or rendered preset) on the
// output screen and journals every card line verbatim.
func (a *App) finishSession(msg sessionDoneMsg) (tea.Model, tea.Cmd) {
	a.output = newOutputView(a, msg)
	a.interview = nil
	a.selector = nil
	a.state = stateOutput
	a.statusMsg = "v verification deck · s save · n start over · esc menu"
	a.logInfo("Cards ready: %s flow, %d path(s)", msg.mode, len(msg.cards.Paths))
	for _, w := range msg.warnings {
		a.logWarn("%s", w.Text)
	}
	for _, line := range msg.cards.Lines() {
		a.journal.Card(line)
	}
	return a, nil
}

func (a *App) failSession(err error) (tea.Model, tea.Cmd) {
	if a.session != nil {
		a.session.abort()
	}
	if errors.Is(err, wizard.ErrCanceled) {
		a.statusMsg = "Interview canceled"
		a.logWarn("Interview canceled")
	} else {
		a.statusMsg = fmt.Sprintf("Interview failed: %v", err)
		a.logError("Interview failed: %v", err)
	}
	return a.returnToMenu()
}

// openPresets discovers presets and shows the browser.
func (a *App) openPresets() (tea.Model, tea.Cmd) {
	files, err := a.presetLoader(a.config)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Preset discovery failed: %v", err)
		a.logError("Preset discovery failed: %v", err)
		return a, nil
	}
	a.presets = newPresetsView(a, files)
	a.presets.setSize(a.width, a.height)
	a.state = statePresets
	a.statusMsg = "Enter renders the selected preset, esc returns"
	return a, nil
}

// choosePreset renders the selected preset through the same output
// screen a finished interview uses.
func (a *App) choosePreset(f preset.File) (tea.Model, tea.Cmd) {
	stack, err := f.Preset.ToStack()
	if err != nil {
		a.statusMsg = fmt.Sprintf("Preset %s: %v", f.Preset.ID, err)
		a.logError("Preset %s rejected: %v", f.Preset.ID, err)
		return a, nil
	}
	set, err := cards.Compose(f.Preset.Mode, f.Preset.Defaults(), f.Preset.Volume, f.Preset.Extras, stack)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Preset %s: %v", f.Preset.ID, err)
		a.logError("Preset %s rejected: %v", f.Preset.ID, err)
		return a, nil
	}
	a.logInfo("Preset %s rendered", f.Preset.ID)
	return a.finishSession(sessionDoneMsg{
		mode:     f.Preset.Mode,
		stack:    stack,
		warnings: wizard.Ambiguities(stack),
		cards:    set,
	})
}

// openGuide renders the syntax guide for the current width and hands it
// to a viewport.
func (a *App) openGuide() (tea.Model, tea.Cmd) {
	a.state = stateGuide
	a.statusMsg = "Arrows and pgup/pgdn scroll, esc returns"
	return a, a.resizeGuide()
}

func (a *App) resizeGuide() tea.Cmd {
	width := a.width
	if width <= 0 {
		width = 100
	}
	height := a.height
	if height <= 0 {
		height = 30
	}
	contentWidth := max(40, width-6)
	if a.guideText == "" || a.guideWidth != contentWidth {
		text, err := guide.Render(contentWidth, a.color)
		if err != nil {
			a.logError("Guide render failed: %v", err)
			text = guide.Plain()
		}
		a.guideText = text
		a.guideWidth = contentWidth
	}
	a.guide = viewport.New(contentWidth, max(5, height-10))
	a.guide.SetContent(a.guideText)
	return nil
}

// returnToMenu drops any in-progress screen state.
func (a *App) returnToMenu() (tea.Model, tea.Cmd) {
	a.state = stateMenu
	a.session = nil
	a.interview = nil
	a.selector = nil
	a.presets = nil
	a.statusMsg = "Enter selects, q quits"
	return a, nil
}

// handleOutputKey drives the output screen.
func (a *App) handleOutputKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "v":
		a.output.showDeck = !a.output.showDeck
		return a, nil
	case "s":
		a.statusMsg = a.output.save()
		return a, nil
	case "n":
		return a.startInterview()
	case "q":
		return a.returnToMenu()
	}
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateMenu:
		content = a.mainMenu.View()
	case stateInterview:
		if a.interview != nil {
			content = a.interview.View()
		}
	case stateSelector:
		if a.selector != nil {
			content = a.selector.View()
		}
	case stateOutput:
		if a.output != nil {
			content = a.output.View()
		}
	case statePresets:
		if a.presets != nil {
			content = a.presets.View()
		}
	case stateGuide:
		content = a.guide.View()
	}
	if strings.TrimSpace(content) == "" {
		content = "Loading..."
	}

	header := headerStyle.Render("⬡ MCNPATH")
	box := panelStyle.Width(max(40, width-4)).Render(content)
	sections := []string{header, box}
	if logPanel := a.renderJournalPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, footerStyle.Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

// renderJournalPanel shows the tail of the session journal under the
// main panel.
func (a *App) renderJournalPanel() string {
	lines, total := a.journal.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.journal.Path())
	title := fmt.Sprintf("JOURNAL · %s", fileName)
	if total > len(lines) {
		title = fmt.Sprintf("JOURNAL · %s · %d entries", fileName, total)
	}
	head := accentStyle.Render(title)
	body := dimStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(head + "\n" + body)
}
