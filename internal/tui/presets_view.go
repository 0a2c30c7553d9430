package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"mcnpath/internal/preset"
)

// presetItem adapts one discovered preset to the list.
type presetItem struct {
	file preset.File
}

func (i presetItem) Title() string { return i.file.Preset.ID }

func (i presetItem) Description() string {
	p := i.file.Preset
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s · %s · %d level(s)", title, p.Mode, len(p.Stack))
}

func (i presetItem) FilterValue() string { return i.file.Preset.ID }

// presetsView browses every discovered preset; enter renders the
// selection through the shared output screen.
type presetsView struct {
	app  *App
	list list.Model
}

func newPresetsView(app *App, files []preset.File) *presetsView {
	items := make([]list.Item, len(files))
	for i, f := range files {
		items[i] = presetItem{file: f}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Presets (%d)", len(files))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return &presetsView{app: app, list: l}
}

func (v *presetsView) setSize(width, height int) {
	v.list.SetSize(max(0, width-6), max(0, height-12))
}

func (v *presetsView) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		return v.choose()
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v *presetsView) choose() tea.Cmd {
	item, ok := v.list.SelectedItem().(presetItem)
	if !ok {
		return nil
	}
	_, cmd := v.app.choosePreset(item.file)
	return cmd
}

func (v *presetsView) View() string {
	return v.list.View()
}
