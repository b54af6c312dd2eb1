package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"splitmark/internal/adapters/tui/styles"
	"splitmark/internal/application"
	"splitmark/internal/application/commands"
)

// CollectionsKeyMap defines key bindings for the collection picker
type CollectionsKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Open  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var CollectionsKeys = CollectionsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Open: key.NewBinding(
		key.WithKeys("o", "/"),
		key.WithHelp("o", "collection or manifest file"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// localLoadFailedMsg reports a manifest file that could not be loaded
type localLoadFailedMsg struct {
	err error
}

// CollectionsModel lists the configured collections and accepts a typed
// collection name or a local manifest file
type CollectionsModel struct {
	ViewState
	deps      Deps
	paginator *Paginator
	form      *InputForm
	typing    bool
}

// NewCollectionsModel creates a new collection picker
func NewCollectionsModel(deps Deps) *CollectionsModel {
	m := &CollectionsModel{
		deps:      deps,
		paginator: NewPaginator(15),
		form:      NewInputForm(NewInputField("Collection or manifest file", "gagaku or ./vol_03.json", 256)),
	}
	m.paginator.SetTotal(len(deps.Collections))
	return m
}

// Init initializes the collection picker
func (m *CollectionsModel) Init() tea.Cmd {
	return nil
}

// Typing reports whether the text input has focus
func (m *CollectionsModel) Typing() bool {
	return m.typing
}

// Update handles messages for the collection picker
func (m *CollectionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case localLoadFailedMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m, m.updateInput(msg)
		}
		m.ClearMessage()

		switch {
		case key.Matches(msg, CollectionsKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, CollectionsKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		case key.Matches(msg, CollectionsKeys.Up):
			m.paginator.CursorUp()
		case key.Matches(msg, CollectionsKeys.Down):
			m.paginator.CursorDown()
		case key.Matches(msg, CollectionsKeys.Open):
			m.typing = true
			m.form.Reset()
			return m, m.form.Init()
		case key.Matches(msg, CollectionsKeys.Enter):
			if len(m.deps.Collections) == 0 {
				m.SetMessage("No collections configured: press o to type one", true)
				return m, nil
			}
			return m, m.open(m.deps.Collections[m.paginator.Cursor()])
		}
	}
	return m, nil
}

func (m *CollectionsModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.typing = false
		return nil
	case key.Matches(msg, m.form.Keys.Submit):
		value := m.form.Value(0)
		if value == "" {
			m.SetMessage("Collection is required", true)
			return nil
		}
		m.typing = false
		return m.open(value)
	}
	_, cmd := m.form.Update(msg)
	return cmd
}

// open switches to a collection, or loads a manifest file when value names one
func (m *CollectionsModel) open(value string) tea.Cmd {
	if !strings.HasSuffix(strings.ToLower(value), ".json") {
		return func() tea.Msg { return SwitchToVolumesMsg{Collection: value} }
	}

	store := m.deps.Store
	m.SetMessage(fmt.Sprintf("Loading %s...", value), false)
	return func() tea.Msg {
		result, err := commands.NewLoadLocalManifestCommand(store, value).Execute(context.Background())
		if err != nil {
			return localLoadFailedMsg{err}
		}
		return DispatchMsg{
			Actions: []application.Action{application.ManifestLoaded{Path: result.Path, Pages: result.Pages}},
			Then:    SwitchToPagesMsg{},
		}
	}
}

// View renders the collection picker
func (m *CollectionsModel) View() string {
	v := NewViewBuilder().Title("splitmark")
	v.Line(RenderSubtitle("Choose a collection"))
	v.BlankLine()

	if len(m.deps.Collections) == 0 {
		v.Muted("  No collections configured")
	}
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		name := m.deps.Collections[i]
		if i == m.paginator.Cursor() && !m.typing {
			v.Line(styles.RowSelected.Render(styles.Cursor + name))
		} else {
			v.Line(styles.Row.Render("  " + name))
		}
	}
	v.BlankLine()

	if m.typing {
		v.Line(m.form.RenderField(0))
		v.BlankLine()
		v.Message(m.Message, m.MessageErr)
		v.Raw(m.form.RenderHelp("open"))
		return v.String()
	}

	v.Message(m.Message, m.MessageErr)
	v.Help(CollectionsKeys.Enter, CollectionsKeys.Open, CollectionsKeys.Help, CollectionsKeys.Quit)
	return v.String()
}
