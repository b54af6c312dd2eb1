package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"splitmark/internal/adapters/tui/styles"
	"splitmark/internal/application"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
)

// MetadataKeyMap defines key bindings for the split metadata editor
type MetadataKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Edit  key.Binding
	Clear key.Binding
	Back  key.Binding
	Quit  key.Binding
}

var MetadataKeys = MetadataKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "clear"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// Form field indexes
const (
	fieldTitle = iota
	fieldCategory
	fieldDescription
	fieldComposer
	fieldPeriod
)

// metadataSavedMsg reports the outcome of writing one split's metadata
type metadataSavedMsg struct {
	message string
	err     error
}

// MetadataModel assigns music metadata to the splits of the loaded manifest
type MetadataModel struct {
	ViewState
	deps      Deps
	state     application.State
	paginator *Paginator
	form      *InputForm
	confirm   Confirmation
	editing   bool
}

// NewMetadataModel creates a new metadata editor
func NewMetadataModel(deps Deps) *MetadataModel {
	return &MetadataModel{
		deps:      deps,
		paginator: NewPaginator(10),
		form: NewInputForm(
			NewInputField("Title", "曲名", 200),
			NewChoiceField("Category", domain.Categories),
			NewInputField("Description", "", 500),
			NewInputField("Composer", "", 200),
			NewInputField("Period", "平安時代", 100),
		),
	}
}

// Init initializes the metadata editor
func (m *MetadataModel) Init() tea.Cmd {
	return nil
}

// SetState replaces the session state the editor renders
func (m *MetadataModel) SetState(s application.State) {
	if s.ManifestPath != m.state.ManifestPath {
		m.paginator.Reset()
		m.editing = false
	}
	m.state = s
	m.paginator.SetTotal(len(s.Splits))
}

// Editing reports whether the form has focus
func (m *MetadataModel) Editing() bool {
	return m.editing
}

// Update handles messages for the metadata editor
func (m *MetadataModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case metadataSavedMsg:
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.editing = false
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		if m.confirm.Active() {
			return m, m.confirm.HandleKeyMsg(msg)
		}
		if m.editing {
			return m, m.updateForm(msg)
		}
		m.ClearMessage()

		switch {
		case key.Matches(msg, MetadataKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, MetadataKeys.Back):
			return m, func() tea.Msg { return SwitchToPagesMsg{} }
		case key.Matches(msg, MetadataKeys.Up):
			m.paginator.CursorUp()
		case key.Matches(msg, MetadataKeys.Down):
			m.paginator.CursorDown()
		case key.Matches(msg, MetadataKeys.Edit):
			if len(m.state.Splits) == 0 {
				return m, nil
			}
			m.startEditing(m.paginator.Cursor())
			return m, m.form.Init()
		case key.Matches(msg, MetadataKeys.Clear):
			split := m.paginator.Cursor()
			if _, ok := m.state.Assignments.Get(split); !ok {
				return m, nil
			}
			m.confirm.Ask(fmt.Sprintf("Clear metadata for split %d?", split), func() tea.Cmd {
				return m.save(split, domain.MusicAssignment{})
			})
		}
	}
	return m, nil
}

func (m *MetadataModel) startEditing(split int) {
	m.editing = true
	m.form.Reset()
	rec, _ := m.state.Assignments.Get(split)
	m.form.SetValue(fieldTitle, rec.Title)
	m.form.SetValue(fieldCategory, rec.Category)
	m.form.SetValue(fieldDescription, rec.Description)
	m.form.SetValue(fieldComposer, rec.Composer)
	m.form.SetValue(fieldPeriod, rec.Period)
}

func (m *MetadataModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.editing = false
		return nil
	case key.Matches(msg, m.form.Keys.Submit):
		return m.save(m.paginator.Cursor(), m.record())
	}
	_, cmd := m.form.Update(msg)
	return cmd
}

func (m *MetadataModel) record() domain.MusicAssignment {
	return domain.MusicAssignment{
		Title:       m.form.Value(fieldTitle),
		Category:    m.form.Value(fieldCategory),
		Description: m.form.Value(fieldDescription),
		Composer:    m.form.Value(fieldComposer),
		Period:      m.form.Value(fieldPeriod),
	}
}

// save writes the metadata file, then records the assignment in the session
func (m *MetadataModel) save(split int, rec domain.MusicAssignment) tea.Cmd {
	cmd := commands.NewAssignMetadataCommand(m.deps.Store, m.state.Assignments, len(m.state.Splits), split, rec)
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return metadataSavedMsg{err: err}
		}
		return DispatchMsg{
			Actions: []application.Action{application.AssignmentSet{Split: split, Assignment: rec}},
			Then:    metadataSavedMsg{message: fmt.Sprintf("%s (%s)", result.Message, result.Path)},
		}
	}
}

// View renders the metadata editor
func (m *MetadataModel) View() string {
	v := NewViewBuilder().Title("Music metadata")
	v.Line(RenderSubtitle(m.state.ManifestPath))
	v.BlankLine()

	if len(m.state.Splits) == 0 {
		v.Muted("  No splits: load a manifest first")
	}
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderSplit(i))
	}
	v.BlankLine()

	if m.editing {
		for i := range m.form.Fields {
			v.Line(m.form.RenderField(i))
		}
		v.BlankLine()
		v.Message(m.Message, m.MessageErr)
		v.Raw(m.form.RenderHelp("save"))
		return v.String()
	}

	if m.confirm.Active() {
		v.Line(m.confirm.View())
		return v.String()
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(MetadataKeys.Edit, MetadataKeys.Clear, MetadataKeys.Back)
	return v.String()
}

func (m *MetadataModel) renderSplit(i int) string {
	s := m.state.Splits[i]
	row := fmt.Sprintf("%2d  %-16s", i, s.PageRange())
	if rec, ok := m.state.Assignments.Get(i); ok {
		row += "  " + rec.Title
		if rec.Category != "" {
			row += " [" + rec.Category + "]"
		}
	} else {
		row += "  " + RenderMuted("(unassigned)")
	}

	if i == m.paginator.Cursor() {
		return styles.RowSelected.Render(styles.Cursor + row)
	}
	return styles.SplitStyle(s.Type == domain.SplitTitle).Render("  " + row)
}
