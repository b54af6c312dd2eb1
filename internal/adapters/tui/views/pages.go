package views

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"splitmark/internal/adapters/tui/styles"
	"splitmark/internal/application"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
)

// PagesKeyMap defines key bindings for the page marking view
type PagesKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	Toggle   key.Binding
	Unmark   key.Binding
	Clear    key.Binding
	Export   key.Binding
	Command  key.Binding
	Edit     key.Binding
	Splits   key.Binding
	Metadata key.Binding
	Resume   key.Binding
	View     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var PagesKeys = PagesKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "mark"),
	),
	Unmark: key.NewBinding(
		key.WithKeys("0", "backspace"),
		key.WithHelp("0", "unmark"),
	),
	Clear: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Command: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "command"),
	),
	Edit: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "edit sidecar"),
	),
	Splits: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "splits"),
	),
	Metadata: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "metadata"),
	),
	Resume: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "resume"),
	),
	View: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "view image"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
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

// pagesResultMsg reports the outcome of an export or command request
type pagesResultMsg struct {
	message string
	command string
	sidecar string
	err     error
}

// PagesModel lists the pages of the loaded manifest and records title marks
type PagesModel struct {
	ViewState
	deps       Deps
	state      application.State
	paginator  *Paginator
	confirm    Confirmation
	showSplits bool
	command    string
	sidecar    string // last exported sidecar
}

// NewPagesModel creates a new page marking view
func NewPagesModel(deps Deps) *PagesModel {
	return &PagesModel{
		deps:      deps,
		paginator: NewPaginator(20),
	}
}

// Init initializes the page view
func (m *PagesModel) Init() tea.Cmd {
	return nil
}

// SetState replaces the session state the view renders.
// Loading a different manifest resets the cursor and the export state.
func (m *PagesModel) SetState(s application.State) {
	if s.ManifestPath != m.state.ManifestPath {
		m.paginator.Reset()
		m.command = ""
		m.sidecar = ""
		m.ClearMessage()
	}
	m.state = s
	m.paginator.SetTotal(len(s.Pages))
}

// SetSize updates the view dimensions and the rows per page
func (m *PagesModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(max(height-12, 5))
}

// Cursor returns the 0-based index of the selected page
func (m *PagesModel) Cursor() int {
	return m.paginator.Cursor()
}

// Update handles messages for the page view
func (m *PagesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case pagesResultMsg:
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		if msg.command != "" {
			m.command = msg.command
		}
		if msg.sidecar != "" {
			m.sidecar = msg.sidecar
		}
		m.SetMessage(msg.message, false)
		return m, nil

	case tea.KeyMsg:
		if m.confirm.Active() {
			return m, m.confirm.HandleKeyMsg(msg)
		}
		m.ClearMessage()
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *PagesModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, PagesKeys.Quit):
		return tea.Quit
	case key.Matches(msg, PagesKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	case key.Matches(msg, PagesKeys.Back):
		if m.state.Collection == "" {
			return func() tea.Msg { return SwitchToCollectionsMsg{} }
		}
		return func() tea.Msg { return SwitchToVolumesMsg{Collection: m.state.Collection, Back: true} }

	case key.Matches(msg, PagesKeys.Up):
		m.paginator.CursorUp()
	case key.Matches(msg, PagesKeys.Down):
		m.paginator.CursorDown()
	case key.Matches(msg, PagesKeys.Left):
		m.paginator.PrevPage()
	case key.Matches(msg, PagesKeys.Right):
		m.paginator.NextPage()
	case key.Matches(msg, PagesKeys.Home):
		m.paginator.Home()
	case key.Matches(msg, PagesKeys.End):
		m.paginator.End()
	}

	if len(m.state.Pages) == 0 {
		return nil
	}
	page := m.paginator.Cursor()

	switch {
	case key.Matches(msg, PagesKeys.Toggle):
		return m.mark(application.PageToggled{Page: page})
	case key.Matches(msg, PagesKeys.Unmark):
		return m.mark(application.PageUnmarked{Page: page})
	case len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		return m.mark(application.PageCountSet{Page: page, Titles: int(msg.Runes[0] - '0')})

	case key.Matches(msg, PagesKeys.Clear):
		if m.state.Marks.Len() == 0 {
			return nil
		}
		m.confirm.Ask(fmt.Sprintf("Clear %d marks?", m.state.Marks.Len()), func() tea.Cmd {
			return m.mark(application.MarksCleared{})
		})
	case key.Matches(msg, PagesKeys.Splits):
		m.showSplits = !m.showSplits
		if m.showSplits {
			return Dispatch(nil, application.SplitsDerived{})
		}
	case key.Matches(msg, PagesKeys.Metadata):
		return Dispatch(SwitchToMetadataMsg{}, application.SplitsDerived{})
	case key.Matches(msg, PagesKeys.Export):
		return m.export()
	case key.Matches(msg, PagesKeys.Command):
		return m.splitterCommand()
	case key.Matches(msg, PagesKeys.Edit):
		path := m.sidecar
		if path == "" {
			path = m.deps.Store.SidecarPath(m.state.ManifestPath)
		}
		return func() tea.Msg { return OpenEditorMsg{Path: path} }
	case key.Matches(msg, PagesKeys.Resume):
		return m.resume()
	case key.Matches(msg, PagesKeys.View):
		return m.view(m.state.Pages[page])
	}
	return nil
}

// mark dispatches a mark action, re-deriving splits when the preview is shown
func (m *PagesModel) mark(a application.Action) tea.Cmd {
	if m.showSplits {
		return Dispatch(nil, a, application.SplitsDerived{})
	}
	return Dispatch(nil, a)
}

func (m *PagesModel) export() tea.Cmd {
	store := m.deps.Store
	logger := m.deps.log()
	cmd := commands.NewExportSidecarCommand(store, m.state.ManifestPath, len(m.state.Pages), m.state.Marks)
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return pagesResultMsg{err: err}
		}
		logger.Info("sidecar exported",
			zap.String("manifest", cmd.ManifestPath),
			zap.String("path", result.Path),
			zap.Int("title_pages", len(result.Sidecar.TitlePages)),
		)
		return pagesResultMsg{message: result.Message, sidecar: result.Path}
	}
}

func (m *PagesModel) splitterCommand() tea.Cmd {
	cmd := commands.NewSplitterCommandCommand(m.deps.Clipboard, m.deps.Splitter, m.state.ManifestPath, len(m.state.Pages), m.state.Marks)
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return pagesResultMsg{err: err}
		}
		return pagesResultMsg{message: result.Message, command: result.Command}
	}
}

// view opens the page image at full size outside the terminal
func (m *PagesModel) view(p domain.PageDescriptor) tea.Cmd {
	viewer := m.deps.Viewer
	if viewer == nil {
		m.SetMessage("No image viewer available", true)
		return nil
	}
	return func() tea.Msg {
		if err := viewer.Open(p, application.SizeFull); err != nil {
			return pagesResultMsg{err: err}
		}
		return pagesResultMsg{message: fmt.Sprintf("Opened page %d", p.Index+1)}
	}
}

// resume restores marks from the sidecar previously exported for this manifest
func (m *PagesModel) resume() tea.Cmd {
	store := m.deps.Store
	manifestPath := m.state.ManifestPath
	return func() tea.Msg {
		path := store.SidecarPath(manifestPath)
		sidecar, err := store.ReadSidecar(path)
		if err != nil {
			return pagesResultMsg{err: err}
		}
		if sidecar.ManifestFile != manifestPath {
			return pagesResultMsg{err: fmt.Errorf("%s was exported for %s", path, sidecar.ManifestFile)}
		}
		return DispatchMsg{
			Actions: []application.Action{application.MarksRestored{Marks: sidecar.Marks()}},
			Then: pagesResultMsg{
				message: fmt.Sprintf("Resumed %d title pages from %s", len(sidecar.TitlePages), path),
				sidecar: path,
			},
		}
	}
}

// View renders the page view
func (m *PagesModel) View() string {
	v := NewViewBuilder().Title(m.state.ManifestPath)
	v.Line(RenderStatusLine(
		[2]string{"pages", fmt.Sprintf("%d", len(m.state.Pages))},
		[2]string{"marked", fmt.Sprintf("%d", m.state.Marks.Len())},
		[2]string{"titles", fmt.Sprintf("%d", m.state.Marks.TotalTitles())},
	))
	v.BlankLine()

	if len(m.state.Pages) == 0 {
		v.Muted("  This manifest has no pages")
	}
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderRow(i))
	}
	if m.paginator.TotalPages() > 1 {
		v.Muted(fmt.Sprintf("  %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
	}
	v.BlankLine()

	if m.showSplits {
		v.Raw(m.renderSplits())
		v.BlankLine()
	}
	if m.command != "" {
		v.Line(styles.CommandBox.Render(m.command))
	}

	if m.confirm.Active() {
		v.Line(m.confirm.View())
		return v.String()
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(PagesKeys.Toggle, PagesKeys.Unmark, PagesKeys.Export, PagesKeys.Command, PagesKeys.Splits, PagesKeys.Metadata, PagesKeys.Help, PagesKeys.Quit)
	return v.String()
}

func (m *PagesModel) renderRow(i int) string {
	p := m.state.Pages[i]
	titles := m.state.Marks.Count(i)
	row := fmt.Sprintf("%4d %s %s", i+1, RenderMarkBadge(titles), path.Base(p.ResourceID))

	switch {
	case i == m.paginator.Cursor():
		return styles.RowSelected.Render(styles.Cursor + row)
	case titles > 0:
		return styles.RowMarked.Render("  " + row)
	default:
		return styles.Row.Render("  " + row)
	}
}

func (m *PagesModel) renderSplits() string {
	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(fmt.Sprintf("Splits (%d)", len(m.state.Splits))))
	b.WriteString("\n")
	for i, s := range m.state.Splits {
		line := fmt.Sprintf("  %2d  %-16s %s", i, s.PageRange(), s.Type)
		if s.Titles > 1 {
			line += fmt.Sprintf(" ×%d", s.Titles)
		}
		b.WriteString(styles.SplitStyle(s.Type == domain.SplitTitle).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
