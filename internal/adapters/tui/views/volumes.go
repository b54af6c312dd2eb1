package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"splitmark/internal/adapters/tui/styles"
	"splitmark/internal/application"
	"splitmark/internal/application/commands"
	"splitmark/internal/domain"
)

// VolumesKeyMap defines key bindings for the volume list
type VolumesKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Refresh key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var VolumesKeys = VolumesKeyMap{
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
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open volume"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
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

// volumesLoadedMsg carries the result of one resolve run.
// gen identifies the run so that results of superseded runs are dropped.
type volumesLoadedMsg struct {
	gen        int
	collection string
	volumes    []domain.VolumeEntry
	source     application.VolumeSource
	err        error
}

// manifestLoadedMsg carries a loaded volume manifest
type manifestLoadedMsg struct {
	gen    int
	result *commands.LoadManifestResult
	err    error
}

// VolumesModel lists the volumes of the selected collection
type VolumesModel struct {
	ViewState
	deps       Deps
	state      application.State
	paginator  *Paginator
	spinner    spinner.Model
	collection string
	gen        int
	loading    bool
}

// NewVolumesModel creates a new volume list
func NewVolumesModel(deps Deps) *VolumesModel {
	return &VolumesModel{
		deps:      deps,
		paginator: NewPaginator(15),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Mark)),
	}
}

// Init initializes the volume list
func (m *VolumesModel) Init() tea.Cmd {
	return nil
}

// SetState replaces the session state the list renders
func (m *VolumesModel) SetState(s application.State) {
	m.state = s
	if s.Collection == m.collection {
		m.paginator.SetTotal(len(s.Volumes))
	}
}

// SetSize updates the view dimensions and the rows per page
func (m *VolumesModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(max(height-10, 5))
}

// Load starts resolving a collection. Any run still in flight is superseded.
func (m *VolumesModel) Load(collection string, refresh bool) tea.Cmd {
	m.gen++
	m.collection = collection
	m.loading = true
	m.paginator.Reset()
	m.SetMessage(fmt.Sprintf("Resolving %s...", collection), false)

	gen := m.gen
	resolver := m.deps.Resolver
	resolve := func() tea.Msg {
		volumes, source, err := resolver.Resolve(context.Background(), collection, refresh)
		return volumesLoadedMsg{
			gen:        gen,
			collection: collection,
			volumes:    volumes,
			source:     source,
			err:        err,
		}
	}
	return tea.Batch(resolve, m.spinner.Tick)
}

// Update handles messages for the volume list
func (m *VolumesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case volumesLoadedMsg:
		return m, m.handleVolumes(msg)

	case manifestLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.ClearMessage()
		return m, Dispatch(SwitchToPagesMsg{}, application.ManifestLoaded{
			Path:  msg.result.Path,
			Pages: msg.result.Pages,
		})

	case tea.KeyMsg:
		if !m.loading {
			m.ClearMessage()
		}

		switch {
		case key.Matches(msg, VolumesKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, VolumesKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		case key.Matches(msg, VolumesKeys.Back):
			// Drop whatever is still in flight
			m.gen++
			m.loading = false
			return m, func() tea.Msg { return SwitchToCollectionsMsg{} }
		case key.Matches(msg, VolumesKeys.Refresh):
			return m, m.Load(m.collection, true)
		case key.Matches(msg, VolumesKeys.Up):
			m.paginator.CursorUp()
		case key.Matches(msg, VolumesKeys.Down):
			m.paginator.CursorDown()
		case key.Matches(msg, VolumesKeys.Left):
			m.paginator.PrevPage()
		case key.Matches(msg, VolumesKeys.Right):
			m.paginator.NextPage()
		case key.Matches(msg, VolumesKeys.Enter):
			return m, m.openSelected()
		}
	}
	return m, nil
}

func (m *VolumesModel) handleVolumes(msg volumesLoadedMsg) tea.Cmd {
	if msg.gen != m.gen {
		m.deps.log().Debug("dropping superseded volume listing",
			zap.String("collection", msg.collection),
			zap.Int("gen", msg.gen),
		)
		return nil
	}
	m.loading = false

	if msg.err != nil && len(msg.volumes) == 0 {
		m.SetMessage(msg.err.Error(), true)
		return nil
	}
	if msg.err != nil {
		m.SetMessage(fmt.Sprintf("%d volumes found, some probes failed: %v", len(msg.volumes), msg.err), true)
	} else {
		m.SetMessage(fmt.Sprintf("%d volumes (%s)", len(msg.volumes), msg.source), false)
	}
	return Dispatch(nil, application.CollectionSelected{
		Collection: msg.collection,
		Volumes:    msg.volumes,
	})
}

func (m *VolumesModel) openSelected() tea.Cmd {
	if m.loading || m.state.Collection != m.collection || len(m.state.Volumes) == 0 {
		return nil
	}
	vol := m.state.Volumes[m.paginator.Cursor()]

	m.gen++
	m.loading = true
	m.SetMessage(fmt.Sprintf("Loading %s...", vol.DisplayName()), false)

	gen := m.gen
	resolver := m.deps.Resolver
	collection := m.collection
	load := func() tea.Msg {
		result, err := commands.NewLoadManifestCommand(resolver, collection, vol.Filename).Execute(context.Background())
		return manifestLoadedMsg{gen: gen, result: result, err: err}
	}
	return tea.Batch(
		tea.Sequence(Dispatch(nil, application.VolumeSelected{Filename: vol.Filename}), load),
		m.spinner.Tick,
	)
}

// View renders the volume list
func (m *VolumesModel) View() string {
	v := NewViewBuilder().Title(m.collection)

	volumes := m.state.Volumes
	if m.state.Collection != m.collection {
		volumes = nil
	}

	switch {
	case len(volumes) == 0 && m.loading:
		v.Line("  " + m.spinner.View() + RenderMuted(" Resolving volumes..."))
	case len(volumes) == 0:
		v.Muted("  No volumes")
	default:
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			name := volumes[i].DisplayName()
			if i == m.paginator.Cursor() {
				v.Line(styles.RowSelected.Render(styles.Cursor + name))
			} else {
				v.Line(styles.Row.Render("  " + name))
			}
		}
		if m.paginator.TotalPages() > 1 {
			v.BlankLine()
			v.Muted(fmt.Sprintf("  %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
		}
	}
	v.BlankLine()

	if m.loading && len(volumes) > 0 {
		v.Line(m.spinner.View() + " " + m.Message)
		v.BlankLine()
	} else {
		v.Message(m.Message, m.MessageErr)
	}
	v.Help(VolumesKeys.Enter, VolumesKeys.Refresh, VolumesKeys.Back, VolumesKeys.Help, VolumesKeys.Quit)
	return v.String()
}
