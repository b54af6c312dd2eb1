package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"splitmark/internal/adapters/editor"
	"splitmark/internal/adapters/tui/views"
	"splitmark/internal/application"
)

// ViewState represents the current view
type ViewState int

const (
	ViewCollections ViewState = iota
	ViewVolumes
	ViewPages
	ViewMetadata
	ViewHelp
)

// sizedModel is what every view offers the app besides tea.Model
type sizedModel interface {
	tea.Model
	SetSize(width, height int)
	SetMessage(msg string, isErr bool)
}

// App is the main TUI application model.
// It owns the session state; views change it only through views.DispatchMsg.
type App struct {
	editor *editor.Opener
	logger *zap.Logger

	session application.State

	state       ViewState
	prev        ViewState
	collections *views.CollectionsModel
	volumes     *views.VolumesModel
	pages       *views.PagesModel
	metadata    *views.MetadataModel
	help        *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. ed may be nil to disable editing.
func NewApp(deps views.Deps, ed *editor.Opener, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	deps.Logger = logger
	return &App{
		editor:      ed,
		logger:      logger,
		state:       ViewCollections,
		collections: views.NewCollectionsModel(deps),
		volumes:     views.NewVolumesModel(deps),
		pages:       views.NewPagesModel(deps),
		metadata:    views.NewMetadataModel(deps),
		help:        views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.collections.Init()
}

// State returns the current session state
func (a *App) State() application.State {
	return a.session
}

// CurrentView returns the view receiving key presses
func (a *App) CurrentView() ViewState {
	return a.state
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, v := range a.all() {
			v.SetSize(msg.Width, msg.Height)
		}
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.DispatchMsg:
		return a, a.dispatch(msg)

	// View switching messages
	case views.SwitchToCollectionsMsg:
		a.state = ViewCollections
		a.collections.ClearMessage()
		return a, nil

	case views.SwitchToVolumesMsg:
		a.state = ViewVolumes
		if msg.Back && msg.Collection == a.session.Collection && len(a.session.Volumes) > 0 {
			return a, nil
		}
		return a, a.volumes.Load(msg.Collection, false)

	case views.SwitchToPagesMsg:
		a.state = ViewPages
		return a, nil

	case views.SwitchToMetadataMsg:
		a.state = ViewMetadata
		return a, nil

	case views.SwitchToHelpMsg:
		if a.state != ViewHelp {
			a.prev = a.state
		}
		a.state = ViewHelp
		return a, nil

	case views.CloseHelpMsg:
		a.state = a.prev
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.current().SetMessage(fmt.Sprintf("Editor: %v", msg.err), true)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.state == ViewHelp {
			_, cmd := a.help.Update(msg)
			return a, cmd
		}
		_, cmd := a.current().Update(msg)
		return a, cmd
	}

	// Background results go to every view; each ignores what it did not start
	var cmds []tea.Cmd
	for _, v := range a.all() {
		_, cmd := v.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// dispatch reduces the session through the actions in order.
// The first failing action aborts the batch and leaves the session unchanged.
func (a *App) dispatch(msg views.DispatchMsg) tea.Cmd {
	next := a.session
	for _, action := range msg.Actions {
		var err error
		next, err = application.Reduce(next, action)
		if err != nil {
			a.logger.Debug("action rejected", zap.String("action", fmt.Sprintf("%T", action)), zap.Error(err))
			a.current().SetMessage(err.Error(), true)
			return nil
		}
		a.logger.Debug("action applied", zap.String("action", fmt.Sprintf("%T", action)))
	}
	a.session = next

	a.volumes.SetState(next)
	a.pages.SetState(next)
	a.metadata.SetState(next)

	if msg.Then == nil {
		return nil
	}
	then := msg.Then
	return func() tea.Msg { return then }
}

func (a *App) all() []sizedModel {
	return []sizedModel{a.collections, a.volumes, a.pages, a.metadata}
}

// current returns the active view, or the one under the help screen
func (a *App) current() sizedModel {
	state := a.state
	if state == ViewHelp {
		state = a.prev
	}
	switch state {
	case ViewVolumes:
		return a.volumes
	case ViewPages:
		return a.pages
	case ViewMetadata:
		return a.metadata
	default:
		return a.collections
	}
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(path string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(path)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewVolumes:
		return a.volumes.View()
	case ViewPages:
		return a.pages.View()
	case ViewMetadata:
		return a.metadata.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.collections.View()
	}
}
