package views

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"splitmark/internal/application"
	"splitmark/internal/domain"
	"splitmark/internal/ports"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Deps holds the collaborators the views run commands against
type Deps struct {
	Resolver    *application.Resolver
	Store       ports.ArtifactStore
	Clipboard   ports.Clipboard  // nil when unavailable
	Viewer      ports.PageViewer // nil disables page viewing
	Splitter    domain.SplitterOptions
	Collections []string
	Logger      *zap.Logger
}

func (d Deps) log() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// DispatchMsg asks the app to reduce the session state through Actions in order.
// Then, when set, is delivered after the state is updated.
type DispatchMsg struct {
	Actions []application.Action
	Then    tea.Msg
}

// Dispatch returns a command that emits a DispatchMsg
func Dispatch(then tea.Msg, actions ...application.Action) tea.Cmd {
	return func() tea.Msg {
		return DispatchMsg{Actions: actions, Then: then}
	}
}

// SwitchToCollectionsMsg returns to the collection picker
type SwitchToCollectionsMsg struct{}

// SwitchToVolumesMsg opens the volume list of a collection.
// Selecting a collection always resolves it again; Back keeps the listing in hand.
type SwitchToVolumesMsg struct {
	Collection string
	Back       bool
}

// SwitchToPagesMsg opens the page marking view for the loaded manifest
type SwitchToPagesMsg struct{}

// SwitchToMetadataMsg opens the split metadata editor
type SwitchToMetadataMsg struct{}

// SwitchToHelpMsg shows the help view
type SwitchToHelpMsg struct{}

// CloseHelpMsg returns from the help view
type CloseHelpMsg struct{}

// OpenEditorMsg asks the app to open a file in the external editor
type OpenEditorMsg struct {
	Path string
}
