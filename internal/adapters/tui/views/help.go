package views

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"splitmark/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return CloseHelpMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("splitmark Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Mark the pages where a new piece begins"))
	b.WriteString("\n\n")

	// Navigation section
	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("h / l / ← / →", "Previous/next screen of pages"))
	b.WriteString(helpLine("g / G", "First/last page"))
	b.WriteString(helpLine("Enter", "Open collection or volume"))
	b.WriteString(helpLine("esc", "Back"))
	b.WriteString(helpLine("r", "Reload volumes, never falling back to the saved listing"))
	b.WriteString("\n")

	// Marking section
	b.WriteString(styles.InputLabel.Render("Marking pages"))
	b.WriteString("\n")
	b.WriteString(helpLine("space", "Toggle title page"))
	b.WriteString(helpLine("1 - 9", "Set the number of titles on the page"))
	b.WriteString(helpLine("0 / backspace", "Unmark page"))
	b.WriteString(helpLine("x", "Clear all marks"))
	b.WriteString(helpLine("R", "Resume marks from the exported sidecar"))
	b.WriteString("\n")

	// Export section
	b.WriteString(styles.InputLabel.Render("Export"))
	b.WriteString("\n")
	b.WriteString(helpLine("e", "Export title pages sidecar"))
	b.WriteString(helpLine("c", "Show and copy the splitter command"))
	b.WriteString(helpLine("o", "Open the exported sidecar in $EDITOR"))
	b.WriteString(helpLine("v", "View the page image in the browser"))
	b.WriteString(helpLine("s", "Show/hide split preview"))
	b.WriteString(helpLine("m", "Edit music metadata per split"))
	b.WriteString("\n")

	// General section
	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit"))
	b.WriteString("\n")

	// Close hint
	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
