package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"splitmark/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// Confirmation is an inline yes/no prompt guarding a destructive action.
// A view embeds it and routes key messages through HandleKeyMsg while Active.
type Confirmation struct {
	Question string
	Keys     ConfirmKeyMap
	onYes    func() tea.Cmd
}

// Ask activates the prompt; onYes runs when the user confirms
func (c *Confirmation) Ask(question string, onYes func() tea.Cmd) {
	c.Question = question
	c.Keys = DefaultConfirmKeys
	c.onYes = onYes
}

// Active reports whether a question is pending
func (c *Confirmation) Active() bool {
	return c.onYes != nil
}

// HandleKeyMsg processes key messages while the prompt is active.
// Any other key is swallowed so the view underneath does not react.
func (c *Confirmation) HandleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, c.Keys.Confirm):
		onYes := c.onYes
		c.reset()
		return onYes()
	case key.Matches(msg, c.Keys.Cancel):
		c.reset()
	}
	return nil
}

func (c *Confirmation) reset() {
	c.Question = ""
	c.onYes = nil
}

// View renders the pending question, or nothing
func (c *Confirmation) View() string {
	if !c.Active() {
		return ""
	}
	return RenderConfirmPrompt(c.Question)
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(styles.WarningText.Render(question))
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
