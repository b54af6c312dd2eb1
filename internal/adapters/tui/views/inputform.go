package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"splitmark/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Tab    key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous choice"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next choice"),
	),
}

// InputField represents a single input field with label and textinput.
// A field with Choices is a selector cycled with left/right instead of typed into.
type InputField struct {
	Label   string
	Input   textinput.Model
	Choices []string
	choice  int
}

// InputForm manages multiple text input fields with focus handling
type InputForm struct {
	Fields       []InputField
	FocusedField int
	Keys         InputFormKeyMap
}

// NewInputForm creates a new input form with the given fields
func NewInputForm(fields ...InputField) *InputForm {
	form := &InputForm{
		Fields:       fields,
		FocusedField: 0,
		Keys:         DefaultInputFormKeys,
	}
	// Focus the first field
	if len(fields) > 0 {
		form.Fields[0].Input.Focus()
	}
	return form
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label: label,
		Input: input,
	}
}

// NewChoiceField creates a selector field. The first choice is the empty "unset" value.
func NewChoiceField(label string, choices []string) InputField {
	return InputField{
		Label:   label,
		Input:   textinput.New(),
		Choices: append([]string{""}, choices...),
	}
}

// isChoice reports whether the field is a selector
func (f *InputField) isChoice() bool {
	return len(f.Choices) > 0
}

// cycle moves the selector by delta, wrapping around
func (f *InputField) cycle(delta int) {
	n := len(f.Choices)
	f.choice = ((f.choice+delta)%n + n) % n
}

// Init returns the blink command for the focused input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the input form.
// Returns (handled, cmd) where handled is true if the key was processed.
func (f *InputForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, f.Keys.Tab):
			f.NextField()
			return true, nil
		case key.Matches(msg, f.Keys.Prev):
			f.PrevField()
			return true, nil
		}

		if field := f.focused(); field != nil && field.isChoice() {
			switch {
			case key.Matches(msg, f.Keys.Left):
				field.cycle(-1)
			case key.Matches(msg, f.Keys.Right), msg.String() == " ":
				field.cycle(1)
			}
			return true, nil
		}
	}

	// Update the focused input
	var cmd tea.Cmd
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input, cmd = f.Fields[f.FocusedField].Input.Update(msg)
	}
	return false, cmd
}

// NextField moves focus to the next field
func (f *InputForm) NextField() {
	if len(f.Fields) <= 1 {
		return
	}

	// Blur current field
	f.Fields[f.FocusedField].Input.Blur()

	// Move to next field
	f.FocusedField = (f.FocusedField + 1) % len(f.Fields)

	// Focus new field
	f.Fields[f.FocusedField].Input.Focus()
}

// PrevField moves focus to the previous field
func (f *InputForm) PrevField() {
	if len(f.Fields) <= 1 {
		return
	}
	f.SetFocus((f.FocusedField - 1 + len(f.Fields)) % len(f.Fields))
}

func (f *InputForm) focused() *InputField {
	if f.FocusedField < 0 || f.FocusedField >= len(f.Fields) {
		return nil
	}
	return &f.Fields[f.FocusedField]
}

// SetFocus sets focus to a specific field
func (f *InputForm) SetFocus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}

	// Blur current field
	if f.FocusedField >= 0 && f.FocusedField < len(f.Fields) {
		f.Fields[f.FocusedField].Input.Blur()
	}

	// Focus new field
	f.FocusedField = index
	f.Fields[f.FocusedField].Input.Focus()
}

// Value returns the value of a field by index
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	if field := f.Fields[index]; field.isChoice() {
		return field.Choices[field.choice]
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// SetValue sets the value of a field by index
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	field := &f.Fields[index]
	if field.isChoice() {
		field.choice = 0
		for i, c := range field.Choices {
			if c == value {
				field.choice = i
			}
		}
		return
	}
	field.Input.SetValue(value)
}

// Reset clears all field values and resets focus to the first field
func (f *InputForm) Reset() {
	for i := range f.Fields {
		f.Fields[i].Input.SetValue("")
		f.Fields[i].Input.Blur()
		f.Fields[i].choice = 0
	}
	f.FocusedField = 0
	if len(f.Fields) > 0 {
		f.Fields[0].Input.Focus()
	}
}

// RenderField renders a single field with appropriate styling
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}

	field := f.Fields[index]
	var b strings.Builder

	b.WriteString(styles.InputLabel.Render(field.Label))
	b.WriteString("\n")

	content := field.Input.View()
	if field.isChoice() {
		current := field.Choices[field.choice]
		if current == "" {
			current = styles.MutedText.Render("(none)")
		}
		content = "‹ " + current + " ›"
	}

	if index == f.FocusedField {
		b.WriteString(styles.InputFocused.Render(content))
	} else {
		b.WriteString(styles.InputField.Render(content))
	}

	return b.String()
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	var parts []string

	if len(f.Fields) > 1 {
		parts = append(parts, styles.HelpKey.Render("tab")+" "+styles.HelpDesc.Render("next field"))
	}
	if field := f.focused(); field != nil && field.isChoice() {
		parts = append(parts, styles.HelpKey.Render("←/→")+" "+styles.HelpDesc.Render("choose"))
	}
	parts = append(parts, styles.HelpKey.Render("enter")+" "+styles.HelpDesc.Render(submitText))
	parts = append(parts, styles.HelpKey.Render("esc")+" "+styles.HelpDesc.Render("cancel"))

	return strings.Join(parts, "  ")
}
