// Package upload provides the local file prompt for the TUI.
package upload

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/styles"
)

// View prompts for the path of a PDF to compare.
type View struct {
	styles *styles.Styles
	input  *input.PathInput
	hint   string
	width  int
	height int
}

// NewView creates a new upload view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		input:  input.NewPathInput(s),
	}
}

// Init focuses the prompt.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSources}
			}
		case "enter":
			path := v.input.Value()
			if path == "" {
				v.hint = "Enter the path of a PDF file."
				return v, nil
			}
			v.hint = ""
			return v, func() tea.Msg {
				return messages.UploadSubmitted{Path: path}
			}
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the upload view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload a PDF"))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")
	if v.hint != "" {
		b.WriteString(v.styles.Warning.Render(v.hint))
		b.WriteString("\n\n")
	}
	b.WriteString(v.styles.Help.Render("[enter] compare  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
}

// Reset clears the prompt.
func (v *View) Reset() {
	v.input.Reset()
	v.hint = ""
}

// Value returns the current path.
func (v *View) Value() string {
	return v.input.Value()
}
