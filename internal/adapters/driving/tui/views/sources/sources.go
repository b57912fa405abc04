// Package sources provides the document picker view for the TUI.
package sources

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
)

// Item is one selectable row. Exactly one of Example, View or Quit is meaningful.
type Item struct {
	Label   string
	Example *domain.Example
	Missing bool
	View    messages.ViewType
	Quit    bool
}

// View lists the bundled examples followed by the navigation entries.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService

	examples []domain.Example
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new sources view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:          s,
		documentService: documentService,
		width:           80,
		height:          24,
	}
	v.rebuild()
	return v
}

// Init initialises the view and loads the examples.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadExamples()
}

// loadExamples returns a command that lists the example catalog.
func (v *View) loadExamples() tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.ExamplesLoaded{Err: fmt.Errorf("document service not available")}
		}
		examples, err := v.documentService.Examples(context.Background())
		return messages.ExamplesLoaded{Examples: examples, Err: err}
	}
}

// Update handles messages for the sources view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ExamplesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.examples = msg.Examples
		v.rebuild()
		return v, nil

	case messages.ExamplesChanged:
		return v, v.loadExamples()
	}

	return v, nil
}

// rebuild regenerates the rows from the current examples.
func (v *View) rebuild() {
	items := make([]Item, 0, len(v.examples)+4)
	for i := range v.examples {
		ex := v.examples[i]
		_, err := os.Stat(ex.Path)
		items = append(items, Item{Label: ex.Label, Example: &ex, Missing: err != nil})
	}
	items = append(items,
		Item{Label: "Upload a file...", View: messages.ViewUpload},
		Item{Label: "Settings", View: messages.ViewSettings},
		Item{Label: "Help", View: messages.ViewHelp},
		Item{Label: "Quit", Quit: true},
	)
	v.items = items
	if v.selected >= len(v.items) {
		v.selected = len(v.items) - 1
	}
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case "u":
		return v, changeView(messages.ViewUpload)
	case "r":
		v.loading = true
		return v, v.loadExamples()
	case "q":
		return v, tea.Quit
	case "enter":
		return v, v.activate(v.items[v.selected])
	}
	return v, nil
}

// activate returns the command for a chosen row.
func (v *View) activate(item Item) tea.Cmd {
	switch {
	case item.Quit:
		return tea.Quit
	case item.Example != nil:
		ex := *item.Example
		return func() tea.Msg {
			return messages.ExampleSelected{Example: ex}
		}
	default:
		return changeView(item.View)
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the sources view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("PDF Extraction Comparison"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Choose an example document or upload your own."))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading examples..."))
		b.WriteString("\n\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	case len(v.examples) == 0:
		b.WriteString(v.styles.Muted.Render("No examples configured."))
		b.WriteString("\n\n")
	}

	for i := range v.items {
		b.WriteString(v.renderItem(i, &v.items[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] select  [u] upload  [r] reload  [q] quit"))

	return b.String()
}

// renderItem renders a single row.
func (v *View) renderItem(index int, item *Item) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	if item.Example == nil {
		if index == v.selected {
			return v.styles.Selected.Render(indicator + item.Label)
		}
		return v.styles.Normal.Render(indicator + item.Label)
	}

	path := item.Example.Path
	maxPathLen := v.width - len(item.Label) - 16
	if maxPathLen < 10 {
		maxPathLen = 10
	}
	if len(path) > maxPathLen {
		path = "..." + path[len(path)-maxPathLen+3:]
	}

	var line string
	if index == v.selected {
		line = v.styles.Selected.Render(fmt.Sprintf("%s%s  %s", indicator, item.Label, path))
	} else {
		line = v.styles.Normal.Render(indicator+item.Label) + "  " + v.styles.Muted.Render(path)
	}
	if item.Missing {
		line += " " + v.styles.Warning.Render("(missing)")
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the current rows.
func (v *View) Items() []Item {
	return v.items
}

// Examples returns the loaded examples.
func (v *View) Examples() []domain.Example {
	return v.examples
}

// SelectedIndex returns the currently selected row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading reports whether examples are being loaded.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
