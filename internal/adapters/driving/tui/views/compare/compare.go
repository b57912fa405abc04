// Package compare provides the comparison progress and result view for the TUI.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
)

// ProcessingNotice is shown while methods run.
const ProcessingNotice = "Processing document... please wait."

// errActionsUnavailable is reported when no action service is wired.
var errActionsUnavailable = errors.New("desktop actions not available")

// View runs a comparison and shows its result tabs.
type View struct {
	styles     *styles.Styles
	comparison driving.ComparisonService
	actions    driving.ResultActionService
	ctx        context.Context

	spinner  spinner.Model
	viewport viewport.Model
	tabs     *list.MethodTabs

	document   domain.Document
	set        *domain.ResultSet
	processing bool
	message    string
	notice     string
	err        error
	width      int
	height     int
}

// NewView creates a new compare view.
func NewView(
	s *styles.Styles,
	comparison driving.ComparisonService,
	actions driving.ResultActionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	v := &View{
		styles:     s,
		comparison: comparison,
		actions:    actions,
		ctx:        context.Background(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		viewport:   viewport.New(76, 16),
		tabs:       list.NewMethodTabs(s),
	}
	v.SetDimensions(80, 24)
	return v
}

// WithContext sets the context used for comparisons and actions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Start begins comparing doc and discards any previous result.
func (v *View) Start(doc domain.Document) tea.Cmd {
	v.reset()
	v.document = doc
	v.processing = true
	return tea.Batch(v.spinner.Tick, v.compare(doc))
}

// ShowMessage displays a notice instead of results, such as a missing example.
func (v *View) ShowMessage(msg string) {
	v.reset()
	v.message = msg
}

func (v *View) reset() {
	v.document = domain.Document{}
	v.set = nil
	v.processing = false
	v.message = ""
	v.notice = ""
	v.err = nil
	v.tabs.SetResultSet(nil)
	v.viewport.SetContent("")
}

// compare returns a command that runs every method over doc.
func (v *View) compare(doc domain.Document) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.comparison == nil {
			return messages.ComparisonCompleted{Err: fmt.Errorf("comparison service not available")}
		}
		set, err := v.comparison.Compare(ctx, doc)
		return messages.ComparisonCompleted{Set: set, Err: err}
	}
}

// Update handles messages for the compare view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.processing {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ComparisonCompleted:
		v.processing = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.set = msg.Set
		v.tabs.SetResultSet(msg.Set)
		v.refreshContent()
		return v, nil

	case messages.ActionCompleted:
		if msg.Err != nil {
			v.notice = v.styles.Error.Render(fmt.Sprintf("Error: %s", msg.Err.Error()))
		} else {
			v.notice = v.styles.Success.Render(msg.Message)
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.processing {
		return v, nil
	}

	if msg.String() == "esc" {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}
	}

	if v.set == nil {
		return v, nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "right", "left", "l", "h":
		v.tabs, _ = v.tabs.Update(msg)
		v.notice = ""
		v.refreshContent()
		return v, nil
	case "c":
		return v, v.copySelected()
	case "o":
		return v, v.openOriginal()
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// copySelected returns a command copying the selected method's text.
func (v *View) copySelected() tea.Cmd {
	m, ok := v.tabs.SelectedMethod()
	if !ok {
		return nil
	}
	if m == domain.MethodOriginal {
		v.notice = v.styles.Muted.Render("Nothing to copy for the original document; press o to open it.")
		return nil
	}
	result, _ := v.set.Result(m)
	ctx := v.ctx
	return func() tea.Msg {
		if v.actions == nil {
			return messages.ActionCompleted{Err: errActionsUnavailable}
		}
		if err := v.actions.CopyToClipboard(ctx, result); err != nil {
			return messages.ActionCompleted{Err: err}
		}
		return messages.ActionCompleted{Message: fmt.Sprintf("Copied %s to clipboard", m.Label())}
	}
}

// openOriginal returns a command opening the original PDF.
func (v *View) openOriginal() tea.Cmd {
	doc := v.set.Document()
	ctx := v.ctx
	return func() tea.Msg {
		if v.actions == nil {
			return messages.ActionCompleted{Err: errActionsUnavailable}
		}
		if err := v.actions.OpenDocument(ctx, doc); err != nil {
			return messages.ActionCompleted{Err: err}
		}
		return messages.ActionCompleted{Message: fmt.Sprintf("Opened %s", doc.Name)}
	}
}

// refreshContent loads the selected tab into the viewport.
func (v *View) refreshContent() {
	v.viewport.SetContent(v.content())
	v.viewport.GotoTop()
}

// content returns the wrapped text for the selected tab.
func (v *View) content() string {
	m, ok := v.tabs.SelectedMethod()
	if !ok || v.set == nil {
		return ""
	}

	wrap := lipgloss.NewStyle().Width(v.viewport.Width)

	if m == domain.MethodOriginal {
		doc := v.set.Document()
		return wrap.Render(fmt.Sprintf("Path: %s\nSize: %d bytes\n\nPress o to open the original PDF in the system viewer.",
			doc.Identity(), doc.Size()))
	}

	r, _ := v.set.Result(m)
	if r.Failed() {
		return wrap.Inherit(v.styles.Error).Render(r.Text)
	}
	text := r.Text
	if strings.TrimSpace(text) == "" {
		return v.styles.Muted.Render("(no text extracted)")
	}
	if r.Cached {
		text = v.styles.Muted.Render("(from cache)") + "\n\n" + text
	}
	return wrap.Render(text)
}

// View renders the compare view.
func (v *View) View() string {
	var b strings.Builder

	switch {
	case v.processing:
		b.WriteString(v.styles.Title.Render(fmt.Sprintf("Comparing %s", v.document.Name)))
		b.WriteString("\n\n")
		b.WriteString(v.spinner.View())
		b.WriteString(" ")
		b.WriteString(v.styles.Normal.Render(ProcessingNotice))
		return b.String()

	case v.message != "":
		b.WriteString(v.styles.Warning.Render(v.message))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] back"))
		return b.String()

	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] back"))
		return b.String()

	case v.set == nil:
		b.WriteString(v.styles.Muted.Render("No document selected."))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] back"))
		return b.String()
	}

	doc := v.set.Document()
	b.WriteString(v.styles.Title.Render(doc.Name))
	b.WriteString(" ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("(%d bytes)", doc.Size())))
	b.WriteString("\n\n")
	b.WriteString(v.tabs.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Pane.Render(v.viewport.View()))
	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.notice)
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[tab/←→] method  [j/k] scroll  [c] copy  [o] open original  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.tabs.SetWidth(width)

	vpWidth := width - 4
	if vpWidth < 20 {
		vpWidth = 20
	}
	vpHeight := height - 10
	if vpHeight < 3 {
		vpHeight = 3
	}
	v.viewport.Width = vpWidth
	v.viewport.Height = vpHeight
	if v.set != nil {
		v.refreshContent()
	}
}

// Processing reports whether a comparison is running.
func (v *View) Processing() bool {
	return v.processing
}

// ResultSet returns the completed result set, or nil.
func (v *View) ResultSet() *domain.ResultSet {
	return v.set
}

// SelectedMethod returns the method of the visible tab.
func (v *View) SelectedMethod() (domain.Method, bool) {
	return v.tabs.SelectedMethod()
}

// Message returns the notice shown instead of results.
func (v *View) Message() string {
	return v.message
}

// Err returns the last comparison error.
func (v *View) Err() error {
	return v.err
}
