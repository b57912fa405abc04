package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/views/compare"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/views/sources"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	sourcesView  *sources.View
	uploadView   *upload.View
	compareView  *compare.View
	settingsView *settings.View
	statusBar    *status.Bar

	// changes delivers example directory notifications.
	changes <-chan struct{}

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// watchStarted carries the example change channel once watching begins.
type watchStarted struct {
	changes <-chan struct{}
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		sourcesView:  sources.NewView(s, ports.Document),
		uploadView:   upload.NewView(s),
		compareView:  compare.NewView(s, ports.Comparison, ports.ResultAction),
		settingsView: settings.NewView(s, ports.Settings),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewSources,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.compareView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("pdfcompare"),
		a.sourcesView.Init(),
		a.watchExamples(),
	)
}

// watchExamples returns a command that subscribes to example changes.
func (a *App) watchExamples() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		changes, err := a.ports.Document.WatchExamples(ctx)
		if err != nil {
			logger.Debug("example watch unavailable: %v", err)
			return nil
		}
		return watchStarted{changes: changes}
	}
}

// waitForChange blocks until the example directory changes.
func (a *App) waitForChange() tea.Cmd {
	changes := a.changes
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return messages.ExamplesChanged{}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo,funlen // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case watchStarted:
		a.changes = msg.changes
		return a, a.waitForChange()

	case messages.ExamplesChanged:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
		return a, tea.Batch(cmd, a.waitForChange())

	case messages.ExamplesLoaded:
		a.sourcesView, cmd = a.sourcesView.Update(msg)
		return a, cmd

	case messages.ExampleSelected:
		a.showProcessing()
		return a, a.loadExample(msg.Example)

	case messages.UploadSubmitted:
		a.showProcessing()
		return a, a.loadUpload(msg.Path)

	case messages.DocumentLoaded:
		a.currentView = messages.ViewCompare
		switch {
		case msg.Message != "":
			a.compareView.ShowMessage(msg.Message)
			a.statusBar.Clear()
			return a, nil
		case msg.Err != nil:
			return a.Update(messages.ErrorOccurred{Err: msg.Err})
		}
		return a, a.compareView.Start(msg.Document)

	case messages.ComparisonCompleted:
		a.compareView, cmd = a.compareView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, cmd
		}
		a.statusBar.Clear()
		a.statusBar.SetState(status.StateResults)
		a.statusBar.SetSummary(len(domain.AllMethods()), msg.Set.Failures())
		return a, cmd

	case spinner.TickMsg:
		a.compareView, cmd = a.compareView.Update(msg)
		return a, cmd

	case messages.ActionCompleted:
		a.compareView, cmd = a.compareView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		if a.currentView == messages.ViewCompare {
			a.compareView.ShowMessage(fmt.Sprintf("Error: %s", msg.Err.Error()))
		}
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// handleKeyMsg routes keys to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewSources:
		if keymap.Matches(msg.String(), a.keymap.Help) {
			return a, a.switchView(messages.ViewHelp)
		}
		a.sourcesView, cmd = a.sourcesView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewCompare:
		if keymap.Matches(msg.String(), a.keymap.Help) && !a.compareView.Processing() {
			return a, a.switchView(messages.ViewHelp)
		}
		a.compareView, cmd = a.compareView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			return a, a.switchView(messages.ViewSources)
		}
	}
	return a, cmd
}

// switchView activates a view and runs its initialisation.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewSources:
		a.statusBar.Clear()
		return a.sourcesView.Init()
	case messages.ViewUpload:
		a.uploadView.Reset()
		return a.uploadView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case messages.ViewCompare:
		// Entered through DocumentLoaded
	}
	return nil
}

// showProcessing switches to the compare view while the document loads.
func (a *App) showProcessing() {
	a.currentView = messages.ViewCompare
	a.err = nil
	a.statusBar.Clear()
	a.statusBar.SetState(status.StateProcessing)
}

// loadExample returns a command that reads an example document.
func (a *App) loadExample(ex domain.Example) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		doc, err := a.ports.Document.LoadExample(ctx, ex.Name())
		return documentLoaded(doc, err)
	}
}

// loadUpload returns a command that reads a local file.
func (a *App) loadUpload(path string) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		doc, err := a.ports.Document.LoadUpload(ctx, path)
		return documentLoaded(doc, err)
	}
}

func documentLoaded(doc domain.Document, err error) messages.DocumentLoaded {
	if err != nil {
		if msg, ok := domain.MissingInputMessage(err); ok {
			return messages.DocumentLoaded{Message: msg, Err: err}
		}
		return messages.DocumentLoaded{Err: err}
	}
	return messages.DocumentLoaded{Document: doc}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewUpload:
		body = a.uploadView.View()
	case messages.ViewCompare:
		body = a.compareView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.sourcesView.View()
	}
	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Documents:
  j/k, ↑/↓    Navigate examples
  enter       Compare the selected example
  u           Upload a local PDF
  r           Reload examples

Results:
  tab, ←/→    Switch method
  j/k, ↑/↓    Scroll
  c           Copy the method's text
  o           Open the original PDF
  esc         Back to documents

  ctrl+c      Quit

[esc] back`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// StatusState returns the status bar state.
func (a *App) StatusState() status.State {
	return a.statusBar.State()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.sourcesView.SetDimensions(width, height)
	a.uploadView.SetDimensions(width, height)
	a.compareView.SetDimensions(width, height-2)
	a.settingsView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
