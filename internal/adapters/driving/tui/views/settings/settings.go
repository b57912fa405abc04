// Package settings provides the settings view for the TUI.
package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
)

// View lists every setting and edits one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	keys     []string
	values   map[string]string
	path     string
	err      error
	notice   string
	selected int

	editing bool
	input   textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           ti,
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that reads the displayable settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		values, err := v.settingsService.Values()
		return messages.SettingsLoaded{Values: values, Path: v.settingsService.ConfigPath(), Err: err}
	}
}

// saveSetting returns a command that stores one value.
func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.values = msg.Values
		v.path = msg.Path
		v.keys = make([]string, 0, len(msg.Values))
		for k := range msg.Values {
			v.keys = append(v.keys, k)
		}
		sort.Strings(v.keys)
		if v.selected >= len(v.keys) {
			v.selected = 0
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.notice = v.styles.Error.Render(fmt.Sprintf("Error: %s", msg.Err.Error()))
			return v, nil
		}
		v.notice = v.styles.Success.Render(fmt.Sprintf("Saved %s. Changes apply on next launch.", msg.Key))
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles navigation keys.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case "enter":
		if len(v.keys) == 0 {
			return v, nil
		}
		key := v.keys[v.selected]
		v.editing = true
		v.notice = ""
		v.input.Reset()
		v.input.EchoMode = textinput.EchoNormal
		if isSecret(key) {
			v.input.EchoMode = textinput.EchoPassword
		} else {
			v.input.SetValue(v.values[key])
		}
		return v, v.input.Focus()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSources}
		}
	}
	return v, nil
}

// handleEditKeys handles keys while a value is being edited.
func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.input.Blur()
		return v, nil
	case "enter":
		v.editing = false
		v.input.Blur()
		return v, v.saveSetting(v.keys[v.selected], v.input.Value())
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func isSecret(key string) bool {
	return strings.HasSuffix(key, "api_key")
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n")
	if v.path != "" {
		b.WriteString(v.styles.Muted.Render(v.path))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] back"))
		return b.String()
	}

	width := 0
	for _, k := range v.keys {
		if len(k) > width {
			width = len(k)
		}
	}

	for i, k := range v.keys {
		value := v.values[k]
		if value == "" {
			value = "(not set)"
		}
		line := fmt.Sprintf("%-*s  %s", width, k, value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Subtitle.Render(v.keys[v.selected] + ": "))
		b.WriteString(v.styles.InputField.Render(v.input.View()))
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
		return b.String()
	}
	if v.notice != "" {
		b.WriteString(v.notice)
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset clears edit state before the view is shown again.
func (v *View) Reset() {
	v.editing = false
	v.notice = ""
	v.input.Reset()
	v.input.Blur()
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Keys returns the displayed setting keys in order.
func (v *View) Keys() []string {
	return v.keys
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
