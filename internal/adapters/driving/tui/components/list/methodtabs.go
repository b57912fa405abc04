// Package list provides list display components for the TUI.
package list

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// MethodTabs shows one tab per entry of a result set.
type MethodTabs struct {
	set      *domain.ResultSet
	methods  []domain.Method
	selected int
	styles   *styles.Styles
	width    int
}

// NewMethodTabs creates a new tab row.
func NewMethodTabs(s *styles.Styles) *MethodTabs {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &MethodTabs{
		styles: s,
		width:  80,
	}
}

// Init initialises the tab row.
func (t *MethodTabs) Init() tea.Cmd {
	return nil
}

// Update handles tab navigation.
func (t *MethodTabs) Update(msg tea.Msg) (*MethodTabs, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "right", "l":
			t.Next()
		case "shift+tab", "left", "h":
			t.Prev()
		}
	}
	return t, nil
}

// View renders the tab row.
func (t *MethodTabs) View() string {
	if t.set == nil {
		return ""
	}

	tabs := make([]string, 0, len(t.methods))
	for i, m := range t.methods {
		label := m.Label() + t.marker(m)
		if i == t.selected {
			tabs = append(tabs, t.styles.MethodTab(m).Render(label))
		} else {
			tabs = append(tabs, t.styles.Tab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

// marker returns the status suffix for a method.
func (t *MethodTabs) marker(m domain.Method) string {
	r, ok := t.set.Result(m)
	if !ok {
		return ""
	}
	switch {
	case r.Failed():
		return " ✗"
	case r.Cached:
		return " ●"
	default:
		return ""
	}
}

// SetResultSet replaces the tabs and selects the first one.
func (t *MethodTabs) SetResultSet(set *domain.ResultSet) {
	t.set = set
	t.methods = nil
	if set != nil {
		t.methods = set.Methods()
	}
	t.selected = 0
}

// Len returns the number of tabs.
func (t *MethodTabs) Len() int {
	return len(t.methods)
}

// Selected returns the index of the selected tab.
func (t *MethodTabs) Selected() int {
	return t.selected
}

// SetSelected sets the selected index.
func (t *MethodTabs) SetSelected(index int) {
	if index >= 0 && index < len(t.methods) {
		t.selected = index
	}
}

// SelectedMethod returns the method of the selected tab.
func (t *MethodTabs) SelectedMethod() (domain.Method, bool) {
	if len(t.methods) == 0 {
		return "", false
	}
	return t.methods[t.selected], true
}

// Next selects the next tab, wrapping at the end.
func (t *MethodTabs) Next() {
	if len(t.methods) == 0 {
		return
	}
	t.selected = (t.selected + 1) % len(t.methods)
}

// Prev selects the previous tab, wrapping at the start.
func (t *MethodTabs) Prev() {
	if len(t.methods) == 0 {
		return
	}
	t.selected = (t.selected - 1 + len(t.methods)) % len(t.methods)
}

// SetWidth sets the available width.
func (t *MethodTabs) SetWidth(width int) {
	t.width = width
}
