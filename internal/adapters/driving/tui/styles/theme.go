// Package styles holds the colour palette and lipgloss styles of the viewer.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// Theme is the viewer palette.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// Success marks cached results, Warning missing examples and
	// unconfigured methods, Error failed methods.
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border lipgloss.Color

	// Methods gives each result tab its own accent. Methods without an
	// entry use Secondary.
	Methods map[domain.Method]lipgloss.Color
}

// DefaultTheme returns the dark palette used unless another is supplied.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#2563EB"),
		Secondary:  lipgloss.Color("#0D9488"),
		Background: lipgloss.Color("#111827"),
		Foreground: lipgloss.Color("#E5E7EB"),
		Muted:      lipgloss.Color("#6B7280"),
		Success:    lipgloss.Color("#22C55E"),
		Warning:    lipgloss.Color("#EAB308"),
		Error:      lipgloss.Color("#EF4444"),
		Border:     lipgloss.Color("#374151"),
		Methods: map[domain.Method]lipgloss.Color{
			domain.MethodTesseract: lipgloss.Color("#7C3AED"),
			domain.MethodDocling:   lipgloss.Color("#0891B2"),
			domain.MethodPDFText:   lipgloss.Color("#65A30D"),
			domain.MethodMistral:   lipgloss.Color("#EA580C"),
			domain.MethodOriginal:  lipgloss.Color("#475569"),
		},
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	// InputField frames the upload path prompt.
	InputField lipgloss.Style

	StatusBar lipgloss.Style

	// Tab is an unselected method tab; ActiveTab is recoloured per method
	// by MethodTab.
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// Pane frames the scrollable result text.
	Pane lipgloss.Style

	Spinner lipgloss.Style
}

// NewStyles derives styles from theme, falling back to DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	framed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground).Background(theme.Primary),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),
		Success:  lipgloss.NewStyle().Foreground(theme.Success),
		Warning:  lipgloss.NewStyle().Foreground(theme.Warning),
		Help:     lipgloss.NewStyle().Foreground(theme.Muted),

		InputField: framed,
		Pane:       framed,

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Background).
			Padding(0, 1),

		Tab: lipgloss.NewStyle().Foreground(theme.Muted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Secondary).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().Foreground(theme.Primary),
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// MethodTab returns the selected-tab style in the method's accent colour.
func (s *Styles) MethodTab(m domain.Method) lipgloss.Style {
	if c, ok := s.theme.Methods[m]; ok {
		return s.ActiveTab.Background(c)
	}
	return s.ActiveTab
}
