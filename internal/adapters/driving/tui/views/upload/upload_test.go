package upload

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driving/tui/messages"
)

func typeText(v *View, s string) *View {
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.Init())
	assert.Contains(t, v.View(), "Upload a PDF")
}

func TestView_SubmitPath(t *testing.T) {
	v := typeText(NewView(nil), "/tmp/report.pdf")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.UploadSubmitted{Path: "/tmp/report.pdf"}, cmd())
}

func TestView_SubmitEmptyShowsHint(t *testing.T) {
	v := NewView(nil)

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "Enter the path of a PDF file.")
}

func TestView_EscGoesBack(t *testing.T) {
	v := NewView(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewChanged{View: messages.ViewSources}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := typeText(NewView(nil), "a.pdf")
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	v.Reset()

	assert.Empty(t, v.Value())
	assert.NotContains(t, v.View(), "Enter the path")
}
