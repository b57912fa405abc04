package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathInput(t *testing.T) {
	in := NewPathInput(nil)

	require.NotNil(t, in)
	assert.NotNil(t, in.styles)
	assert.Empty(t, in.Value())
	assert.True(t, in.Focused())
}

func TestPathInput_Init(t *testing.T) {
	assert.NotNil(t, NewPathInput(nil).Init())
}

func TestPathInput_TypesRunes(t *testing.T) {
	in := NewPathInput(nil)

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a.pdf")})

	assert.Equal(t, "a.pdf", in.Value())
}

func TestPathInput_ValueTrimsQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  /tmp/a.pdf  ", "/tmp/a.pdf"},
		{`"/tmp/with space.pdf"`, "/tmp/with space.pdf"},
		{"'/tmp/b.pdf'", "/tmp/b.pdf"},
		{`"unbalanced.pdf`, `"unbalanced.pdf`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			in := NewPathInput(nil)
			in.SetValue(tt.in)
			assert.Equal(t, tt.want, in.Value())
		})
	}
}

func TestPathInput_View(t *testing.T) {
	in := NewPathInput(nil)
	in.SetValue("report.pdf")

	view := in.View()

	assert.Contains(t, view, "PDF:")
	assert.Contains(t, view, "report.pdf")
}

func TestPathInput_FocusBlur(t *testing.T) {
	in := NewPathInput(nil)

	in.Blur()
	assert.False(t, in.Focused())

	in.Focus()
	assert.True(t, in.Focused())
}

func TestPathInput_SetWidthMinimum(t *testing.T) {
	in := NewPathInput(nil)

	in.SetWidth(15)

	assert.Equal(t, 15, in.Width())
	assert.Equal(t, 20, in.textinput.Width)
}

func TestPathInput_Reset(t *testing.T) {
	in := NewPathInput(nil)
	in.SetValue("x.pdf")

	in.Reset()

	assert.Empty(t, in.Value())
}
