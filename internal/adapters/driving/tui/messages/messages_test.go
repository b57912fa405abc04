package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewSources, "sources"},
		{ViewUpload, "upload"},
		{ViewCompare, "compare"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewSources_IsZeroValue(t *testing.T) {
	var v ViewType

	assert.Equal(t, ViewSources, v)
}

func TestDocumentLoaded_CarriesMessage(t *testing.T) {
	msg := DocumentLoaded{Message: "Example file not found: examples/Ocr.pdf", Err: domain.ErrExampleNotFound}

	assert.ErrorIs(t, msg.Err, domain.ErrExampleNotFound)
	assert.Contains(t, msg.Message, "Ocr.pdf")
}

func TestActionCompleted_Error(t *testing.T) {
	msg := ActionCompleted{Err: errors.New("no clipboard")}

	assert.EqualError(t, msg.Err, "no clipboard")
	assert.Empty(t, msg.Message)
}
