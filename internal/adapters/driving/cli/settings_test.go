package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

func TestSettingsCmd_ShowIsDefault(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Config file: /tmp/pdfcompare/config.toml")
	assert.Contains(t, stdout, "ocr.dpi")
	assert.Contains(t, stdout, "300")
	assert.Contains(t, stdout, "(not set)")
}

func TestSettingsShowCmd_SortedKeys(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Less(t, strings.Index(stdout, "mistral.api_key"), strings.Index(stdout, "ocr.dpi"))
}

func TestSettingsSetCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "settings", "set", "ocr.dpi", "200")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Set ocr.dpi")
	assert.Equal(t, "200", ts.settings.Sets["ocr.dpi"])
}

func TestSettingsSetCmd_InvalidValue(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute(t, "", "settings", "set", "ocr.dpi", "high")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetCmd_RequiresTwoArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute(t, "", "settings", "set", "ocr.dpi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsCmd_NoService(t *testing.T) {
	SetServices(nil)

	_, _, err := execute(t, "", "settings", "show")

	assert.EqualError(t, err, "settings service not configured")
}
