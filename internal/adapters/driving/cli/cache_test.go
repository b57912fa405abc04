package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

func TestCacheCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(cacheCmd.Commands()))
	for _, c := range cacheCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"list", "clear", "path"}, names)
}

func TestCacheListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "cache", "list")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Cache is empty.")
}

func TestCacheListCmd_Entries(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.cache.EntryList = []domain.CacheEntry{
		{Key: "cache/Ocr_tesseract.md", Method: domain.MethodTesseract, Size: 120,
			EngineVersion: "tesseract/5.3.0@300dpi", CreatedAt: time.Now()},
		{Key: "cache/Ocr_docling.md", Method: domain.MethodDocling, Size: 80},
	}

	stdout, _, err := execute(t, "", "cache", "list")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Cached results (2):")
	assert.Contains(t, stdout, "cache/Ocr_tesseract.md")
	assert.Contains(t, stdout, "tesseract/5.3.0@300dpi")
	assert.Contains(t, stdout, "docling")
}

func TestCacheClearCmd_All(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.cache.EntryList = []domain.CacheEntry{{Key: "a"}, {Key: "b"}}

	stdout, _, err := execute(t, "", "cache", "clear")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 2 cached results.")
	assert.Equal(t, []string{""}, ts.cache.Cleared)
}

func TestCacheClearCmd_Document(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "cache", "clear", "examples/Ocr.pdf")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed 1 cached results.")
	assert.Equal(t, []string{"examples/Ocr.pdf"}, ts.cache.Cleared)
}

func TestCacheClearCmd_TooManyArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute(t, "", "cache", "clear", "a", "b")

	assert.Error(t, err)
}

func TestCachePathCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "cache", "path")

	require.NoError(t, err)
	assert.Equal(t, "cache\n", stdout)
}

func TestCacheCmd_NoService(t *testing.T) {
	SetServices(nil)

	for _, args := range [][]string{{"cache", "list"}, {"cache", "clear"}, {"cache", "path"}} {
		_, _, err := execute(t, "", args...)
		assert.EqualError(t, err, "cache service not configured")
	}
}
