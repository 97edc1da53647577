package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	t.Parallel()

	f, err := NewFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = NewFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatConsole, f)

	f, err = NewFormat("xml")
	require.Error(t, err)
	assert.Equal(t, FormatConsole, f)
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "json")
	require.NoError(t, err)

	logger.Debug("export done")
	require.NoError(t, logger.Sync())
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"message":"export done"`)
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "console")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
}
