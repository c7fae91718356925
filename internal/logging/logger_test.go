package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetLogging restores package state so tests stay independent.
func resetLogging() {
	CloseAll()
	optsMu.Lock()
	opts = Options{}
	logLevel = LevelInfo
	optsMu.Unlock()
	logsDir = ""
}

func TestInitialize_DisabledIsNoop(t *testing.T) {
	t.Cleanup(resetLogging)
	ws := t.TempDir()

	require.NoError(t, Initialize(ws, Options{DebugMode: false}))

	// No logs directory should be created and Get must hand back a no-op.
	_, err := os.Stat(filepath.Join(ws, ".boardcheck", "logs"))
	assert.True(t, os.IsNotExist(err))

	l := Get(CategorySuite)
	l.Info("this goes nowhere")
	assert.Nil(t, l.logger)
}

func TestInitialize_DebugWritesCategoryFiles(t *testing.T) {
	t.Cleanup(resetLogging)
	ws := t.TempDir()

	require.NoError(t, Initialize(ws, Options{DebugMode: true, Level: "debug"}))

	Browser("session %s created", "abc")
	SuiteDebug("case %d started", 1)
	CloseAll()

	dir := filepath.Join(ws, ".boardcheck", "logs")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, " ")
	assert.Contains(t, joined, "browser")
	assert.Contains(t, joined, "suite")
}

func TestInitialize_RequiresWorkspace(t *testing.T) {
	assert.Error(t, Initialize("", Options{}))
}

func TestLevelFiltering(t *testing.T) {
	t.Cleanup(resetLogging)
	ws := t.TempDir()

	require.NoError(t, Initialize(ws, Options{DebugMode: true, Level: "error"}))

	l := Get(CategoryReport)
	l.Debug("hidden")
	l.Info("hidden")
	l.Error("visible")
	CloseAll()

	dir := filepath.Join(ws, ".boardcheck", "logs")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}
