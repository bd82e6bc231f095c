package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/paveg/tisch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "tisch table toolkit")
}

func TestRunWithoutFlagsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Usage: tisch-cli")
}

func TestRunDemo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--demo", "--rows", "25"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "== head(5) ==")
	assert.Contains(t, out, "Employee_1")
	assert.Contains(t, out, "department counts")
	assert.Contains(t, out, "...")
}

func TestRunDemoHTML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--demo", "--rows", "5", "--html"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "<table><thead>")
}

func TestRunBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tisch.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--demo", "--config", path}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unsupported config file format")
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tisch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display_max_rows: 8\ndisplay_head_rows: 4\ndisplay_tail_rows: 4\n"), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.DisplayMaxRows)
	assert.Equal(t, config.DefaultFloatPrecision, cfg.FloatPrecision)
}

func TestRunDemoDirect(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.DiscardHandler)

	require.NoError(t, runDemo(&buf, logger, config.NewConfig(), 0, false))
	assert.Contains(t, buf.String(), "== mean ==")
}
