package rcconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	goodConfig = `
fallback: log-and-continue
sanitizer: leak-check
stress_nodes: 500
stress_edges: 2000
`

	invalidConfig = `
fallback:
sanitizer:
stress_nodes: 0
`
)

func TestLoadFilesWithInvalidInput(t *testing.T) {
	var cfg Config

	err := LoadFiles(&cfg)
	require.Error(t, err)
	require.Equal(t, errNoFilesToLoad, err)

	err = LoadFiles(&cfg, "./no-such-file.yaml")
	require.Error(t, err)

	fname := writeTempFile(t, goodConfig)
	defer os.Remove(fname)

	err = LoadFiles(&cfg, fname, "./no-such-file.yaml")
	require.Error(t, err)

	err = LoadFiles(&cfg, fname, "./config.go")
	require.Error(t, err)
}

func TestLoadFilesMergesAndValidates(t *testing.T) {
	fname := writeTempFile(t, goodConfig)
	defer os.Remove(fname)

	partial := writeTempFile(t, "stress_nodes: 9000\n")
	defer os.Remove(partial)

	var cfg Config
	err := LoadFiles(&cfg, fname, partial)
	require.NoError(t, err)

	require.Equal(t, FallbackLogAndContinue, cfg.Fallback)
	require.Equal(t, SanitizerLeakCheck, cfg.Sanitizer)
	require.Equal(t, 9000, cfg.StressNodes)
	require.Equal(t, 2000, cfg.StressEdges)
}

func TestLoadFilesRejectsMissingRequiredFields(t *testing.T) {
	fname := writeTempFile(t, invalidConfig)
	defer os.Remove(fname)

	var cfg Config
	err := LoadFiles(&cfg, fname)
	require.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	fname := writeTempFile(t, "sanitizer: none\n")
	defer os.Remove(fname)

	// Loading an empty-ish overlay on top of a fresh Default must still
	// validate: Default's own values satisfy every validate tag.
	require.NoError(t, LoadFiles(&cfg, fname))
}

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp("", "rcconfig-test-*.yaml")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteString(contents)
	require.NoError(t, err)
	return f.Name()
}
