package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deckDir(t *testing.T, files ...string) (mapping, svgs, pngs string) {
	t.Helper()
	dir := t.TempDir()
	mapping = filepath.Join(dir, "mapping.json")
	require.NoError(t, os.WriteFile(mapping, []byte(`{"A": "Apple", "b": "Ball"}`), 0o644))
	svgs = filepath.Join(dir, "svgs")
	pngs = filepath.Join(dir, "pngs")
	require.NoError(t, os.Mkdir(svgs, 0o755))
	require.NoError(t, os.Mkdir(pngs, 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}
	return mapping, svgs, pngs
}

func TestRun_AllNamesMatch(t *testing.T) {
	mapping, svgs, pngs := deckDir(t,
		"svgs/A (Apple).svg", "svgs/B (Ball).svg",
		"pngs/A (Apple).png", "pngs/B (Ball).png",
	)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-mapping", mapping, "-svgs", svgs, "-pngs", pngs}, &stdout, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Expected total: 2")
	assert.Contains(t, stdout.String(), "All filenames match "+mapping)
}

func TestRun_Mismatch(t *testing.T) {
	mapping, svgs, pngs := deckDir(t,
		"svgs/A (Apple).svg", "svgs/B (Ball).svg", "svgs/C (Cat).svg",
		"pngs/A (Apple).png",
	)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-mapping", mapping, "-svgs", svgs, "-pngs", pngs}, &stdout, &stderr)
	assert.Equal(t, exitMismatch, code)

	out := stdout.String()
	assert.Contains(t, out, "Missing PNGs:\n - B (Ball)\n")
	assert.Contains(t, out, "Unexpected SVGs:\n - C (Cat)\n")
	assert.NotContains(t, out, "Missing SVGs:")
	assert.NotContains(t, out, "All filenames match")
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-mapping", filepath.Join(t.TempDir(), "missing.json")}, &stdout, &stderr)
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, stderr.String(), "Error:")

	assert.Equal(t, exitFatal, run([]string{"-unknown"}, &stdout, &stderr))
}
