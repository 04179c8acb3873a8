// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/simreport/internal/adapters/file"
	"github.com/aretw0/simreport/internal/synth"
	"github.com/stretchr/testify/require"
)

// WriteRunDir writes raw documents (e.g. "config.yaml", "output.json") into dir.
// Empty contents are not written, to build runs with missing documents.
func WriteRunDir(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		if content == "" {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

// SetupSyntheticRun saves a generated run under a temporary runs directory and points
// "latest" at it. It returns the runs directory and the run ID.
func SetupSyntheticRun(t *testing.T, opts synth.Options) (string, string) {
	t.Helper()

	run, err := synth.Generate(opts)
	require.NoError(t, err, "Failed to generate run")

	base := t.TempDir()
	store := file.New(base)
	require.NoError(t, store.Save(context.Background(), "run-1", run))
	if err := store.Link("run-1", "latest"); err != nil {
		t.Logf("latest link unavailable: %v", err)
	}
	return base, "run-1"
}
