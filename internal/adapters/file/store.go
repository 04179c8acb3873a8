package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/simreport/internal/adapters/codec"
	"github.com/aretw0/simreport/internal/fsutil"
	"github.com/aretw0/simreport/pkg/domain"
)

// OutputFile is the name of the output document inside a run directory.
const OutputFile = "output.json"

// ConfigFiles lists the accepted configuration document names, in lookup order.
var ConfigFiles = []string{"config.yaml", "config.yml", "config.json"}

// Store implements ports.RunStore and ports.RunWriter over run directories.
// A run directory holds a configuration document and OutputFile.
type Store struct {
	BasePath string
}

// New creates a new Store rooted at basePath.
// Run IDs are joined to basePath; with an empty basePath a run ID is a plain path.
func New(basePath string) *Store {
	return &Store{BasePath: basePath}
}

// Dir returns the directory of a run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.BasePath, runID)
}

// Resolve returns the run directory with symlinks evaluated, so that "latest"
// style links are reported as the directory they point to.
func (s *Store) Resolve(runID string) (string, error) {
	dir := s.Dir(runID)
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", domain.MissingArtifact("run", dir, err)
	}
	return resolved, nil
}

// Load reads the configuration and output documents of a run.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	dir := s.Dir(runID)

	configPath, configData, err := readConfig(dir)
	if err != nil {
		return nil, err
	}
	config, err := codec.DecodeConfig(configData)
	if err != nil {
		return nil, domain.MalformedArtifact("config", configPath, err)
	}

	outputPath := filepath.Join(dir, OutputFile)
	outputData, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, domain.MissingArtifact("output", outputPath, err)
	}
	meta, history, err := codec.DecodeOutput(outputData)
	if err != nil {
		return nil, domain.MalformedArtifact("output", outputPath, err)
	}

	return &domain.Run{
		ID:      runID,
		Config:  config,
		Meta:    meta,
		History: history,
	}, nil
}

// Save writes the run as config.yaml and OutputFile, creating the directory if needed.
// Each document is replaced atomically.
func (s *Store) Save(ctx context.Context, runID string, run *domain.Run) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}
	dir := s.Dir(runID)
	if err := fsutil.EnsureDir(dir); err != nil {
		return err
	}

	configData, err := codec.EncodeConfig(run.Config)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, ConfigFiles[0]), configData); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	outputData, err := codec.EncodeOutput(run.Meta, run.History)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(filepath.Join(dir, OutputFile), outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Link points the symlink name at runID, replacing an existing link.
// The simulator keeps "latest" pointing at its most recent run this way.
func (s *Store) Link(runID, name string) error {
	if runID == "" || name == "" || runID == name {
		return fmt.Errorf("invalid link %q -> %q", name, runID)
	}
	link := s.Dir(name)
	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("%s exists and is not a symlink", link)
		}
		if err := os.Remove(link); err != nil {
			return fmt.Errorf("failed to replace link: %w", err)
		}
	}
	// Relative target so the runs directory can be moved as a whole.
	if err := os.Symlink(runID, link); err != nil {
		return fmt.Errorf("failed to link %s: %w", name, err)
	}
	return nil
}

// List returns the IDs of all runs under BasePath, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := []string{}
	for _, entry := range entries {
		// Stat follows symlinks, so "latest" is listed too.
		if _, err := os.Stat(filepath.Join(s.BasePath, entry.Name(), OutputFile)); err == nil {
			runs = append(runs, entry.Name())
		}
	}
	sort.Strings(runs)
	return runs, nil
}

func readConfig(dir string) (string, []byte, error) {
	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return path, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, domain.MissingArtifact("config", path, err)
		}
	}
	return "", nil, domain.MissingArtifact("config", filepath.Join(dir, ConfigFiles[0]), fs.ErrNotExist)
}
