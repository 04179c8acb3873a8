package domain

import (
	"errors"
	"fmt"
)

// ErrMissingRunArtifact is returned when the config or output document of a run
// is absent or cannot be read.
var ErrMissingRunArtifact = errors.New("missing run artifact")

// ErrMalformedRunArtifact is returned when a run document cannot be parsed, lacks a
// required top-level field, or holds no channel data at all.
var ErrMalformedRunArtifact = errors.New("malformed run artifact")

// ErrEmptyRun is returned when a normalization needs at least one step and the
// channel has none.
var ErrEmptyRun = errors.New("empty run")

// RunArtifactError describes a failure to load one document of a run.
type RunArtifactError struct {
	Artifact string // "config" or "output"
	Path     string // file path or store key
	Kind     error  // ErrMissingRunArtifact or ErrMalformedRunArtifact
	Err      error
}

func (e *RunArtifactError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Artifact, e.Path)
	}
	return fmt.Sprintf("%s: %s (%s): %v", e.Kind, e.Artifact, e.Path, e.Err)
}

func (e *RunArtifactError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel kind of this error.
func (e *RunArtifactError) Is(target error) bool {
	return target == e.Kind
}

// MissingArtifact builds a RunArtifactError of kind ErrMissingRunArtifact.
func MissingArtifact(artifact, path string, err error) error {
	return &RunArtifactError{Artifact: artifact, Path: path, Kind: ErrMissingRunArtifact, Err: err}
}

// MalformedArtifact builds a RunArtifactError of kind ErrMalformedRunArtifact.
func MalformedArtifact(artifact, path string, err error) error {
	return &RunArtifactError{Artifact: artifact, Path: path, Kind: ErrMalformedRunArtifact, Err: err}
}

// ChannelError is a recoverable failure confined to one channel.
type ChannelError struct {
	Channel string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel %q: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
