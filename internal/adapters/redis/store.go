package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/simreport/internal/adapters/codec"
	"github.com/aretw0/simreport/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Keys written by the simulation's sync loop.
const (
	KeyConfig  = "config"
	KeyHistory = "state:history"
	KeyStep    = "state:step"
	KeyStatus  = "status"
	KeyMeta    = "meta"
)

// Store implements ports.RunStore over the keys a running simulation syncs to Redis.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets a prefix prepended to every key.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{client: client}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Key returns the full key for name. A non-empty runID selects the
// "<prefix><runID>:<name>" namespace; an empty one the live simulation keys.
func (s *Store) Key(runID, name string) string {
	if runID == "" {
		return s.prefix + name
	}
	return s.prefix + runID + ":" + name
}

// Load assembles a run from the configuration, history and status keys.
// When no meta key exists, metadata is derived from status, step and history length.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	pipe := s.client.Pipeline()
	configCmd := pipe.Get(ctx, s.Key(runID, KeyConfig))
	metaCmd := pipe.Get(ctx, s.Key(runID, KeyMeta))
	existsCmd := pipe.Exists(ctx, s.Key(runID, KeyHistory))
	historyCmd := pipe.LRange(ctx, s.Key(runID, KeyHistory), 0, -1)
	stepCmd := pipe.Get(ctx, s.Key(runID, KeyStep))
	statusCmd := pipe.Get(ctx, s.Key(runID, KeyStatus))

	// Missing keys surface as backend.Nil on their own command.
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("failed to read run from redis: %w", err)
	}

	configRaw, err := configCmd.Result()
	if err != nil {
		return nil, domain.MissingArtifact("config", s.Key(runID, KeyConfig), err)
	}
	config, err := codec.DecodeConfig([]byte(configRaw))
	if err != nil {
		return nil, domain.MalformedArtifact("config", s.Key(runID, KeyConfig), err)
	}

	if existsCmd.Val() == 0 {
		return nil, domain.MissingArtifact("output", s.Key(runID, KeyHistory), backend.Nil)
	}
	rawSteps, err := historyCmd.Result()
	if err != nil {
		return nil, domain.MissingArtifact("output", s.Key(runID, KeyHistory), err)
	}
	history := make([]domain.StepRecord, 0, len(rawSteps))
	for i, raw := range rawSteps {
		step, err := codec.DecodeStep([]byte(raw))
		if err != nil {
			return nil, domain.MalformedArtifact("output", s.Key(runID, KeyHistory), fmt.Errorf("step %d: %w", i, err))
		}
		history = append(history, step)
	}

	var meta domain.Meta
	if metaRaw, err := metaCmd.Result(); err == nil {
		meta, err = codec.DecodeMeta([]byte(metaRaw))
		if err != nil {
			return nil, domain.MalformedArtifact("output", s.Key(runID, KeyMeta), err)
		}
	} else {
		meta = domain.Meta{Values: map[string]any{}}
		if status, err := statusCmd.Result(); err == nil {
			meta.Set("status", status)
		}
		if step, err := stepCmd.Result(); err == nil {
			meta.Set("step", json.Number(strings.TrimSpace(step)))
		}
		meta.Set("steps", len(history))
	}

	return &domain.Run{
		ID:      runID,
		Config:  config,
		Meta:    meta,
		History: history,
	}, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
