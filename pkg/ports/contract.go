package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/simreport/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractRun returns the run fixture used by RunRunStoreContract.
// Values use JSON-native types so they survive any serialization round trip.
func ContractRun() *domain.Run {
	return &domain.Run{
		Config: map[string]any{
			"POPULATION": 20.0,
			"PUBLISHER":  map[string]any{"BASE_BUDGET": 1.5},
		},
		Meta: domain.NewMeta("seed", 42.0, "steps", 3.0, "population", 20.0),
		History: []domain.StepRecord{
			{
				"sample":     []any{map[string]any{"id": 1.0, "values": []any{0.1, 0.2}}},
				"to_share":   2.0,
				"share_dist": map[string]any{"0": 10.0, "1": 3.0},
			},
			{
				"to_share": 5.0,
			},
			{
				"sample":   []any{map[string]any{"id": 1.0, "values": []any{0.3, 0.4}}},
				"to_share": 1.0,
				"shares":   map[string]any{"max": 4.0, "min": 0.0, "mean": 1.5},
			},
		},
	}
}

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract. seed must persist the given run under
// runID using the backend's native layout.
func RunRunStoreContract(t *testing.T, store RunStore, seed func(t *testing.T, runID string, run *domain.Run)) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	t.Run("Load", func(t *testing.T) {
		want := ContractRun()
		seed(t, runID, want)

		got, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")

		assert.Equal(t, want.Meta.Keys, got.Meta.Keys, "meta must keep document order")
		require.Len(t, got.History, len(want.History))
		for i := range want.History {
			assert.JSONEq(t, mustJSON(t, want.History[i]), mustJSON(t, got.History[i]), "step %d", i)
		}
		assert.JSONEq(t, mustJSON(t, want.Config), mustJSON(t, got.Config))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrMissingRunArtifact)
	})
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
