package aggregate_test

import (
	"testing"

	"github.com/aretw0/simreport/internal/aggregate"
	"github.com/aretw0/simreport/internal/channel"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegroup_SkipsAbsentSteps(t *testing.T) {
	history := []domain.StepRecord{
		{"to_share": 1.0, "p_produced": 0.5},
		{"p_produced": 0.25},
		{"to_share": 3.0, "top_content": []any{"x"}},
	}

	stats := aggregate.Regroup(history, channel.DefaultSchema())

	assert.Equal(t, []string{"p_produced", "to_share", "top_content"}, stats.Order)

	toShare, ok := stats.Get("to_share")
	require.True(t, ok)
	assert.Equal(t, []domain.ChannelValue{domain.Scalar(1), domain.Scalar(3)}, toShare.Values)

	produced, _ := stats.Get("p_produced")
	assert.Len(t, produced.Values, 2)

	opaque, _ := stats.Get("top_content")
	assert.Equal(t, domain.KindOpaque, opaque.Kind)
	assert.Equal(t, []domain.ChannelValue{domain.Opaque{Raw: []any{"x"}}}, opaque.Values)

	for _, name := range stats.Order {
		ch, _ := stats.Get(name)
		assert.LessOrEqual(t, len(ch.Values), len(history))
		assert.NoError(t, ch.Err)
	}
}

func TestRegroup_LengthMatchesPresence(t *testing.T) {
	history := make([]domain.StepRecord, 10)
	present := 0
	for i := range history {
		history[i] = domain.StepRecord{}
		if i%3 == 0 {
			history[i]["to_share"] = float64(i)
			present++
		}
	}

	stats := aggregate.Regroup(history, channel.DefaultSchema())
	ch, ok := stats.Get("to_share")
	require.True(t, ok)
	assert.Len(t, ch.Values, present)
}

func TestRegroup_Deterministic(t *testing.T) {
	history := []domain.StepRecord{
		{"c": 1.0, "b": 2.0, "a": 3.0, "shares": map[string]any{"max": 1.0}},
		{"d": 1.0, "a": 3.0},
	}
	schema := channel.DefaultSchema()

	first := aggregate.Regroup(history, schema)
	second := aggregate.Regroup(history, schema)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "c", "shares", "d"}, first.Order)
}

func TestRegroup_DecodeFailureMarksChannel(t *testing.T) {
	history := []domain.StepRecord{
		{"to_share": 1.0, "p_produced": 0.1},
		{"to_share": "oops", "p_produced": 0.2},
		{"to_share": 2.0},
	}

	stats := aggregate.Regroup(history, channel.DefaultSchema())

	bad, _ := stats.Get("to_share")
	var stepErr *aggregate.StepError
	require.ErrorAs(t, bad.Err, &stepErr)
	assert.Equal(t, 1, stepErr.Step)

	good, _ := stats.Get("p_produced")
	assert.NoError(t, good.Err)
	assert.Len(t, good.Values, 2)
}

func TestRegroup_Empty(t *testing.T) {
	stats := aggregate.Regroup(nil, channel.DefaultSchema())
	assert.Equal(t, 0, stats.Len())
	_, ok := stats.Get("sample")
	assert.False(t, ok)
}
