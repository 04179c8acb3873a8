package aggregate_test

import (
	"testing"

	"github.com/aretw0/simreport/internal/aggregate"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateDistribution_Normalizes(t *testing.T) {
	values := []domain.ChannelValue{
		domain.Histogram{1: 2},
		domain.Histogram{1: 4},
		domain.Histogram{2: 3},
	}

	h, err := aggregate.AggregateDistribution(values)
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 6, 2: 3}, h.Merged)
	assert.Equal(t, 1, h.MinBin)
	assert.Equal(t, 3, h.MaxBin)
	assert.Equal(t, 3, h.Steps)
	assert.Equal(t, map[int]float64{1: 2.0, 2: 1.0}, h.Means)
	assert.Equal(t, []int{1, 2}, h.RenderedBins(), "bin 0 was never observed")
}

func TestAggregateDistribution_DropsBinZeroFromRendering(t *testing.T) {
	h, err := aggregate.AggregateDistribution([]domain.ChannelValue{domain.Histogram{0: 100, 1: 1}})
	require.NoError(t, err)

	assert.Equal(t, 100.0, h.Means[0])
	assert.Equal(t, []int{0, 1}, h.Bins())
	assert.Equal(t, []int{1}, h.RenderedBins())
}

func TestAggregateDistribution_DensifiesGaps(t *testing.T) {
	values := []domain.ChannelValue{
		domain.Histogram{0: 4, 3: 2},
		domain.Histogram{},
	}

	h, err := aggregate.AggregateDistribution(values)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3}, h.Bins())
	assert.Equal(t, map[int]float64{0: 2, 1: 0, 2: 0, 3: 1}, h.Means, "absent bins contribute 0; empty steps still count")
}

func TestAggregateDistribution_EmptyBins(t *testing.T) {
	h, err := aggregate.AggregateDistribution([]domain.ChannelValue{domain.Histogram{}, domain.Histogram{}})
	require.NoError(t, err)
	assert.True(t, h.Empty())
	assert.Empty(t, h.RenderedBins())
}

func TestAggregateDistribution_NoSteps(t *testing.T) {
	_, err := aggregate.AggregateDistribution(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyRun)
}

func TestAggregateDistribution_WrongVariant(t *testing.T) {
	_, err := aggregate.AggregateDistribution([]domain.ChannelValue{domain.GroupedScalar{"1": 2}})
	assert.Error(t, err)
}
