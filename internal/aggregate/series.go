package aggregate

import (
	"sort"

	"github.com/aretw0/simreport/pkg/domain"
)

// AggregateScalar returns the scalar sequence unchanged, indexed by step.
func AggregateScalar(values []domain.ChannelValue) ([]float64, error) {
	out := make([]float64, 0, len(values))
	for step, v := range values {
		s, ok := v.(domain.Scalar)
		if !ok {
			return nil, unexpected(step, domain.KindScalar, v)
		}
		out = append(out, float64(s))
	}
	return out, nil
}

// GroupedSeries holds one series per sub-key. Series lengths may differ.
type GroupedSeries struct {
	Keys   []string
	Values map[string][]float64
}

// Len returns the number of sub-keys.
func (g GroupedSeries) Len() int {
	return len(g.Keys)
}

// AggregateGrouped appends each step's (key, value) pairs to the key's series.
// Keys absent from a step are not extended; nothing is padded.
func AggregateGrouped(values []domain.ChannelValue) (GroupedSeries, error) {
	g := GroupedSeries{Values: make(map[string][]float64)}

	for step, v := range values {
		group, ok := v.(domain.GroupedScalar)
		if !ok {
			return GroupedSeries{}, unexpected(step, domain.KindGroupedScalar, v)
		}

		keys := make([]string, 0, len(group))
		for k := range group {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if _, known := g.Values[k]; !known {
				g.Keys = append(g.Keys, k)
			}
			g.Values[k] = append(g.Values[k], group[k])
		}
	}
	return g, nil
}
