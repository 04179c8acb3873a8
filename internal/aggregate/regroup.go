// Package aggregate turns a run's step-ordered history into per-channel results.
// Every function here is pure and computes its result in one pass over its input.
package aggregate

import (
	"sort"

	"github.com/aretw0/simreport/internal/channel"
	"github.com/aretw0/simreport/pkg/domain"
)

// Channel is the time-ordered sequence of one channel's values.
type Channel struct {
	Name   string
	Kind   domain.ChannelKind
	Values []domain.ChannelValue
	// Err is the first decode failure; the channel is still listed so callers can skip it.
	Err error
}

// Stats maps channel names to their sequences, keeping first-appearance order.
type Stats struct {
	Order    []string
	Channels map[string]*Channel
}

// Get returns a channel by name.
func (s Stats) Get(name string) (*Channel, bool) {
	ch, ok := s.Channels[name]
	return ch, ok
}

// Len returns the number of distinct channels observed.
func (s Stats) Len() int {
	return len(s.Order)
}

// Regroup transposes history into per-channel sequences.
// A channel absent from a step is skipped for that step, never zero-filled.
// Values are decoded into the variant the schema assigns to the channel name.
func Regroup(history []domain.StepRecord, schema *channel.Schema) Stats {
	stats := Stats{Channels: make(map[string]*Channel)}

	for step, record := range history {
		// Sorted so first-appearance order is deterministic within a step.
		names := make([]string, 0, len(record))
		for name := range record {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			ch, ok := stats.Channels[name]
			if !ok {
				ch = &Channel{Name: name, Kind: schema.Kind(name)}
				stats.Channels[name] = ch
				stats.Order = append(stats.Order, name)
			}

			value, err := channel.Decode(ch.Kind, record[name])
			if err != nil {
				if ch.Err == nil {
					ch.Err = &StepError{Step: step, Err: err}
				}
				continue
			}
			ch.Values = append(ch.Values, value)
		}
	}
	return stats
}
