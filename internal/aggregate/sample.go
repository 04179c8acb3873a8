package aggregate

import (
	"fmt"

	"github.com/aretw0/simreport/pkg/domain"
)

// Point is one recorded position.
type Point struct {
	X, Y float64
}

// Trajectories holds each entity's chronological positions.
// Order lists entity IDs by first appearance.
type Trajectories struct {
	Order  []domain.EntityID
	Points map[domain.EntityID][]Point
}

// Len returns the number of entities.
func (t Trajectories) Len() int {
	return len(t.Order)
}

// AggregateSamples regroups per-step samples by entity identity.
// An entity present at steps {2,5,7} gets exactly three points in that order.
func AggregateSamples(values []domain.ChannelValue) (Trajectories, error) {
	t := Trajectories{Points: make(map[domain.EntityID][]Point)}

	for step, v := range values {
		sample, ok := v.(domain.Sample)
		if !ok {
			return Trajectories{}, unexpected(step, domain.KindSample, v)
		}

		seen := make(map[domain.EntityID]struct{}, len(sample))
		for _, snap := range sample {
			if _, dup := seen[snap.ID]; dup {
				return Trajectories{}, &StepError{Step: step, Err: fmt.Errorf("entity %q recorded twice", snap.ID)}
			}
			seen[snap.ID] = struct{}{}

			if _, known := t.Points[snap.ID]; !known {
				t.Order = append(t.Order, snap.ID)
			}
			t.Points[snap.ID] = append(t.Points[snap.ID], Point{X: snap.X, Y: snap.Y})
		}
	}
	return t, nil
}
