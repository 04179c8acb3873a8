package domain

import "fmt"

// ChannelKind identifies the semantic shape of a channel.
type ChannelKind string

const (
	KindSample        ChannelKind = "sample"
	KindScalar        ChannelKind = "scalar"
	KindGroupedScalar ChannelKind = "grouped"
	KindHistogram     ChannelKind = "histogram"
	KindOpaque        ChannelKind = "opaque"
)

// ParseChannelKind validates a kind name coming from configuration.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch k := ChannelKind(s); k {
	case KindSample, KindScalar, KindGroupedScalar, KindHistogram, KindOpaque:
		return k, nil
	}
	return "", fmt.Errorf("unknown channel kind %q", s)
}

// ChannelValue is one channel's value at one step.
// The set of implementations is closed: Sample, Scalar, GroupedScalar, Histogram, Opaque.
type ChannelValue interface {
	Kind() ChannelKind
	channelValue()
}

// EntityID is the canonical string form of an entity identity.
type EntityID string

// EntitySnapshot is one entity's 2D position at one step.
type EntitySnapshot struct {
	ID EntityID
	X  float64
	Y  float64
}

// Sample is a per-step snapshot of every sampled entity.
type Sample []EntitySnapshot

// Scalar is a single measurement.
type Scalar float64

// GroupedScalar maps a sub-key (e.g. "max", "mean") to a measurement.
type GroupedScalar map[string]float64

// Histogram maps an integer bin to a non-negative count.
type Histogram map[int]int

// Opaque carries a value of a channel the schema does not know.
type Opaque struct {
	Raw any
}

func (Sample) Kind() ChannelKind        { return KindSample }
func (Scalar) Kind() ChannelKind        { return KindScalar }
func (GroupedScalar) Kind() ChannelKind { return KindGroupedScalar }
func (Histogram) Kind() ChannelKind     { return KindHistogram }
func (Opaque) Kind() ChannelKind        { return KindOpaque }

func (Sample) channelValue()        {}
func (Scalar) channelValue()        {}
func (GroupedScalar) channelValue() {}
func (Histogram) channelValue()     {}
func (Opaque) channelValue()        {}
