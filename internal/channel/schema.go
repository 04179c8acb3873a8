// Package channel maps channel names to their semantic shape and decodes raw
// step values into domain.ChannelValue variants.
package channel

import (
	"fmt"

	"github.com/aretw0/simreport/pkg/domain"
)

// Spec describes one known channel.
type Spec struct {
	Name  string             `mapstructure:"name"`
	Kind  domain.ChannelKind `mapstructure:"kind"`
	Title string             `mapstructure:"title"`
	// File is the artifact base name; defaults to Name.
	File string `mapstructure:"file"`
}

// TrajectoryFile is the artifact base name of the "sample" channel.
const TrajectoryFile = "agent_trajectories"

// Filename returns the artifact base name (without extension).
func (s Spec) Filename() string {
	if s.File != "" {
		return s.File
	}
	if s.Name == "sample" && s.Kind == domain.KindSample {
		return TrajectoryFile
	}
	return s.Name
}

// DisplayTitle returns the chart title, falling back to the channel name.
func (s Spec) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// Schema is an ordered set of channel specs. Its order is the chart order of the report.
type Schema struct {
	specs []Spec
	index map[string]int
}

var defaultSpecs = []Spec{
	{Name: "sample", Kind: domain.KindSample, Title: "Agent Trajectories"},
	{Name: "to_share", Kind: domain.KindScalar, Title: "To Share"},
	{Name: "p_produced", Kind: domain.KindScalar, Title: "P(produced)"},
	{Name: "shares", Kind: domain.KindGroupedScalar, Title: "Shares"},
	{Name: "followers", Kind: domain.KindGroupedScalar, Title: "Followers"},
	{Name: "share_dist", Kind: domain.KindHistogram, Title: "Share Distribution"},
	{Name: "follower_dist", Kind: domain.KindHistogram, Title: "Follower Distribution"},
	{Name: "value_shifts", Kind: domain.KindGroupedScalar, Title: "Value Shifts"},
	{Name: "subscribers", Kind: domain.KindGroupedScalar, Title: "Subscribers"},
	{Name: "published", Kind: domain.KindGroupedScalar, Title: "Published"},
	{Name: "reach", Kind: domain.KindGroupedScalar, Title: "Reach"},
	{Name: "budget", Kind: domain.KindGroupedScalar, Title: "Budget"},
	{Name: "publishability", Kind: domain.KindGroupedScalar, Title: "Publishability"},
}

// DefaultSchema returns the channels recorded by the simulator.
func DefaultSchema() *Schema {
	s, _ := NewSchema(defaultSpecs...)
	return s
}

// NewSchema builds a schema. Names must be unique and kinds valid.
func NewSchema(specs ...Spec) (*Schema, error) {
	s := &Schema{index: make(map[string]int, len(specs))}
	for _, spec := range specs {
		if err := validate(spec); err != nil {
			return nil, err
		}
		if _, dup := s.index[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate channel %q", spec.Name)
		}
		s.index[spec.Name] = len(s.specs)
		s.specs = append(s.specs, spec)
	}
	return s, nil
}

// With returns a copy of the schema where specs replace entries of the same name
// in place and new names are appended.
func (s *Schema) With(specs ...Spec) (*Schema, error) {
	out := &Schema{
		specs: append([]Spec(nil), s.specs...),
		index: make(map[string]int, len(s.index)+len(specs)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	for _, spec := range specs {
		if err := validate(spec); err != nil {
			return nil, err
		}
		if i, ok := out.index[spec.Name]; ok {
			out.specs[i] = spec
			continue
		}
		out.index[spec.Name] = len(out.specs)
		out.specs = append(out.specs, spec)
	}
	return out, nil
}

// Lookup returns the spec of a known channel.
func (s *Schema) Lookup(name string) (Spec, bool) {
	i, ok := s.index[name]
	if !ok {
		return Spec{}, false
	}
	return s.specs[i], true
}

// Kind returns the kind of a channel; unknown channels are opaque.
func (s *Schema) Kind(name string) domain.ChannelKind {
	if spec, ok := s.Lookup(name); ok {
		return spec.Kind
	}
	return domain.KindOpaque
}

// Specs returns the specs in chart order.
func (s *Schema) Specs() []Spec {
	return append([]Spec(nil), s.specs...)
}

func validate(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("channel name cannot be empty")
	}
	if _, err := domain.ParseChannelKind(string(spec.Kind)); err != nil {
		return fmt.Errorf("channel %q: %w", spec.Name, err)
	}
	return nil
}
