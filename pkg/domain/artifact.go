package domain

// ChartKind identifies how an aggregated channel is drawn.
type ChartKind string

const (
	ChartTrajectory ChartKind = "trajectory"
	ChartScalarLine ChartKind = "scalar_line"
	ChartGroupLine  ChartKind = "grouped_line"
	ChartHistogram  ChartKind = "histogram"
)

// ChartKindFor returns the chart used for a channel kind.
// Opaque channels have no chart.
func ChartKindFor(kind ChannelKind) (ChartKind, bool) {
	switch kind {
	case KindSample:
		return ChartTrajectory, true
	case KindScalar:
		return ChartScalarLine, true
	case KindGroupedScalar:
		return ChartGroupLine, true
	case KindHistogram:
		return ChartHistogram, true
	}
	return "", false
}

// Artifact is a rendered chart file. Filename is relative to the plots directory.
type Artifact struct {
	Channel  string    `json:"channel"`
	Filename string    `json:"filename"`
	Kind     ChartKind `json:"kind"`
	Title    string    `json:"title"`
}
