package simreport

import "github.com/aretw0/simreport/pkg/domain"

// Skip records a channel that produced no chart.
type Skip struct {
	Channel string             `json:"channel"`
	Kind    domain.ChannelKind `json:"kind"`
	Reason  string             `json:"reason"`
	Error   string             `json:"error,omitempty"`
}

// Result summarizes one report.
type Result struct {
	RunID      string            `json:"run_id"`
	ReportPath string            `json:"report_path"`
	Artifacts  []domain.Artifact `json:"artifacts"`
	Skipped    []Skip            `json:"skipped"`
}
