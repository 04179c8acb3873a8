package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventChartRendered  EventType = "chart_rendered"
	EventChartSkipped   EventType = "chart_skipped"
	EventReportComposed EventType = "report_composed"
)

// Skip reasons reported with EventChartSkipped.
const (
	SkipOpaque  = "opaque"
	SkipInvalid = "invalid"
	SkipEmpty   = "empty"
	SkipFailed  = "failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// ChartEvent reports the outcome of one channel's chart.
type ChartEvent struct {
	EventBase
	Channel  string        `json:"channel"`
	Kind     ChartKind     `json:"kind,omitempty"`
	Filename string        `json:"filename,omitempty"`
	Duration time.Duration `json:"duration"`
	// Reason is set for skipped charts.
	Reason string `json:"reason,omitempty"`
	Err    error  `json:"-"`
}

// ReportEvent reports a written index.
type ReportEvent struct {
	EventBase
	Path      string `json:"path"`
	Artifacts int    `json:"artifacts"`
	Skipped   int    `json:"skipped"`
}

// LifecycleHooks defines callbacks for pipeline observability.
// Chart hooks may be called concurrently when rendering in parallel.
type LifecycleHooks struct {
	OnChartRendered  func(context.Context, *ChartEvent)
	OnChartSkipped   func(context.Context, *ChartEvent)
	OnReportComposed func(context.Context, *ReportEvent)
}
