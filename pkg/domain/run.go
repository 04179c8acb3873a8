package domain

// StepRecord is the raw channel mapping recorded for one simulation step.
// Values are the decoded JSON values (float64, string, []any, map[string]any, nil).
type StepRecord map[string]any

// Meta is the free-form run metadata, keeping the key order of the source document.
type Meta struct {
	Keys   []string
	Values map[string]any
}

// NewMeta builds a Meta from ordered key/value pairs.
func NewMeta(pairs ...any) Meta {
	m := Meta{Values: make(map[string]any, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		m.Set(key, pairs[i+1])
	}
	return m
}

// Set adds or replaces a key. New keys are appended to the order.
func (m *Meta) Set(key string, value any) {
	if m.Values == nil {
		m.Values = make(map[string]any)
	}
	if _, exists := m.Values[key]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.Values[key] = value
}

// Len returns the number of metadata entries.
func (m Meta) Len() int {
	return len(m.Keys)
}

// Run is a completed simulation run as loaded from a RunStore.
// It is treated as immutable once loaded.
type Run struct {
	// ID identifies the run inside its store (a directory for the file store).
	ID string
	// Config is the run configuration, never interpreted by the pipeline.
	Config map[string]any
	Meta   Meta
	// History is ordered by simulation time.
	History []StepRecord
}

// Steps returns the number of recorded steps.
func (r *Run) Steps() int {
	if r == nil {
		return 0
	}
	return len(r.History)
}
