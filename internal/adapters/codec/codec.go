// Package codec reads and writes the documents a simulation run is persisted as:
// a YAML configuration and a JSON output holding "meta" and "history".
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/simreport/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Top-level fields of the output document.
const (
	FieldMeta    = "meta"
	FieldHistory = "history"
)

// DecodeConfig parses a configuration document. YAML and JSON are both accepted.
// An empty document yields an empty mapping.
func DecodeConfig(data []byte) (map[string]any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid config document: %w", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	m, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config must be a mapping, got %T", raw)
	}
	return m, nil
}

// EncodeConfig serializes a configuration as YAML.
func EncodeConfig(config map[string]any) ([]byte, error) {
	if config == nil {
		config = map[string]any{}
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// DecodeOutput parses an output document into its metadata and history.
// Both top-level fields are required.
func DecodeOutput(data []byte) (domain.Meta, []domain.StepRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Meta{}, nil, fmt.Errorf("invalid output document: %w", err)
	}

	metaRaw, ok := doc[FieldMeta]
	if !ok {
		return domain.Meta{}, nil, fmt.Errorf("missing required field %q", FieldMeta)
	}
	historyRaw, ok := doc[FieldHistory]
	if !ok {
		return domain.Meta{}, nil, fmt.Errorf("missing required field %q", FieldHistory)
	}

	meta, err := DecodeMeta(metaRaw)
	if err != nil {
		return domain.Meta{}, nil, err
	}
	history, err := DecodeHistory(historyRaw)
	if err != nil {
		return domain.Meta{}, nil, err
	}
	return meta, history, nil
}

// DecodeMeta parses a JSON object keeping its key order.
// Numbers are kept as json.Number so large seeds print verbatim.
func DecodeMeta(raw []byte) (domain.Meta, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return domain.Meta{}, fmt.Errorf("invalid %s: %w", FieldMeta, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return domain.Meta{}, fmt.Errorf("%s must be an object", FieldMeta)
	}

	meta := domain.Meta{Values: map[string]any{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return domain.Meta{}, fmt.Errorf("invalid %s: %w", FieldMeta, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return domain.Meta{}, fmt.Errorf("invalid %s key %v", FieldMeta, keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return domain.Meta{}, fmt.Errorf("invalid %s value for %q: %w", FieldMeta, key, err)
		}
		meta.Set(key, value)
	}
	return meta, nil
}

// DecodeHistory parses the step array of an output document.
func DecodeHistory(raw []byte) ([]domain.StepRecord, error) {
	var steps []json.RawMessage
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FieldHistory, err)
	}
	if steps == nil {
		return nil, fmt.Errorf("%s must be an array", FieldHistory)
	}

	history := make([]domain.StepRecord, 0, len(steps))
	for i, s := range steps {
		step, err := DecodeStep(s)
		if err != nil {
			return nil, fmt.Errorf("%s step %d: %w", FieldHistory, i, err)
		}
		history = append(history, step)
	}
	return history, nil
}

// DecodeStep parses a single step record.
func DecodeStep(raw []byte) (domain.StepRecord, error) {
	var step map[string]any
	if err := json.Unmarshal(raw, &step); err != nil {
		return nil, err
	}
	if step == nil {
		return nil, errors.New("step record must be an object")
	}
	return domain.StepRecord(step), nil
}

// EncodeOutput serializes metadata and history, preserving metadata key order.
func EncodeOutput(meta domain.Meta, history []domain.StepRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"` + FieldMeta + `":{`)
	for i, key := range meta.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(meta.Values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s value for %q: %w", FieldMeta, key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteString(`},"` + FieldHistory + `":`)

	if history == nil {
		history = []domain.StepRecord{}
	}
	h, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", FieldHistory, err)
	}
	buf.Write(h)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// normalize converts YAML's map[any]any nodes into map[string]any so the result
// can be serialized as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	}
	return v
}
