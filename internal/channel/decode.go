package channel

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/aretw0/simreport/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// sampleEntry is the recorded shape of one sampled entity.
// Extra recorded fields (e.g. "interests") are ignored.
type sampleEntry struct {
	ID     any       `mapstructure:"id"`
	Values []float64 `mapstructure:"values"`
}

// Decode converts a raw step value into the variant of kind.
func Decode(kind domain.ChannelKind, raw any) (domain.ChannelValue, error) {
	switch kind {
	case domain.KindSample:
		return decodeSample(raw)
	case domain.KindScalar:
		v, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		return domain.Scalar(v), nil
	case domain.KindGroupedScalar:
		return decodeGrouped(raw)
	case domain.KindHistogram:
		return decodeHistogram(raw)
	case domain.KindOpaque:
		return domain.Opaque{Raw: raw}, nil
	}
	return nil, fmt.Errorf("unknown channel kind %q", kind)
}

func decodeSample(raw any) (domain.Sample, error) {
	if _, ok := raw.([]any); !ok {
		return nil, fmt.Errorf("sample must be a list, got %T", raw)
	}

	var entries []sampleEntry
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &entries,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid sample: %w", err)
	}

	sample := make(domain.Sample, 0, len(entries))
	for i, e := range entries {
		id, err := entityID(e.ID)
		if err != nil {
			return nil, fmt.Errorf("sample entry %d: %w", i, err)
		}
		if len(e.Values) != 2 {
			return nil, fmt.Errorf("sample entry %d: expected 2 values, got %d", i, len(e.Values))
		}
		sample = append(sample, domain.EntitySnapshot{ID: id, X: e.Values[0], Y: e.Values[1]})
	}
	return sample, nil
}

// decodeGrouped skips null members: the simulator records max/min of empty sets as null.
func decodeGrouped(raw any) (domain.GroupedScalar, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("grouped value must be a mapping, got %T", raw)
	}
	out := make(domain.GroupedScalar, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = f
	}
	return out, nil
}

func decodeHistogram(raw any) (domain.Histogram, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("histogram must be a mapping, got %T", raw)
	}

	// Sorted so that the reported error is stable.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(domain.Histogram, len(m))
	for _, k := range keys {
		bin, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("histogram bin %q is not an integer", k)
		}
		f, err := toFloat(m[k])
		if err != nil {
			return nil, fmt.Errorf("bin %d: %w", bin, err)
		}
		if f < 0 || f != math.Trunc(f) {
			return nil, fmt.Errorf("bin %d: count must be a non-negative integer, got %v", bin, f)
		}
		out[bin] += int(f)
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func entityID(v any) (domain.EntityID, error) {
	switch id := v.(type) {
	case nil:
		return "", fmt.Errorf("missing id")
	case string:
		return domain.EntityID(id), nil
	case float64:
		return domain.EntityID(strconv.FormatFloat(id, 'f', -1, 64)), nil
	case json.Number:
		return domain.EntityID(id.String()), nil
	}
	return domain.EntityID(fmt.Sprint(v)), nil
}
