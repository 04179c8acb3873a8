// Package compose writes the HTML index that ties a run's charts together.
package compose

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/simreport/internal/fsutil"
	"github.com/aretw0/simreport/pkg/domain"
)

// IndexFile is the report filename inside the plots directory.
const IndexFile = "index.html"

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type page struct {
	Generated string
	Meta      string
	Config    string
	Artifacts []domain.Artifact
}

// Compose writes dir/index.html and returns its path.
// Apart from the timestamp, the output depends only on its inputs.
func Compose(meta domain.Meta, config map[string]any, artifacts []domain.Artifact, dir string, now time.Time) (string, error) {
	data, err := Render(meta, config, artifacts, now)
	if err != nil {
		return "", err
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, IndexFile)
	if err := fsutil.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Render returns the report document without writing it.
func Render(meta domain.Meta, config map[string]any, artifacts []domain.Artifact, now time.Time) ([]byte, error) {
	cfg, err := FormatConfig(config)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = indexTemplate.Execute(&buf, page{
		Generated: now.Format(time.RFC3339),
		Meta:      FormatMeta(meta),
		Config:    cfg,
		Artifacts: artifacts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatMeta flattens metadata into "k: v, k: v" in document key order.
func FormatMeta(meta domain.Meta) string {
	parts := make([]string, 0, meta.Len())
	for _, k := range meta.Keys {
		parts = append(parts, k+": "+formatValue(meta.Values[k]))
	}
	return strings.Join(parts, ", ")
}

// FormatConfig serializes config as single-line JSON. Map keys are sorted.
func FormatConfig(config map[string]any) (string, error) {
	if config == nil {
		config = map[string]any{}
	}
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to serialize config: %w", err)
	}
	return string(data), nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Run report</title>
</head>
<body style="font-family:monospace;">
<h3>Generated on {{.Generated}}</h3>
<div>
<div>{{.Meta}}</div>
<div>{{.Config}}</div>
</div>
<div>
{{- range .Artifacts}}
<img style="width:400px;" src="{{.Filename}}" alt="{{.Title}}" title="{{.Title}}">
{{- end}}
</div>
</body>
</html>
`
