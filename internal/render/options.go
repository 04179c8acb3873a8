package render

import (
	"fmt"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format is the image encoding of rendered charts.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported image format %q (want png or svg)", s)
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// DefaultPalette is the ten-color categorical palette used for trajectories and
// grouped series.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Options controls chart appearance. Renderers never read process-wide state.
type Options struct {
	Palette    []string
	Width      int
	Height     int
	MinOpacity float64
	Format     Format
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Palette:    append([]string(nil), DefaultPalette...),
		Width:      800,
		Height:     600,
		MinOpacity: 0.15,
		Format:     FormatPNG,
	}
}

// Validate checks that the options can produce a chart.
func (o Options) Validate() error {
	if len(o.Palette) == 0 {
		return fmt.Errorf("palette must not be empty")
	}
	for _, hex := range o.Palette {
		if _, err := parseColor(hex); err != nil {
			return err
		}
	}
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid chart size %dx%d", o.Width, o.Height)
	}
	if o.MinOpacity < 0 || o.MinOpacity > 1 {
		return fmt.Errorf("min opacity %v out of range [0,1]", o.MinOpacity)
	}
	if _, err := ParseFormat(string(o.Format)); err != nil {
		return err
	}
	return nil
}

// Color returns the palette color for index i, wrapping around the palette.
func (o Options) Color(i int) drawing.Color {
	c, _ := parseColor(o.Palette[i%len(o.Palette)])
	return c
}

func parseColor(hex string) (drawing.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 && len(h) != 3 {
		return drawing.Color{}, fmt.Errorf("invalid palette color %q", hex)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return drawing.Color{}, fmt.Errorf("invalid palette color %q", hex)
		}
	}
	return drawing.ColorFromHex(h), nil
}
