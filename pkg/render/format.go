package render

import (
	"context"
	"strings"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
)

// Format is an output format.
type Format string

// Output formats.
const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ParseFormat validates a single format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", s)
}

// ParseFormats validates a list and drops duplicates, keeping order.
func ParseFormats(list []string) ([]Format, error) {
	seen := make(map[Format]bool, len(list))
	out := make([]Format, 0, len(list))
	for _, s := range list {
		f, err := ParseFormat(s)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Options configures [Render].
type Options struct {
	Style      Style
	ShowLabels bool
	// Scale applies to PNG output. Zero means 2.
	Scale float64
}

// Render produces l in format f.
func Render(ctx context.Context, l graph.Layout, f Format, opts Options) ([]byte, error) {
	svgOpts := []SVGOption{WithStyle(opts.Style)}
	if opts.ShowLabels {
		svgOpts = append(svgOpts, WithLabels())
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 2
	}

	switch f {
	case FormatSVG:
		return SVG(l, svgOpts...), nil
	case FormatPNG:
		return ToPNG(ctx, SVG(l, svgOpts...), scale)
	case FormatPDF:
		return ToPDF(ctx, SVG(l, svgOpts...))
	case FormatJSON:
		return graph.MarshalLayout(l)
	case FormatDOT:
		return []byte(DOT(l, DOTOptions{Style: opts.Style, ShowLabels: opts.ShowLabels})), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}
