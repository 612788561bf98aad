package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dynfmu/internal/storage"
)

var (
	ErrUnknownSeries = errors.New("viz: unknown series")
	ErrEmptyTrace    = errors.New("viz: trace has no samples")
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Magenta,
	asciigraph.Red,
	asciigraph.Blue,
}

// PlotOptions sizes the chart. Zero fields take the defaults used by the run
// command.
type PlotOptions struct {
	Height int
	Width  int
}

// PlotTrace draws the named columns of tr in one chart. With no names every
// recorded column is drawn.
func PlotTrace(tr *storage.Trace, opts PlotOptions, names ...string) (string, error) {
	if tr == nil || tr.Len() == 0 {
		return "", ErrEmptyTrace
	}
	if len(names) == 0 {
		names = tr.Names
	}
	if opts.Height <= 0 {
		opts.Height = 12
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}

	series := make([][]float64, 0, len(names))
	for _, n := range names {
		col, ok := tr.Column(n)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownSeries, n)
		}
		series = append(series, col)
	}

	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	caption := fmt.Sprintf("%s  (t = %g .. %g s)",
		strings.Join(names, ", "), tr.Times[0], tr.Times[len(tr.Times)-1])
	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	), nil
}
