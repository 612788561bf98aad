package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/dynfmu/internal/storage"
	"github.com/san-kum/dynfmu/internal/viz"
)

var ErrNotEnoughSamples = errors.New("export: need at least two samples")

// CanvasToSVG draws every lit dot of canvas as a circle, scale pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}
	w, h := canvas.Dots()
	width := float64(w) * scale
	height := float64(h) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, color)

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG plots column yName of tr against xName as a single path. An
// empty xName plots against time.
func TraceToSVG(tr *storage.Trace, xName, yName string, width, height int, strokeColor string) (string, error) {
	if tr == nil || tr.Len() < 2 {
		return "", ErrNotEnoughSamples
	}
	xs := tr.Times
	if xName != "" {
		col, ok := tr.Column(xName)
		if !ok {
			return "", fmt.Errorf("%w: %q", viz.ErrUnknownSeries, xName)
		}
		xs = col
	}
	ys, ok := tr.Column(yName)
	if !ok {
		return "", fmt.Errorf("%w: %q", viz.ErrUnknownSeries, yName)
	}

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String(), nil
}

func bounds(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]
	for _, x := range v {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return lo, hi
}
