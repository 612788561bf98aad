package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/dynfmu/internal/storage"
	"github.com/san-kum/dynfmu/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2, "#fff") != "" {
		t.Error("nil canvas should give an empty document")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2, "#00ff00")

	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("got %d circles, want 2", n)
	}
	for _, want := range []string{`width="8"`, `height="8"`, `fill="#00ff00"`, `cx="1.0" cy="1.0"`, `cx="7.0" cy="7.0"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg is missing %s:\n%s", want, svg)
		}
	}
}

func TestTraceToSVG(t *testing.T) {
	tr := storage.NewTrace("x", "y")
	tr.Append(0, []float64{0, 0})
	tr.Append(1, []float64{1, 2})
	tr.Append(2, []float64{2, 4})

	svg, err := TraceToSVG(tr, "x", "y", 120, 60, "#ff00ff")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg, `stroke="#ff00ff"`) || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected path:\n%s", svg)
	}
	// First point sits at the lower left padding corner.
	if !strings.Contains(svg, `d="M10.0,55.0`) {
		t.Errorf("path does not start at the padded origin:\n%s", svg)
	}

	if _, err := TraceToSVG(tr, "", "y", 120, 60, "#fff"); err != nil {
		t.Errorf("plot against time: %v", err)
	}
}

func TestTraceToSVGErrors(t *testing.T) {
	short := storage.NewTrace("y")
	short.Append(0, []float64{1})

	tr := storage.NewTrace("y")
	tr.Append(0, []float64{1})
	tr.Append(1, []float64{2})

	tests := []struct {
		name string
		tr   *storage.Trace
		x, y string
		want error
	}{
		{"nil", nil, "", "y", ErrNotEnoughSamples},
		{"one sample", short, "", "y", ErrNotEnoughSamples},
		{"unknown y", tr, "", "z", viz.ErrUnknownSeries},
		{"unknown x", tr, "z", "y", viz.ErrUnknownSeries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TraceToSVG(tt.tr, tt.x, tt.y, 10, 10, "#fff")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
