package viz

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/dynfmu/internal/storage"
)

func sineTrace() *storage.Trace {
	tr := storage.NewTrace("x", "v")
	for i := 0; i < 50; i++ {
		ti := float64(i) / 10
		tr.Append(ti, []float64{math.Sin(ti), math.Cos(ti)})
	}
	return tr
}

func TestPlotTrace(t *testing.T) {
	out, err := PlotTrace(sineTrace(), PlotOptions{Height: 6, Width: 40}, "x")
	if err != nil {
		t.Fatalf("PlotTrace() error = %v", err)
	}
	if !strings.Contains(out, "x  (t = 0 .. 4.9 s)") {
		t.Errorf("caption missing:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines < 6 {
		t.Errorf("chart has %d lines, want at least the height", lines)
	}
}

func TestPlotTraceAllColumns(t *testing.T) {
	out, err := PlotTrace(sineTrace(), PlotOptions{})
	if err != nil {
		t.Fatalf("PlotTrace() error = %v", err)
	}
	if !strings.Contains(out, "x, v") {
		t.Errorf("caption should list every column:\n%s", out)
	}
}

func TestPlotTraceErrors(t *testing.T) {
	tests := []struct {
		name  string
		trace *storage.Trace
		names []string
		want  error
	}{
		{"nil", nil, nil, ErrEmptyTrace},
		{"empty", storage.NewTrace("x"), nil, ErrEmptyTrace},
		{"unknown series", sineTrace(), []string{"missing"}, ErrUnknownSeries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlotTrace(tt.trace, PlotOptions{}, tt.names...)
			if !errors.Is(err, tt.want) {
				t.Errorf("PlotTrace() error = %v, want %v", err, tt.want)
			}
		})
	}
}
