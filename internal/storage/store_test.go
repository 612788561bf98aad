package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/viant/afs"

	"github.com/san-kum/dynfmu/internal/fmu"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	return New("mem://localhost/"+strings.ReplaceAll(t.Name(), "/", "_"), afs.New())
}

func TestStoreTraceRoundtrip(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)

	tr := NewTrace("x", "v")
	tr.Append(0, []float64{1, 0})
	tr.Append(0.01, []float64{0.9995, -0.0981})

	if err := st.SaveTrace(ctx, tr); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := st.LoadTrace(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Len() != 2 {
		t.Errorf("expected 2 samples, got %d", loaded.Len())
	}
	v, ok := loaded.Column("v")
	if !ok || v[1] != -0.0981 {
		t.Errorf("expected v[1] = -0.0981, got %v", v)
	}
	if loaded.Times[1] != 0.01 {
		t.Errorf("expected time 0.01, got %g", loaded.Times[1])
	}
}

func TestStoreModelDescription(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)
	c := fmu.NewComponent("cart", fmu.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	x := 0.5
	c.Registry().Register("x", fmu.Pointer(&x), fmu.Meta{Unit: "m", Causality: fmu.CausalityOutput})

	if err := st.SaveModelDescription(ctx, c); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	ok, err := st.Exists(ctx, ModelDescriptionFile)
	if err != nil || !ok {
		t.Fatalf("model description not stored: %v", err)
	}

	md, err := st.LoadModelDescription(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if md.GUID != c.GUID() {
		t.Errorf("expected guid %s, got %s", c.GUID(), md.GUID)
	}
	if len(md.ModelVariables.Variables) != 2 {
		t.Errorf("expected 2 variables, got %d", len(md.ModelVariables.Variables))
	}
}

func TestStoreMetadata(t *testing.T) {
	ctx := context.Background()
	st := newMemStore(t)

	meta := RunMetadata{
		Instance:   "pendulum",
		Timestamp:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Integrator: "rk4",
		StepSize:   1e-3,
		Steps:      500,
		Final:      map[string]float64{"energy": -9.81},
	}
	if err := st.SaveMetadata(ctx, meta); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := st.LoadMetadata(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Instance != "pendulum" || loaded.Steps != 500 {
		t.Errorf("unexpected metadata: %+v", loaded)
	}
	if loaded.Final["energy"] != -9.81 {
		t.Errorf("expected energy -9.81, got %f", loaded.Final["energy"])
	}
	if !loaded.Timestamp.Equal(meta.Timestamp) {
		t.Errorf("expected timestamp %v, got %v", meta.Timestamp, loaded.Timestamp)
	}
}

func TestStoreMissing(t *testing.T) {
	st := newMemStore(t)
	if _, err := st.LoadTrace(context.Background()); err == nil {
		t.Error("expected error for missing trace")
	}
}

func TestReadCSVMalformed(t *testing.T) {
	tests := []string{
		"",
		"x,y\n1,2\n",
		"time,x\n0,abc\n",
	}
	for _, in := range tests {
		if _, err := ReadCSV(strings.NewReader(in)); !errors.Is(err, ErrMalformedTrace) {
			t.Errorf("ReadCSV(%q): expected ErrMalformedTrace, got %v", in, err)
		}
	}
}

func TestRecorder(t *testing.T) {
	r := fmu.NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	x, n := 1.0, true
	r.Register("x", fmu.Pointer(&x), fmu.Meta{})
	r.Register("flag", fmu.Pointer(&n), fmu.Meta{Variability: fmu.VariabilityDiscrete})

	if _, err := NewRecorder(r, "missing"); !errors.Is(err, fmu.ErrUnknownVariable) {
		t.Errorf("expected ErrUnknownVariable, got %v", err)
	}
	if _, err := NewRecorder(r, "flag"); !errors.Is(err, fmu.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}

	rec, err := NewRecorder(r, "x")
	if err != nil {
		t.Fatal(err)
	}
	rec.Sample(0)
	x = 2
	rec.Sample(0.1)

	col, _ := rec.Trace().Column("x")
	if len(col) != 2 || col[0] != 1 || col[1] != 2 {
		t.Errorf("expected [1 2], got %v", col)
	}
}
