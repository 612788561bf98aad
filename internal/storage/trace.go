package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/dynfmu/internal/fmu"
)

// Trace is a table of Real variables sampled over time.
type Trace struct {
	Names []string
	Times []float64
	Rows  [][]float64
}

func NewTrace(names ...string) *Trace {
	return &Trace{Names: names}
}

func (t *Trace) Append(time float64, values []float64) {
	row := make([]float64, len(values))
	copy(row, values)
	t.Times = append(t.Times, time)
	t.Rows = append(t.Rows, row)
}

func (t *Trace) Len() int { return len(t.Times) }

// Column returns the samples of the named variable.
func (t *Trace) Column(name string) ([]float64, bool) {
	for j, n := range t.Names {
		if n != name {
			continue
		}
		col := make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			col[i] = row[j]
		}
		return col, true
	}
	return nil, false
}

// WriteCSV writes a header of "time" and the variable names, then one row per
// sample.
func (t *Trace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time"}, t.Names...)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.FormatFloat(t.Times[i], 'g', -1, 64))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a trace written by WriteCSV.
func ReadCSV(r io.Reader) (*Trace, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "time" {
		return nil, fmt.Errorf("%w: missing time header", ErrMalformedTrace)
	}
	t := NewTrace(records[0][1:]...)
	for i, rec := range records[1:] {
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrMalformedTrace, i+1, j, err)
			}
			vals[j] = v
		}
		t.Times = append(t.Times, vals[0])
		t.Rows = append(t.Rows, vals[1:])
	}
	return t, nil
}

// Recorder samples Real variables of a registry into a Trace.
type Recorder struct {
	vars  []*fmu.Variable
	buf   []float64
	trace *Trace
}

// NewRecorder resolves names in r. Every name must be a Real variable.
func NewRecorder(r *fmu.Registry, names ...string) (*Recorder, error) {
	vars := make([]*fmu.Variable, len(names))
	for i, name := range names {
		v, ok := r.Lookup(name)
		if !ok {
			return nil, &fmu.VariableError{Name: name, Op: "record", Wrapped: fmu.ErrUnknownVariable}
		}
		if v.Type() != fmu.TypeReal {
			return nil, &fmu.VariableError{Name: name, Op: "record", Wrapped: fmu.ErrTypeMismatch}
		}
		vars[i] = v
	}
	return &Recorder{vars: vars, buf: make([]float64, len(vars)), trace: NewTrace(names...)}, nil
}

// Sample reads every variable and appends a row at time t.
func (r *Recorder) Sample(t float64) {
	for i, v := range r.vars {
		r.buf[i], _ = fmu.Get[float64](v)
	}
	r.trace.Append(t, r.buf)
}

func (r *Recorder) Trace() *Trace { return r.trace }
