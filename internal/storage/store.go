package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/san-kum/dynfmu/internal/fmu"
)

const (
	ModelDescriptionFile = "modelDescription.xml"
	TraceFile            = "trace.csv"
	MetadataFile         = "run.json"
)

// ErrMalformedTrace indicates trace data that cannot be parsed.
var ErrMalformedTrace = errors.New("storage: malformed trace")

// Describer produces the model description of a component.
type Describer interface {
	ModelDescription(generatedAt time.Time) *fmu.ModelDescription
}

// Store keeps the artifacts of one run under a base URL. Any scheme known to
// afs works, such as file:// or mem://.
type Store struct {
	baseURL string
	fs      afs.Service
}

func New(baseURL string, fs afs.Service) *Store {
	if fs == nil {
		fs = afs.New()
	}
	return &Store{baseURL: baseURL, fs: fs}
}

// URL returns the location of name under the store.
func (s *Store) URL(name string) string { return url.Join(s.baseURL, name) }

type RunMetadata struct {
	Instance          string             `json:"instance"`
	ModelName         string             `json:"model_name"`
	GUID              string             `json:"guid"`
	Timestamp         time.Time          `json:"timestamp"`
	Integrator        string             `json:"integrator"`
	StepSize          float64            `json:"step_size"`
	CommunicationStep float64            `json:"communication_step"`
	StartTime         float64            `json:"start_time"`
	StopTime          float64            `json:"stop_time"`
	Steps             int                `json:"steps"`
	Final             map[string]float64 `json:"final,omitempty"`
	Metrics           map[string]float64 `json:"metrics,omitempty"`
}

func (s *Store) upload(ctx context.Context, name string, data []byte) error {
	return s.fs.Upload(ctx, s.URL(name), 0644, bytes.NewReader(data))
}

func (s *Store) download(ctx context.Context, name string) ([]byte, error) {
	return s.fs.DownloadWithURL(ctx, s.URL(name))
}

func (s *Store) SaveModelDescription(ctx context.Context, d Describer) error {
	var buf bytes.Buffer
	if err := d.ModelDescription(time.Now().UTC()).Encode(&buf); err != nil {
		return err
	}
	return s.upload(ctx, ModelDescriptionFile, buf.Bytes())
}

func (s *Store) LoadModelDescription(ctx context.Context) (*fmu.ModelDescription, error) {
	data, err := s.download(ctx, ModelDescriptionFile)
	if err != nil {
		return nil, err
	}
	return fmu.DecodeModelDescription(bytes.NewReader(data))
}

func (s *Store) SaveTrace(ctx context.Context, t *Trace) error {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return err
	}
	return s.upload(ctx, TraceFile, buf.Bytes())
}

func (s *Store) LoadTrace(ctx context.Context) (*Trace, error) {
	data, err := s.download(ctx, TraceFile)
	if err != nil {
		return nil, err
	}
	return ReadCSV(bytes.NewReader(data))
}

func (s *Store) SaveMetadata(ctx context.Context, meta RunMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return s.upload(ctx, MetadataFile, data)
}

func (s *Store) LoadMetadata(ctx context.Context) (*RunMetadata, error) {
	data, err := s.download(ctx, MetadataFile)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Exists reports whether name has been saved.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(name))
}

