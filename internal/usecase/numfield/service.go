// Package numfield translates typed numeric field values into queries, physical
// representations and value sources. Every operation is pure over its inputs.
package numfield

import (
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
)

// Service is safe for concurrent use.
type Service struct {
	codec    *numeric.Codec
	points   PointEngine
	columns  ColumnStore
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithObserver installs a callback for advisory events.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// New creates a Service. A nil codec falls back to numeric.NewCodec().
func New(codec *numeric.Codec, points PointEngine, columns ColumnStore, opts ...Option) *Service {
	if codec == nil {
		codec = numeric.NewCodec()
	}
	s := &Service{codec: codec, points: points, columns: columns}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Codec returns the codec used to parse external values.
func (s *Service) Codec() *numeric.Codec { return s.codec }

func (s *Service) parse(f field.Config, external string) (numeric.Value, error) {
	v, err := s.codec.Parse(f.Domain(), external)
	if err != nil {
		return numeric.Value{}, withField(err, f)
	}
	return v, nil
}

func (s *Service) parseOptional(f field.Config, external *string) (*numeric.Value, error) {
	if external == nil {
		return nil, nil
	}
	v, err := s.parse(f, *external)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) observe(f field.Config, msg string) {
	if s.observer != nil {
		s.observer(f, msg)
	}
}
