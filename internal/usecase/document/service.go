package document

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pointfield/internal/domain"
	domdoc "github.com/kailas-cloud/pointfield/internal/domain/document"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
	"github.com/kailas-cloud/pointfield/internal/domain/schema"
	"github.com/kailas-cloud/pointfield/internal/metrics"
)

// Service indexes documents against a schema and reads stored values back.
type Service struct {
	schema  schema.Schema
	fields  Materializer
	stored  StoredReader
	writers []Writer
	logger  *zap.Logger
}

// New creates a document service. Writes go to every writer in order; stored
// values are read from stored. When a writer fails, the writers before it are
// restored to what they held before the write.
func New(sc schema.Schema, fields Materializer, stored StoredReader, logger *zap.Logger, writers ...Writer) *Service {
	return &Service{
		schema:  sc,
		fields:  fields,
		stored:  stored,
		writers: writers,
		logger:  logger,
	}
}

// Put materializes every field of doc and replaces the document in all writers.
// It returns the number of representations written.
func (s *Service) Put(ctx context.Context, doc domdoc.Document) (int, error) {
	reps, err := s.materialize(doc)
	if err != nil {
		metrics.DocumentOpsTotal.WithLabelValues("put", "invalid").Inc()
		return 0, err
	}

	snaps := s.snapshot(ctx, doc.ID())
	for i, w := range s.writers {
		if err := w.Write(ctx, doc.ID(), reps); err != nil {
			metrics.DocumentOpsTotal.WithLabelValues("put", "error").Inc()
			s.logger.Error("Document write failed",
				zap.String("id", doc.ID()),
				zap.Int("writer", i),
				zap.Int("representations", len(reps)),
				zap.Error(err),
			)
			s.rollback(ctx, doc.ID(), snaps[:i])
			return 0, fmt.Errorf("write document: %w", err)
		}
	}

	for _, r := range reps {
		metrics.RepresentationsTotal.WithLabelValues(string(r.Kind()), string(r.Value().Domain())).Inc()
	}
	metrics.DocumentOpsTotal.WithLabelValues("put", "ok").Inc()
	s.logger.Debug("Document indexed",
		zap.String("id", doc.ID()),
		zap.Int("representations", len(reps)),
	)
	return len(reps), nil
}

type snapshot struct {
	fields []indexable.Field
	found  bool
}

// snapshot captures what every writer but the last holds for id before a
// write. Writers that cannot snapshot are treated as not holding id.
func (s *Service) snapshot(ctx context.Context, id string) []snapshot {
	out := make([]snapshot, len(s.writers))
	for i, w := range s.writers[:max(len(s.writers)-1, 0)] {
		if sn, ok := w.(Snapshotter); ok {
			out[i].fields, out[i].found = sn.Snapshot(ctx, id)
		}
	}
	return out
}

// rollback returns the writers that already accepted a write to their state
// before it.
func (s *Service) rollback(ctx context.Context, id string, snaps []snapshot) {
	for i, sn := range snaps {
		w := s.writers[i]
		var err error
		if sn.found {
			err = w.Write(ctx, id, sn.fields)
		} else {
			err = w.Delete(ctx, id)
		}
		if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
			s.logger.Error("Document rollback failed", zap.String("id", id), zap.Int("writer", i), zap.Error(err))
			continue
		}
		s.logger.Warn("Document write rolled back", zap.String("id", id), zap.Int("writer", i))
	}
}

func (s *Service) materialize(doc domdoc.Document) ([]indexable.Field, error) {
	names := make([]string, 0, len(doc.Fields()))
	for name := range doc.Fields() {
		names = append(names, name)
	}
	sort.Strings(names)

	var reps []indexable.Field
	for _, name := range names {
		f, err := s.schema.Field(name)
		if err != nil {
			return nil, err
		}
		out, err := s.fields.CreateMultiValueFields(f, doc.Values(name))
		if err != nil {
			return nil, fmt.Errorf("materialize %s: %w", name, err)
		}
		reps = append(reps, out...)
	}
	return reps, nil
}

// Get returns the stored values of id in external form. Fields that are not
// stored are absent.
func (s *Service) Get(ctx context.Context, id string) (domdoc.Document, error) {
	stored, err := s.stored.Stored(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			metrics.DocumentOpsTotal.WithLabelValues("get", "error").Inc()
		}
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}

	fields := make(map[string][]string, len(stored))
	for name, values := range stored {
		f, err := s.schema.Field(name)
		if err != nil {
			s.logger.Warn("Stored field missing from schema", zap.String("id", id), zap.String("field", name))
			continue
		}
		for _, b := range values {
			text, err := s.fields.StoredToReadable(f, b)
			if err != nil {
				metrics.DocumentOpsTotal.WithLabelValues("get", "error").Inc()
				return domdoc.Document{}, fmt.Errorf("decode %s: %w", name, err)
			}
			fields[name] = append(fields[name], text)
		}
	}
	metrics.DocumentOpsTotal.WithLabelValues("get", "ok").Inc()
	return domdoc.Reconstruct(id, fields), nil
}

// Delete removes id from every writer. The first writer decides whether the
// document exists; later writers may already have lost it.
func (s *Service) Delete(ctx context.Context, id string) error {
	for i, w := range s.writers {
		err := w.Delete(ctx, id)
		if err == nil {
			continue
		}
		if i > 0 && errors.Is(err, domain.ErrDocumentNotFound) {
			s.logger.Warn("Document missing from secondary writer", zap.String("id", id), zap.Int("writer", i))
			continue
		}
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			metrics.DocumentOpsTotal.WithLabelValues("delete", "error").Inc()
		}
		return fmt.Errorf("delete document: %w", err)
	}
	metrics.DocumentOpsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}
