// Package memory is the in-process backend: a point index, a columnar
// doc-values store and stored values keyed by dense document ordinals.
package memory

import (
	"context"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/pointfield/internal/db/docvalues"
	"github.com/kailas-cloud/pointfield/internal/db/pointindex"
	"github.com/kailas-cloud/pointfield/internal/domain"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

// Store maps external document ids to ordinals and fans representations out
// to the index structures. Ordinals are never reused.
type Store struct {
	mu       sync.RWMutex
	ordinals map[string]uint32
	ids      []string
	fields   map[uint32][]indexable.Field

	points  *pointindex.Index
	columns *docvalues.Store
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		ordinals: make(map[string]uint32),
		fields:   make(map[uint32][]indexable.Field),
		points:   pointindex.New(),
		columns:  docvalues.New(),
	}
}

// Points returns the point index, which also builds point queries.
func (s *Store) Points() *pointindex.Index { return s.points }

// Columns returns the doc-values store, which also provides value sources.
func (s *Store) Columns() *docvalues.Store { return s.columns }

// Write replaces every representation of id with fields.
func (s *Store) Write(_ context.Context, id string, fields []indexable.Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ord, ok := s.ordinals[id]
	if ok {
		s.points.Remove(ord)
		s.columns.Remove(ord)
	} else {
		ord = uint32(len(s.ids))
		s.ordinals[id] = ord
		s.ids = append(s.ids, id)
	}

	s.fields[ord] = append([]indexable.Field(nil), fields...)
	s.points.Add(ord, fields...)
	s.columns.Add(ord, fields...)
	return nil
}

// Delete removes id from every structure.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ord, ok := s.ordinals[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	s.points.Remove(ord)
	s.columns.Remove(ord)
	delete(s.fields, ord)
	delete(s.ordinals, id)
	s.ids[ord] = ""
	return nil
}

// Stored returns the stored bytes of id per field, one slice per value.
func (s *Store) Stored(_ context.Context, id string) (map[string][][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ord, ok := s.ordinals[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	out := make(map[string][][]byte)
	for _, f := range s.fields[ord] {
		if f.Kind() == indexable.Stored {
			out[f.Name()] = append(out[f.Name()], append([]byte(nil), f.Bytes()...))
		}
	}
	return out, nil
}

// Snapshot returns the representations last written for id.
func (s *Store) Snapshot(_ context.Context, id string) ([]indexable.Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ord, ok := s.ordinals[id]
	if !ok {
		return nil, false
	}
	return append([]indexable.Field(nil), s.fields[ord]...), true
}

// Execute runs q against the point index or the doc-values store and returns
// matching ids in ordinal order.
func (s *Store) Execute(_ context.Context, q query.Query) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		bm  *roaring.Bitmap
		err error
	)
	switch q.Kind() {
	case query.KindPointExact, query.KindPointSet, query.KindPointRange:
		bm, err = s.points.Search(q)
	default:
		bm, err = s.columns.Search(q)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ord := it.Next()
		if int(ord) < len(s.ids) && s.ids[ord] != "" {
			ids = append(ids, s.ids[ord])
		}
	}
	return ids, nil
}

// Ordinal returns the ordinal of id.
func (s *Store) Ordinal(id string) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ord, ok := s.ordinals[id]
	return ord, ok
}

// Len returns the number of live documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ordinals)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
