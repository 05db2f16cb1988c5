// Package docvalues is an in-memory columnar store: one encoding per document for
// single-valued fields, a sorted value list per document for multi-valued ones.
package docvalues

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
	"github.com/kailas-cloud/pointfield/internal/domain/selector"
)

// ErrUnsupportedQuery is returned by Search for queries the store cannot evaluate.
var ErrUnsupportedQuery = errors.New("docvalues: unsupported query")

type column struct {
	domain numeric.Domain
	docs   *roaring.Bitmap
	single map[uint32]numeric.Encoding
	multi  map[uint32][]numeric.Value
}

func newColumn(d numeric.Domain) *column {
	return &column{
		domain: d,
		docs:   roaring.New(),
		single: make(map[uint32]numeric.Encoding),
		multi:  make(map[uint32][]numeric.Value),
	}
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	columns map[string]*column
}

// New creates an empty Store.
func New() *Store {
	return &Store{columns: make(map[string]*column)}
}

// Add records the columnar representations among fields for doc. A single-valued
// entry replaces the previous one; sorted entries accumulate.
func (s *Store) Add(doc uint32, fields ...indexable.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range fields {
		switch f.Kind() {
		case indexable.NumericDocValues:
			c := s.column(f.Name(), f.Value().Domain())
			c.single[doc] = f.Encoding()
			c.docs.Add(doc)
		case indexable.SortedNumericDocValues:
			c := s.column(f.Name(), f.Value().Domain())
			vs := append(c.multi[doc], f.Value())
			selector.Sort(vs)
			c.multi[doc] = vs
			c.docs.Add(doc)
		}
	}
}

// Remove drops every value of doc.
func (s *Store) Remove(doc uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.columns {
		delete(c.single, doc)
		delete(c.multi, doc)
		c.docs.Remove(doc)
	}
}

// Search evaluates a DocValuesRange or FunctionRange over single-valued columns.
func (s *Store) Search(q query.Query) (*roaring.Bitmap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match func(numeric.Encoding) bool
	switch q := q.(type) {
	case query.DocValuesRange:
		match = q.Matches
	case query.FunctionRange:
		d := q.Domain()
		match = func(e numeric.Encoding) bool {
			v, err := numeric.FromEncoding(d, e)
			return err == nil && q.Matches(v)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedQuery, q.Kind())
	}

	out := roaring.New()
	c := s.columns[q.Field()]
	if c == nil {
		return out, nil
	}
	if c.domain != q.Domain() {
		return nil, fmt.Errorf("docvalues: field %s holds %s values, query is %s", q.Field(), c.domain, q.Domain())
	}
	it := c.docs.Iterator()
	for it.HasNext() {
		doc := it.Next()
		if e, ok := c.single[doc]; ok && match(e) {
			out.Add(doc)
		}
	}
	return out, nil
}

// Source returns the per-document value of a single-valued field.
func (s *Store) Source(f field.Config) selector.ValueSource {
	return &source{store: s, field: f.Name(), domain: f.Domain()}
}

// Select returns one value per document reduced from a multi-valued field.
func (s *Store) Select(f field.Config, sel selector.Selection) selector.ValueSource {
	return &selected{store: s, field: f.Name(), sel: sel}
}

// Len returns the number of documents holding a value for name.
func (s *Store) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.columns[name]; c != nil {
		return int(c.docs.GetCardinality())
	}
	return 0
}

func (s *Store) column(name string, d numeric.Domain) *column {
	c, ok := s.columns[name]
	if !ok {
		c = newColumn(d)
		s.columns[name] = c
	}
	return c
}

type source struct {
	store  *Store
	field  string
	domain numeric.Domain
}

func (src *source) Field() string { return src.field }

func (src *source) Value(doc uint32) (numeric.Value, bool) {
	src.store.mu.RLock()
	defer src.store.mu.RUnlock()

	c := src.store.columns[src.field]
	if c == nil {
		return numeric.Value{}, false
	}
	e, ok := c.single[doc]
	if !ok {
		return numeric.Value{}, false
	}
	v, err := numeric.FromEncoding(src.domain, e)
	if err != nil {
		return numeric.Value{}, false
	}
	return v, true
}

func (src *source) Description() string { return "docvalues(" + src.field + ")" }

type selected struct {
	store *Store
	field string
	sel   selector.Selection
}

func (src *selected) Field() string { return src.field }

func (src *selected) Value(doc uint32) (numeric.Value, bool) {
	src.store.mu.RLock()
	defer src.store.mu.RUnlock()

	c := src.store.columns[src.field]
	if c == nil {
		return numeric.Value{}, false
	}
	return src.sel.Pick(c.multi[doc])
}

func (src *selected) Description() string { return src.sel.String() + "(" + src.field + ")" }
