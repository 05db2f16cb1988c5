// Package pointindex is an in-memory point index: sortable term bytes mapped to
// roaring bitmaps of document ordinals.
package pointindex

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/indexable"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
)

// ErrUnsupportedQuery is returned by Search for non-point queries.
var ErrUnsupportedQuery = errors.New("pointindex: unsupported query")

type fieldTerms struct {
	postings map[string]*roaring.Bitmap
	sorted   []string // lazily rebuilt term list
	dirty    bool
}

type posting struct {
	field string
	term  string
}

// Index is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	fields map[string]*fieldTerms
	docs   map[uint32][]posting
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		fields: make(map[string]*fieldTerms),
		docs:   make(map[uint32][]posting),
	}
}

// Exact builds an exact-match query.
func (*Index) Exact(f field.Config, v numeric.Value) query.Query {
	return query.NewPointExact(f.Name(), v)
}

// Set builds a set-membership query.
func (*Index) Set(f field.Config, values []numeric.Value) query.Query {
	return query.NewPointSet(f.Name(), f.Domain(), values)
}

// Range builds a range query.
func (*Index) Range(f field.Config, b query.Bounds) query.Query {
	return query.NewPointRange(f.Name(), f.Domain(), b)
}

// Add indexes the point representations among fields for doc. Other kinds are ignored.
func (x *Index) Add(doc uint32, fields ...indexable.Field) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, f := range fields {
		if f.Kind() != indexable.Point {
			continue
		}
		ft, ok := x.fields[f.Name()]
		if !ok {
			ft = &fieldTerms{postings: make(map[string]*roaring.Bitmap)}
			x.fields[f.Name()] = ft
		}
		term := string(f.Bytes())
		bm, ok := ft.postings[term]
		if !ok {
			bm = roaring.New()
			ft.postings[term] = bm
			ft.dirty = true
		}
		bm.Add(doc)
		x.docs[doc] = append(x.docs[doc], posting{field: f.Name(), term: term})
	}
}

// Remove drops every point of doc.
func (x *Index) Remove(doc uint32) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, p := range x.docs[doc] {
		ft := x.fields[p.field]
		bm, ok := ft.postings[p.term]
		if !ok {
			continue
		}
		bm.Remove(doc)
		if bm.IsEmpty() {
			delete(ft.postings, p.term)
			ft.dirty = true
		}
	}
	delete(x.docs, doc)
}

// Search returns the ordinals matching a PointExact, PointSet or PointRange query.
func (x *Index) Search(q query.Query) (*roaring.Bitmap, error) {
	// Range may rebuild the sorted term list.
	x.mu.Lock()
	defer x.mu.Unlock()

	ft := x.fields[q.Field()]
	if ft == nil {
		return roaring.New(), nil
	}
	switch q := q.(type) {
	case query.PointExact:
		return ft.exact(numeric.SortableBytes(q.Value())), nil
	case query.PointSet:
		out := roaring.New()
		for _, v := range q.Values() {
			out.Or(ft.exact(numeric.SortableBytes(v)))
		}
		return out, nil
	case query.PointRange:
		return ft.rangeOf(q.Bounds()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedQuery, q.Kind())
	}
}

// Len returns the number of indexed documents.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs)
}

func (ft *fieldTerms) exact(term []byte) *roaring.Bitmap {
	if bm, ok := ft.postings[string(term)]; ok {
		return bm.Clone()
	}
	return roaring.New()
}

func (ft *fieldTerms) terms() []string {
	if ft.dirty || ft.sorted == nil {
		ft.sorted = ft.sorted[:0]
		for t := range ft.postings {
			ft.sorted = append(ft.sorted, t)
		}
		sort.Strings(ft.sorted)
		ft.dirty = false
	}
	return ft.sorted
}

func (ft *fieldTerms) rangeOf(b query.Bounds) *roaring.Bitmap {
	terms := ft.terms()
	start, end := 0, len(terms)
	if b.Min != nil {
		lo := numeric.SortableBytes(*b.Min)
		start = sort.Search(len(terms), func(i int) bool {
			c := bytes.Compare([]byte(terms[i]), lo)
			return c > 0 || (c == 0 && b.MinInclusive)
		})
	}
	if b.Max != nil {
		hi := numeric.SortableBytes(*b.Max)
		end = sort.Search(len(terms), func(i int) bool {
			c := bytes.Compare([]byte(terms[i]), hi)
			return c > 0 || (c == 0 && !b.MaxInclusive)
		})
	}
	out := roaring.New()
	for i := start; i < end; i++ {
		out.Or(ft.postings[terms[i]])
	}
	return out
}
