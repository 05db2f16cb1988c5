package pointfield

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/pointfield/internal/domain/selector"
	searchuc "github.com/kailas-cloud/pointfield/internal/usecase/search"
)

// Selector picks one value of a multi-valued field for sorting.
type Selector string

// Selectors. Sum and Avg are accepted but have no columnar equivalent and
// fail with ErrUnsupportedSelector on multi-valued fields.
const (
	Min        Selector = Selector(selector.Min)
	Max        Selector = Selector(selector.Max)
	MedianLow  Selector = Selector(selector.MedianLow)
	MedianHigh Selector = Selector(selector.MedianHigh)
	Sum        Selector = Selector(selector.Sum)
	Avg        Selector = Selector(selector.Avg)
)

// Query is a fluent builder for a single-field numeric query.
type Query struct {
	req searchuc.Request
}

// Exact matches documents holding value.
func Exact(field, value string) *Query {
	return &Query{req: searchuc.Request{Field: field, Op: searchuc.OpExact, Value: value}}
}

// In matches documents holding any of values.
func In(field string, values ...string) *Query {
	return &Query{req: searchuc.Request{Field: field, Op: searchuc.OpSet, Values: values}}
}

// Term matches value the way a parsed field query would. On a field without
// a point index it falls back to the doc-values column.
func Term(field, value string) *Query {
	return &Query{req: searchuc.Request{Field: field, Op: searchuc.OpField, Value: value}}
}

// Range matches every document with a value in field. Narrow it with Gt, Gte,
// Lt and Lte.
func Range(field string) *Query {
	return &Query{req: searchuc.Request{Field: field, Op: searchuc.OpRange, MinInclusive: true, MaxInclusive: true}}
}

// Gt sets an exclusive lower bound.
func (q *Query) Gt(v string) *Query {
	q.req.Min, q.req.MinInclusive = &v, false
	return q
}

// Gte sets an inclusive lower bound.
func (q *Query) Gte(v string) *Query {
	q.req.Min, q.req.MinInclusive = &v, true
	return q
}

// Lt sets an exclusive upper bound.
func (q *Query) Lt(v string) *Query {
	q.req.Max, q.req.MaxInclusive = &v, false
	return q
}

// Lte sets an inclusive upper bound.
func (q *Query) Lte(v string) *Query {
	q.req.Max, q.req.MaxInclusive = &v, true
	return q
}

// SortBy orders hits by the value sel picks from field, ascending.
// An empty field sorts by the queried one.
func (q *Query) SortBy(field string, sel Selector) *Query {
	q.req.Sort = &searchuc.Sort{Field: field, Selector: selector.Type(sel)}
	return q
}

// Desc reverses the sort order. With no SortBy it sorts by the queried field using Min.
func (q *Query) Desc() *Query {
	if q.req.Sort == nil {
		q.req.Sort = &searchuc.Sort{Selector: selector.Min}
	}
	q.req.Sort.Descending = true
	return q
}

// Limit caps the number of hits.
func (q *Query) Limit(n int) *Query {
	q.req.Limit = n
	return q
}

// Hit is one matching document.
type Hit struct {
	ID        string
	SortValue string
}

// SearchResult holds the hits of a query.
type SearchResult struct {
	// Query is the rendered internal query, useful for debugging.
	Query string
	// Path is the execution path: point, docvalues or function.
	Path string
	// Backend is memory or redis.
	Backend string
	// Total counts matches before the limit is applied.
	Total int
	Hits  []Hit
}

// Search executes q.
func (c *Client) Search(ctx context.Context, q *Query) (_ *SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	if q == nil {
		return nil, fmt.Errorf("search: nil query")
	}
	req := q.req
	if _, err := searchuc.ParseOp(string(req.Op)); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if req.Sort != nil {
		if _, err := selector.ParseType(string(req.Sort.Selector)); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
	}

	res, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	hits := make([]Hit, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = Hit{ID: h.ID, SortValue: h.SortValue}
	}
	return &SearchResult{
		Query:   res.Query,
		Path:    res.Path,
		Backend: res.Backend,
		Total:   res.Total,
		Hits:    hits,
	}, nil
}
