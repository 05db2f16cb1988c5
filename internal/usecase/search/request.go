package search

import (
	"fmt"

	"github.com/kailas-cloud/pointfield/internal/domain/selector"
)

// Op selects the query operation.
type Op string

// Query operations.
const (
	OpExact Op = "exact"
	OpSet   Op = "set"
	OpRange Op = "range"
	OpField Op = "field"
)

// ParseOp validates s as an Op.
func ParseOp(s string) (Op, error) {
	switch op := Op(s); op {
	case OpExact, OpSet, OpRange, OpField:
		return op, nil
	default:
		return "", fmt.Errorf("unknown query op %q", s)
	}
}

// Request describes one search. Value is used by exact and field, Values by
// set, Min and Max by range. A nil bound is open.
type Request struct {
	Field        string
	Op           Op
	Value        string
	Values       []string
	Min          *string
	Max          *string
	MinInclusive bool
	MaxInclusive bool
	Sort         *Sort
	Limit        int
}

// Sort orders hits by a single value picked from a field.
type Sort struct {
	Field      string
	Selector   selector.Type
	Descending bool
}

// Hit is one matching document. SortValue is empty when the document has no
// value for the sort field or no sort was requested.
type Hit struct {
	ID        string
	SortValue string
}

// Result is the outcome of a search.
type Result struct {
	Query   string
	Path    string
	Backend string
	Total   int
	Hits    []Hit
}
