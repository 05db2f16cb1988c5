// Package selector names the strategies for picking one value out of a
// multi-valued field and the value sources that expose the result.
package selector

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
)

// Type is an externally requested single-value selection strategy.
type Type string

// Selector types accepted from callers.
const (
	Min        Type = "min"
	Max        Type = "max"
	MedianLow  Type = "median_low"
	MedianHigh Type = "median_high"
	Sum        Type = "sum"
	Avg        Type = "avg"
)

// ParseType validates a selector name.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case Min, Max, MedianLow, MedianHigh, Sum, Avg:
		return t, nil
	}
	return "", fmt.Errorf("unknown selector %q", s)
}

// Selection is the reduction the columnar store applies to a sorted value list.
type Selection int

// Columnar selections.
const (
	SelectMin Selection = iota
	SelectMax
	SelectMiddleMin
	SelectMiddleMax
)

func (s Selection) String() string {
	switch s {
	case SelectMin:
		return "MIN"
	case SelectMax:
		return "MAX"
	case SelectMiddleMin:
		return "MIDDLE_MIN"
	case SelectMiddleMax:
		return "MIDDLE_MAX"
	}
	return fmt.Sprintf("Selection(%d)", int(s))
}

// Pick reduces values, which must be sorted ascending, to a single value.
// For an even count the middle selections take the lower or upper of the two middles.
func (s Selection) Pick(sorted []numeric.Value) (numeric.Value, bool) {
	n := len(sorted)
	if n == 0 {
		return numeric.Value{}, false
	}
	switch s {
	case SelectMin:
		return sorted[0], true
	case SelectMax:
		return sorted[n-1], true
	case SelectMiddleMin:
		return sorted[(n-1)/2], true
	case SelectMiddleMax:
		return sorted[n/2], true
	}
	return numeric.Value{}, false
}

// Sort orders values ascending in numeric order.
func Sort(values []numeric.Value) {
	slices.SortFunc(values, func(a, b numeric.Value) int { return a.Compare(b) })
}

// ValueSource yields at most one value per document.
type ValueSource interface {
	Field() string
	Value(doc uint32) (numeric.Value, bool)
	Description() string
}
