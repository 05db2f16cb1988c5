// Package query defines the closed set of query objects built for numeric fields.
package query

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
)

// Kind identifies the concrete query type.
type Kind string

// Query kinds.
const (
	KindPointExact     Kind = "point_exact"
	KindPointSet       Kind = "point_set"
	KindPointRange     Kind = "point_range"
	KindDocValuesRange Kind = "docvalues_range"
	KindFunctionRange  Kind = "function_range"
)

// Query is one of PointExact, PointSet, PointRange, DocValuesRange or FunctionRange.
type Query interface {
	Field() string
	Domain() numeric.Domain
	Kind() Kind
	String() string
	sealed()
}

type base struct {
	field  string
	domain numeric.Domain
}

func (b base) Field() string { return b.field }
func (b base) Domain() numeric.Domain { return b.domain }
func (base) sealed() {}

// PointExact matches documents whose point term equals a value.
type PointExact struct {
	base
	value numeric.Value
}

// NewPointExact creates an exact point query.
func NewPointExact(field string, v numeric.Value) PointExact {
	return PointExact{base: base{field: field, domain: v.Domain()}, value: v}
}

// Value returns the matched value.
func (q PointExact) Value() numeric.Value { return q.value }

// Kind implements Query.
func (PointExact) Kind() Kind { return KindPointExact }

func (q PointExact) String() string { return q.field + ":" + q.value.String() }

// PointSet matches documents holding any of the values.
type PointSet struct {
	base
	values []numeric.Value
}

// NewPointSet creates a set membership query. The values are copied.
func NewPointSet(field string, d numeric.Domain, values []numeric.Value) PointSet {
	vs := make([]numeric.Value, len(values))
	copy(vs, values)
	return PointSet{base: base{field: field, domain: d}, values: vs}
}

// Values returns a copy of the member values.
func (q PointSet) Values() []numeric.Value {
	vs := make([]numeric.Value, len(q.values))
	copy(vs, q.values)
	return vs
}

// Kind implements Query.
func (PointSet) Kind() Kind { return KindPointSet }

func (q PointSet) String() string {
	parts := make([]string, len(q.values))
	for i, v := range q.values {
		parts[i] = v.String()
	}
	return q.field + ":(" + strings.Join(parts, " ") + ")"
}

// Bounds is a numeric interval. A nil end is unbounded.
type Bounds struct {
	Min          *numeric.Value
	Max          *numeric.Value
	MinInclusive bool
	MaxInclusive bool
}

func (b Bounds) clone() Bounds {
	if b.Min != nil {
		v := *b.Min
		b.Min = &v
	}
	if b.Max != nil {
		v := *b.Max
		b.Max = &v
	}
	return b
}

// Contains reports whether v lies inside b, comparing numerically. NaN lies
// inside no interval and -0 equals +0.
func (b Bounds) Contains(v numeric.Value) bool {
	if v.IsNaN() {
		return false
	}
	if b.Min != nil {
		if b.Min.IsNaN() {
			return false
		}
		c := v.Compare(*b.Min)
		if c < 0 || (c == 0 && !b.MinInclusive) {
			return false
		}
	}
	if b.Max != nil {
		if b.Max.IsNaN() {
			return false
		}
		c := v.Compare(*b.Max)
		if c > 0 || (c == 0 && !b.MaxInclusive) {
			return false
		}
	}
	return true
}

func (b Bounds) String() string {
	var sb strings.Builder
	if b.MinInclusive {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('{')
	}
	sb.WriteString(valueOrStar(b.Min))
	sb.WriteString(" TO ")
	sb.WriteString(valueOrStar(b.Max))
	if b.MaxInclusive {
		sb.WriteByte(']')
	} else {
		sb.WriteByte('}')
	}
	return sb.String()
}

func valueOrStar(v *numeric.Value) string {
	if v == nil {
		return "*"
	}
	return v.String()
}

// PointRange matches point terms inside an interval.
type PointRange struct {
	base
	bounds Bounds
}

// NewPointRange creates a point range query.
func NewPointRange(field string, d numeric.Domain, b Bounds) PointRange {
	return PointRange{base: base{field: field, domain: d}, bounds: b.clone()}
}

// Bounds returns the interval.
func (q PointRange) Bounds() Bounds { return q.bounds.clone() }

// Kind implements Query.
func (PointRange) Kind() Kind { return KindPointRange }

func (q PointRange) String() string { return q.field + ":" + q.bounds.String() }

// DocValuesRange matches documents whose columnar encoding lies between two
// encodings, ordered by numeric.CompareEncodings.
type DocValuesRange struct {
	base
	lower, upper                   numeric.Encoding
	lowerInclusive, upperInclusive bool
}

// NewDocValuesRange creates a columnar range over raw encodings.
func NewDocValuesRange(field string, d numeric.Domain, lower, upper numeric.Encoding, lowerInclusive, upperInclusive bool) DocValuesRange {
	return DocValuesRange{
		base:           base{field: field, domain: d},
		lower:          lower,
		upper:          upper,
		lowerInclusive: lowerInclusive,
		upperInclusive: upperInclusive,
	}
}

// Lower returns the lower encoding.
func (q DocValuesRange) Lower() numeric.Encoding { return q.lower }

// Upper returns the upper encoding.
func (q DocValuesRange) Upper() numeric.Encoding { return q.upper }

// LowerInclusive reports whether Lower itself matches.
func (q DocValuesRange) LowerInclusive() bool { return q.lowerInclusive }

// UpperInclusive reports whether Upper itself matches.
func (q DocValuesRange) UpperInclusive() bool { return q.upperInclusive }

// Kind implements Query.
func (DocValuesRange) Kind() Kind { return KindDocValuesRange }

// Matches reports whether encoding e falls inside the range.
func (q DocValuesRange) Matches(e numeric.Encoding) bool {
	lo := numeric.CompareEncodings(q.domain, e, q.lower)
	if lo < 0 || (lo == 0 && !q.lowerInclusive) {
		return false
	}
	hi := numeric.CompareEncodings(q.domain, e, q.upper)
	return hi < 0 || (hi == 0 && q.upperInclusive)
}

func (q DocValuesRange) String() string {
	open, closing := "{", "}"
	if q.lowerInclusive {
		open = "["
	}
	if q.upperInclusive {
		closing = "]"
	}
	return "docvalues(" + q.field + "):" + open +
		encodingHex(q.lower) + " TO " + encodingHex(q.upper) + closing
}

func encodingHex(e numeric.Encoding) string {
	return "0x" + strconv.FormatUint(uint64(e), 16)
}

// FunctionRange matches documents by decoding their columnar value and comparing
// it numerically. It serves ranges that straddle the floating-point sign boundary.
type FunctionRange struct {
	base
	bounds Bounds
}

// NewFunctionRange creates a value-evaluated range.
func NewFunctionRange(field string, d numeric.Domain, b Bounds) FunctionRange {
	return FunctionRange{base: base{field: field, domain: d}, bounds: b.clone()}
}

// Bounds returns the interval.
func (q FunctionRange) Bounds() Bounds { return q.bounds.clone() }

// Kind implements Query.
func (FunctionRange) Kind() Kind { return KindFunctionRange }

// Matches reports whether the decoded value v is inside the range.
func (q FunctionRange) Matches(v numeric.Value) bool { return q.bounds.Contains(v) }

func (q FunctionRange) String() string { return "frange(" + q.field + "):" + q.bounds.String() }
