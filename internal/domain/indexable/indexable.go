// Package indexable holds the physical representations produced for one field value.
package indexable

import "github.com/kailas-cloud/pointfield/internal/domain/numeric"

// Kind is the storage modality a Field is destined for.
type Kind string

// Representation kinds.
const (
	Point                  Kind = "point"
	NumericDocValues       Kind = "docvalues"
	SortedNumericDocValues Kind = "sorted_docvalues"
	Stored                 Kind = "stored"
)

// Field is one representation of a value.
type Field struct {
	kind  Kind
	name  string
	value numeric.Value
}

// NewPoint creates a point-index entry.
func NewPoint(name string, v numeric.Value) Field {
	return Field{kind: Point, name: name, value: v}
}

// NewNumericDocValues creates a single-valued columnar entry.
func NewNumericDocValues(name string, v numeric.Value) Field {
	return Field{kind: NumericDocValues, name: name, value: v}
}

// NewSortedNumericDocValues creates one entry of a multi-valued columnar field.
func NewSortedNumericDocValues(name string, v numeric.Value) Field {
	return Field{kind: SortedNumericDocValues, name: name, value: v}
}

// NewStored creates a verbatim stored entry.
func NewStored(name string, v numeric.Value) Field {
	return Field{kind: Stored, name: name, value: v}
}

// Kind returns the representation kind.
func (f Field) Kind() Kind { return f.kind }

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Value returns the typed value.
func (f Field) Value() numeric.Value { return f.value }

// Encoding returns the columnar encoding of the value.
func (f Field) Encoding() numeric.Encoding { return f.value.Encoding() }

// Bytes returns the binary payload: sortable term bytes for points, the
// big-endian stored form for stored entries, nil for doc values.
func (f Field) Bytes() []byte {
	switch f.kind {
	case Point:
		return numeric.SortableBytes(f.value)
	case Stored:
		return numeric.StoredBytes(f.value)
	}
	return nil
}

func (f Field) String() string {
	return string(f.kind) + "<" + f.name + ":" + f.value.String() + ">"
}
