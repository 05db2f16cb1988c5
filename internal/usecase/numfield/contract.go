package numfield

import (
	"github.com/kailas-cloud/pointfield/internal/domain/field"
	"github.com/kailas-cloud/pointfield/internal/domain/numeric"
	"github.com/kailas-cloud/pointfield/internal/domain/query"
	"github.com/kailas-cloud/pointfield/internal/domain/selector"
)

// PointEngine builds queries over point-indexed terms.
type PointEngine interface {
	Exact(f field.Config, v numeric.Value) query.Query
	Set(f field.Config, values []numeric.Value) query.Query
	Range(f field.Config, b query.Bounds) query.Query
}

// ColumnStore exposes per-document columnar values.
type ColumnStore interface {
	// Source returns the single value a document holds for f.
	Source(f field.Config) selector.ValueSource
	// Select returns one value per document, reduced from a multi-valued field.
	Select(f field.Config, s selector.Selection) selector.ValueSource
}
